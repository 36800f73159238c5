// Package exec runs external commands.
package exec

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	// DefaultDebugfFn is the default debug print function.
	DefaultDebugfFn = func(string, ...any) {}
	// DefaultDebugPrefix is the default prefix that is prepended to messages
	// passed to the debugf function.
	DefaultDebugPrefix = "exec: "
)

// Cmd represents a command that can be run.
type Cmd struct {
	name string
	args []string
	dir  string
	env  []string

	debugfFn      func(format string, v ...any)
	debugfPrefix  string
	expectSuccess bool
}

// Command returns a new Cmd.
// By default a command is run in the current working directory.
func Command(name string, arg ...string) *Cmd {
	return &Cmd{
		name:         name,
		args:         arg,
		debugfFn:     DefaultDebugfFn,
		debugfPrefix: DefaultDebugPrefix,
	}
}

// Directory changes the directory in which the command is executed.
func (c *Cmd) Directory(dir string) *Cmd {
	c.dir = dir
	return c
}

// SetEnv sets the environment variables that the process uses.
// Each element is in the format KEY=VALUE.
func (c *Cmd) SetEnv(env []string) *Cmd {
	c.env = env
	return c
}

// DebugfFn sets the debug print function.
func (c *Cmd) DebugfFn(fn func(format string, v ...any)) *Cmd {
	c.debugfFn = fn
	return c
}

// DebugfPrefix sets a prefix that is prepended to the message that is passed
// to the debugf function.
func (c *Cmd) DebugfPrefix(prefix string) *Cmd {
	c.debugfPrefix = prefix
	return c
}

// ExpectSuccess if called, Run() returns an error if the command did not exit
// with code 0.
func (c *Cmd) ExpectSuccess() *Cmd {
	c.expectSuccess = true
	return c
}

// Run executes the command and waits until it terminates.
// Stdout and stderr of the process are combined and recorded in the returned
// Result. Each output line is also logged via the debugf function.
func (c *Cmd) Run(ctx context.Context) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.name, c.args...)
	cmd.Dir = c.dir
	cmd.Env = c.env

	outReader, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	cmd.Stderr = cmd.Stdout

	c.debugfFn(c.debugfPrefix+"running %q in directory %q\n", cmdString(cmd), cmd.Dir)

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	var outBuf bytes.Buffer
	in := bufio.NewScanner(outReader)
	for in.Scan() {
		c.debugfFn(c.debugfPrefix + in.Text() + "\n")

		outBuf.Write(in.Bytes())
		outBuf.WriteRune('\n')
	}

	if err := in.Err(); err != nil {
		_ = cmd.Wait()
		return nil, err
	}

	exitCode := 0
	waitErr := cmd.Wait()
	if waitErr != nil {
		var ee *exec.ExitError
		if !errors.As(waitErr, &ee) {
			return nil, waitErr
		}

		exitCode = ee.ExitCode()
	}

	result := &Result{
		Command:  cmdString(cmd),
		Dir:      cmd.Dir,
		ExitCode: exitCode,
		Output:   outBuf.Bytes(),
		success:  exitCode == 0,
	}

	if c.expectSuccess && !result.success {
		return nil, &ExitCodeError{Result: result}
	}

	return result, nil
}

func cmdString(cmd *exec.Cmd) string {
	return strings.Join(cmd.Args, " ")
}

// Result describes the result of a run Cmd.
type Result struct {
	Command  string
	Dir      string
	ExitCode int
	Output   []byte

	success bool
}

// StrOutput returns the combined output of the command as string.
func (r *Result) StrOutput() string {
	return string(r.Output)
}

// ExpectSuccess returns an ExitCodeError if the command did not execute
// successfully (exit code != 0).
func (r *Result) ExpectSuccess() error {
	if !r.success {
		return &ExitCodeError{Result: r}
	}

	return nil
}

// ExitCodeError is returned from Run() when a command exited with a code != 0.
type ExitCodeError struct {
	*Result
}

// Error returns the error description.
func (e *ExitCodeError) Error() string {
	var result strings.Builder

	fmt.Fprintf(&result, "execution failed: %q in directory %q exited with code %d",
		e.Command, e.Dir, e.ExitCode)

	if len(e.Output) > 0 {
		result.WriteString(", output:\n")
		result.WriteString(strings.TrimSpace(string(e.Output)))
		result.WriteRune('\n')
	}

	return result.String()
}
