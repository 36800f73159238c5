// Package command implements the werk commandline application.
package command

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/werktool/werk/internal/command/term"
	"github.com/werktool/werk/internal/exec"
	"github.com/werktool/werk/internal/log"
	"github.com/werktool/werk/internal/version"
)

var rootCmd = &cobra.Command{
	Use:              "werk",
	Short:            "werk is a build tool for multi-component repositories.",
	PersistentPreRun: initWerk,
}

var verboseFlag bool
var noColorFlag bool

var ctx = context.Background()

var stdout = term.NewStream(os.Stdout)
var stderr = term.NewStream(os.Stderr)

var exitFunc = func(code int) { os.Exit(code) }

func initWerk(_ *cobra.Command, _ []string) {
	if verboseFlag {
		log.StdLogger.EnableDebug(verboseFlag)
		exec.DefaultDebugfFn = log.StdLogger.Debugf
	}

	if noColorFlag {
		color.NoColor = true
	}
}

// Execute parses commandline flags and executes their actions.
func Execute() {
	if err := version.LoadPackageVars(); err != nil {
		stderr.Printf("setting version failed: %s\n", err)
	}
	rootCmd.Version = version.CurSemVer.String()

	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable color output")

	err := rootCmd.Execute()
	exitOnErr(err)
}
