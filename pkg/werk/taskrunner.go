package werk

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/werktool/werk/internal/exec"
)

// TaskRunner executes the command of a task.
type TaskRunner struct{}

func NewTaskRunner() *TaskRunner {
	return &TaskRunner{}
}

// RunResult represents the results of a task run.
type RunResult struct {
	*exec.Result
	StartTime time.Time
	StopTime  time.Time
}

// Run executes the command of a task and returns the execution result.
// The output of the command is logged with debug log level.
// A non-zero exit code is not an error, it is reported via the Result.
func (t *TaskRunner) Run(ctx context.Context, task *Task) (*RunResult, error) {
	startTime := time.Now()

	execResult, err := exec.Command(task.Command[0], task.Command[1:]...).
		Directory(task.Directory).
		DebugfPrefix(color.YellowString(fmt.Sprintf("%s: ", task))).
		Run(ctx)
	if err != nil {
		return nil, err
	}

	return &RunResult{
		Result:    execResult,
		StartTime: startTime,
		StopTime:  time.Now(),
	}, nil
}
