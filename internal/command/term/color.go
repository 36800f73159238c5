package term

import (
	"github.com/fatih/color"

	"github.com/werktool/werk/pkg/werk"
)

var (
	GreenHighlight  = color.New(color.FgGreen).SprintFunc()
	RedHighlight    = color.New(color.FgRed).SprintFunc()
	YellowHighlight = color.New(color.FgYellow).SprintFunc()

	Underline = color.New(color.Underline).SprintFunc()

	Highlight = GreenHighlight
)

// ColoredRunStatus returns the string representation of the status, colored
// by outcome.
func ColoredRunStatus(status werk.RunStatus) string {
	switch status {
	case werk.RunStatusSucceeded, werk.RunStatusUpToDate:
		return GreenHighlight(status.String())
	case werk.RunStatusFailed:
		return RedHighlight(status.String())
	case werk.RunStatusSkipped:
		return YellowHighlight(status.String())
	default:
		return status.String()
	}
}

// ColoredTaskStatus returns the string representation of the status, colored
// by outcome.
func ColoredTaskStatus(status werk.TaskStatus) string {
	switch status {
	case werk.TaskStatusRunExist:
		return GreenHighlight(status.String())
	case werk.TaskStatusExecutionPending:
		return YellowHighlight(status.String())
	default:
		return status.String()
	}
}
