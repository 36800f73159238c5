package werk

import (
	"fmt"
)

// TaskStatus describes whether a run with the current inputs of a task is
// already recorded in the storage.
type TaskStatus int

const (
	_ TaskStatus = iota
	TaskStatusUndefined
	TaskStatusRunExist
	TaskStatusExecutionPending
)

func (s TaskStatus) String() string {
	switch s {
	case TaskStatusUndefined:
		return "Undefined"
	case TaskStatusRunExist:
		return "Exist"
	case TaskStatusExecutionPending:
		return "Pending"

	default:
		panic(fmt.Sprintf("undefined TaskStatus value: %d", int(s)))
	}
}
