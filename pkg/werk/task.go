package werk

import (
	"fmt"
	"sort"
)

// Task names derived per build action.
const (
	taskNameCompile       = "compile"
	taskNameTest          = "test"
	taskNamePackagePrefix = "package-"
)

// Task is a unit of work derived from the registered entities of a
// repository.
// A task has a set of inputs that produce its outputs by executing its
// command.
type Task struct {
	// ID is the unique identifier of the task, in the format
	// <COMPONENT-NAME>.<TASK-NAME>.
	ID string

	Name          string
	ComponentName string

	RepositoryRoot string
	// Directory is the working directory in which Command is run.
	Directory string
	Command   []string

	// SourceSets are the source sets whose files are inputs of the task.
	SourceSets []*SourceSet
	// CfgFilepath is the configuration file declaring the task, it is an
	// input of the task.
	CfgFilepath string
	// ExternalDependencies are external module coordinates, they are
	// digest inputs of the task.
	ExternalDependencies []string

	// OutputName and OutputPath describe the artifact that the task
	// produces. Both are empty for tasks without outputs.
	OutputName string
	OutputPath string

	// DependsOn contains the IDs of the tasks that must have run
	// successfully before this task.
	DependsOn []string
}

// String returns the task ID.
func (t *Task) String() string {
	return t.ID
}

// HasOutput returns true if the task produces an artifact.
func (t *Task) HasOutput() bool {
	return t.OutputPath != ""
}

// IsTest returns true if the task runs a test suite.
func (t *Task) IsTest() bool {
	return t.Name == taskNameTest
}

// taskID returns the ID for a task of a component.
func taskID(componentName, taskName string) string {
	return fmt.Sprintf("%s.%s", componentName, taskName)
}

// SortTasksByID sorts the tasks slice by task IDs.
func SortTasksByID(tasks []*Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID < tasks[j].ID
	})
}
