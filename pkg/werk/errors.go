package werk

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRegistrySealed is returned when an entity is registered after the
// registry has been sealed.
var ErrRegistrySealed = errors.New("registry is sealed")

// DuplicateNameError is returned when an entity is registered under a name
// that is already taken in its namespace.
type DuplicateNameError struct {
	Kind string
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("a %s with the name %q is already registered", e.Kind, e.Name)
}

// NotFoundError is returned when an entity name can not be resolved in the
// registry.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q is not registered", e.Kind, e.Name)
}

// UnresolvedReferenceError is returned during graph construction when an
// entity references a name that does not exist in the registry.
type UnresolvedReferenceError struct {
	Entity    string
	Kind      string
	Reference string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s references the %s %q which does not exist",
		e.Entity, e.Kind, e.Reference)
}

// CyclicDependencyError is returned when the derived task dependencies form
// a cycle.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("task dependencies form a cycle: %s",
		strings.Join(e.Cycle, " -> "))
}

// TaskExecutionError is the failure of a single task run.
type TaskExecutionError struct {
	TaskID string
	Err    error
}

func (e *TaskExecutionError) Error() string {
	return fmt.Sprintf("task %s failed: %s", e.TaskID, e.Err)
}

func (e *TaskExecutionError) Unwrap() error {
	return e.Err
}
