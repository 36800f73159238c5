package werk

import (
	"context"
	"errors"
	"fmt"

	"github.com/werktool/werk/pkg/storage"
)

// TaskStatusEvaluator determines if a task already ran with the same set of
// inputs in the past.
type TaskStatusEvaluator struct {
	inputResolver *InputResolver
	store         storage.Storer
}

func NewTaskStatusEvaluator(store storage.Storer, inputResolver *InputResolver) *TaskStatusEvaluator {
	return &TaskStatusEvaluator{
		inputResolver: inputResolver,
		store:         store,
	}
}

// Status resolves the inputs of the task, calculates the total input digest
// and checks in the storage if a successful run for the task and digest is
// recorded.
// If a run exist it is returned together with TaskStatusRunExist, otherwise
// the run is nil and the status is TaskStatusExecutionPending.
func (t *TaskStatusEvaluator) Status(ctx context.Context, task *Task) (TaskStatus, *Inputs, *storage.TaskRunWithID, error) {
	inputs, err := t.inputResolver.Resolve(task)
	if err != nil {
		return TaskStatusUndefined, nil, nil, err
	}

	totalInputDigest, err := inputs.Digest()
	if err != nil {
		return TaskStatusUndefined, nil, nil, fmt.Errorf("calculating total input digest failed: %w", err)
	}

	run, err := t.store.LatestTaskRunByDigest(ctx, task.ComponentName, task.Name, totalInputDigest.String())
	if err == nil {
		return TaskStatusRunExist, inputs, run, nil
	}

	if errors.Is(err, storage.ErrNotExist) {
		return TaskStatusExecutionPending, inputs, nil, nil
	}

	return TaskStatusUndefined, nil, nil, fmt.Errorf("querying storage for task run status failed: %w", err)
}
