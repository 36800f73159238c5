package werk

import (
	"context"
	"fmt"
	"sort"

	"github.com/werktool/werk/pkg/storage"
)

// RunStatus is the execution status of a task during and after a run of the
// executor.
//
// Per task the status transitions Pending -> Ready -> Running ->
// {Succeeded | Failed}, or Pending -> Skipped when an ancestor failed.
// Tasks whose inputs are unchanged since their last successful recorded run
// transition Ready -> UpToDate without being executed.
type RunStatus int

const (
	_ RunStatus = iota
	RunStatusPending
	RunStatusReady
	RunStatusRunning
	RunStatusSucceeded
	RunStatusFailed
	RunStatusSkipped
	RunStatusUpToDate
)

func (s RunStatus) String() string {
	switch s {
	case RunStatusPending:
		return "Pending"
	case RunStatusReady:
		return "Ready"
	case RunStatusRunning:
		return "Running"
	case RunStatusSucceeded:
		return "Succeeded"
	case RunStatusFailed:
		return "Failed"
	case RunStatusSkipped:
		return "Skipped"
	case RunStatusUpToDate:
		return "Up-to-date"

	default:
		panic(fmt.Sprintf("undefined RunStatus value: %d", int(s)))
	}
}

// terminal returns true if the status is final.
func (s RunStatus) terminal() bool {
	switch s {
	case RunStatusSucceeded, RunStatusFailed, RunStatusSkipped, RunStatusUpToDate:
		return true
	default:
		return false
	}
}

// satisfiesDependents returns true if a task with the status allows its
// dependents to run.
func (s RunStatus) satisfiesDependents() bool {
	return s == RunStatusSucceeded || s == RunStatusUpToDate
}

// Runner executes the command of a single task.
type Runner interface {
	Run(ctx context.Context, task *Task) (*RunResult, error)
}

// StatusEvaluator reports if a task already ran with its current inputs.
type StatusEvaluator interface {
	Status(ctx context.Context, task *Task) (TaskStatus, *Inputs, *storage.TaskRunWithID, error)
}

// TaskRunResult is the result of a single task during an executor run.
type TaskRunResult struct {
	Task   *Task
	Status RunStatus
	// Inputs are the resolved inputs, nil when the executor has no status
	// evaluator.
	Inputs *Inputs
	// RunResult is set for executed tasks.
	RunResult *RunResult
	// RunID is the storage ID of the recorded run. For up-to-date tasks
	// it references the existing run. It is NoRunID when no run is
	// recorded.
	RunID int
	// Error is the failure cause of a failed task.
	Error error
}

// ExecutionResult is the result of an executor run.
type ExecutionResult struct {
	// TaskResults contains the result of every task of the executed
	// subgraph, keyed by task ID.
	TaskResults map[string]*TaskRunResult
	// StartOrder lists the task IDs in the order in that they were
	// dispatched.
	StartOrder []string
}

// Failed returns true if at least one task failed.
func (r *ExecutionResult) Failed() bool {
	return r.StatusCount(RunStatusFailed) > 0
}

// StatusCount returns the number of tasks with the given status.
func (r *ExecutionResult) StatusCount(status RunStatus) int {
	var count int

	for _, result := range r.TaskResults {
		if result.Status == status {
			count++
		}
	}

	return count
}

// SortedResults returns the task results sorted by task ID.
func (r *ExecutionResult) SortedResults() []*TaskRunResult {
	result := make([]*TaskRunResult, 0, len(r.TaskResults))
	for _, taskResult := range r.TaskResults {
		result = append(result, taskResult)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Task.ID < result[j].Task.ID
	})

	return result
}

// String returns a summary of the per-status task counts.
func (r *ExecutionResult) String() string {
	return fmt.Sprintf("%d succeeded, %d failed, %d skipped, %d up-to-date",
		r.StatusCount(RunStatusSucceeded),
		r.StatusCount(RunStatusFailed),
		r.StatusCount(RunStatusSkipped),
		r.StatusCount(RunStatusUpToDate),
	)
}

// Executor runs the tasks of a task graph in dependency order.
//
// Ready tasks are executed by a fixed-size worker pool. A task becomes ready
// when all of its dependencies have the terminal status Succeeded or
// UpToDate. Simultaneously ready tasks are started in lexicographic ID
// order, their completion order is undefined.
type Executor struct {
	graph           *TaskGraph
	runner          Runner
	statusEvaluator StatusEvaluator
	store           storage.Storer
	logger          Logger

	workers  int
	failFast bool
	force    bool
}

// NewExecutor returns an executor running the tasks of graph with a single
// worker.
func NewExecutor(graph *TaskGraph, runner Runner, logger Logger) *Executor {
	return &Executor{
		graph:   graph,
		runner:  runner,
		logger:  logger,
		workers: 1,
	}
}

// WithWorkers sets the number of tasks that are executed in parallel.
func (e *Executor) WithWorkers(count int) *Executor {
	if count > 0 {
		e.workers = count
	}

	return e
}

// WithFailFast stops dispatching new tasks after the first task failed.
// Running tasks are allowed to finish.
func (e *Executor) WithFailFast(enabled bool) *Executor {
	e.failFast = enabled

	return e
}

// WithStatusEvaluator enables the up-to-date check.
// Tasks whose evaluated status is TaskStatusRunExist are not executed and
// get the status UpToDate.
func (e *Executor) WithStatusEvaluator(evaluator StatusEvaluator) *Executor {
	e.statusEvaluator = evaluator

	return e
}

// WithStore records successful task runs in the storage.
// Recording requires a status evaluator to resolve the task inputs.
func (e *Executor) WithStore(store storage.Storer) *Executor {
	e.store = store

	return e
}

// WithForce executes tasks even when their inputs are unchanged.
func (e *Executor) WithForce(enabled bool) *Executor {
	e.force = enabled

	return e
}

// NoRunID is the RunID value of task results without a recorded run.
const NoRunID = -1

type workerResult struct {
	task      *Task
	status    RunStatus
	inputs    *Inputs
	runResult *RunResult
	runID     int
	cause     error
	// err is an infrastructure error that aborts the whole run.
	err error
}

// Execute runs the tasks that the targets depend on, including the targets
// themselves, in topological order.
// If targets is empty all tasks of the graph are run.
//
// A failing task causes all of its transitive dependents to be Skipped,
// independent tasks still run. With fail-fast, no new tasks are dispatched
// after the first failure and all unfinished tasks are Skipped.
//
// An error is only returned for infrastructure failures, e.g. when storing
// a run record fails. Task failures are reported via the ExecutionResult.
func (e *Executor) Execute(ctx context.Context, targets ...string) (*ExecutionResult, error) {
	graph, err := e.graph.Subgraph(targets...)
	if err != nil {
		return nil, err
	}

	tasks := graph.Tasks()

	state := make(map[string]RunStatus, len(tasks))
	for _, task := range tasks {
		state[task.ID] = RunStatusPending
	}

	result := &ExecutionResult{
		TaskResults: make(map[string]*TaskRunResult, len(tasks)),
	}

	workerCount := e.workers
	if workerCount > len(tasks) {
		workerCount = len(tasks)
	}

	workCh := make(chan *Task)
	// Buffered so that workers never block on delivering results when the
	// run is aborted early.
	resultCh := make(chan *workerResult, len(tasks))

	for i := 0; i < workerCount; i++ {
		go e.worker(ctx, workCh, resultCh)
	}
	defer close(workCh)

	var inFlight int
	var failureSeen bool

	for {
		if !(e.failFast && failureSeen) {
			for _, task := range e.readyTasks(graph, state) {
				if inFlight == workerCount {
					break
				}

				e.logger.Debugf("executor: starting %s", task.ID)
				state[task.ID] = RunStatusRunning
				result.StartOrder = append(result.StartOrder, task.ID)
				inFlight++
				workCh <- task
			}
		}

		if inFlight == 0 {
			break
		}

		res := <-resultCh
		inFlight--

		if res.err != nil {
			return nil, fmt.Errorf("task %s: %w", res.task.ID, res.err)
		}

		e.logger.Debugf("executor: %s finished: %s", res.task.ID, res.status)
		state[res.task.ID] = res.status
		result.TaskResults[res.task.ID] = &TaskRunResult{
			Task:      res.task,
			Status:    res.status,
			Inputs:    res.inputs,
			RunResult: res.runResult,
			RunID:     res.runID,
			Error:     res.cause,
		}

		if res.status == RunStatusFailed {
			failureSeen = true

			if err := e.skipDependents(graph, state, result, res.task.ID); err != nil {
				return nil, err
			}
		}
	}

	// Tasks that could not run anymore, because of fail-fast, are skipped.
	for id, status := range state {
		if status.terminal() {
			continue
		}

		task, err := graph.Task(id)
		if err != nil {
			return nil, err
		}

		state[id] = RunStatusSkipped
		result.TaskResults[id] = &TaskRunResult{
			Task:   task,
			Status: RunStatusSkipped,
			RunID:  NoRunID,
		}
	}

	return result, nil
}

// readyTasks returns the tasks whose dependencies are all satisfied, in
// lexicographic ID order.
func (e *Executor) readyTasks(graph *TaskGraph, state map[string]RunStatus) []*Task {
	var result []*Task

	for _, id := range graph.TopologicalOrder() {
		status := state[id]
		if status != RunStatusPending && status != RunStatusReady {
			continue
		}

		task, _ := graph.Task(id)

		depsSatisfied := true
		for _, dep := range task.DependsOn {
			if !state[dep].satisfiesDependents() {
				depsSatisfied = false
				break
			}
		}

		if !depsSatisfied {
			continue
		}

		state[id] = RunStatusReady
		result = append(result, task)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// skipDependents marks all transitive dependents of the failed task as
// Skipped.
func (e *Executor) skipDependents(graph *TaskGraph, state map[string]RunStatus, result *ExecutionResult, failedID string) error {
	queue := []string{failedID}
	visited := map[string]struct{}{failedID: {}}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		dependents, err := graph.Dependents(id)
		if err != nil {
			return err
		}

		for _, dependent := range dependents {
			if _, seen := visited[dependent]; seen {
				continue
			}
			visited[dependent] = struct{}{}

			queue = append(queue, dependent)

			status := state[dependent]
			if status.terminal() {
				continue
			}

			if status == RunStatusRunning {
				return fmt.Errorf("task %s is running but depends on the failed task %s", dependent, failedID)
			}

			task, err := graph.Task(dependent)
			if err != nil {
				return err
			}

			e.logger.Debugf("executor: skipping %s, depends on failed task %s", dependent, failedID)
			state[dependent] = RunStatusSkipped
			result.TaskResults[dependent] = &TaskRunResult{
				Task:   task,
				Status: RunStatusSkipped,
				RunID:  NoRunID,
			}
		}
	}

	return nil
}

func (e *Executor) worker(ctx context.Context, workCh <-chan *Task, resultCh chan<- *workerResult) {
	for task := range workCh {
		resultCh <- e.runTask(ctx, task)
	}
}

func (e *Executor) runTask(ctx context.Context, task *Task) *workerResult {
	result := &workerResult{task: task, runID: NoRunID}

	if e.statusEvaluator != nil {
		status, inputs, run, err := e.statusEvaluator.Status(ctx, task)
		if err != nil {
			result.err = err
			return result
		}

		result.inputs = inputs

		if status == TaskStatusRunExist && !e.force {
			result.status = RunStatusUpToDate
			result.runID = run.ID

			return result
		}
	}

	runResult, err := e.runner.Run(ctx, task)
	if err != nil {
		result.status = RunStatusFailed
		result.cause = &TaskExecutionError{TaskID: task.ID, Err: err}

		return result
	}

	result.runResult = runResult

	if err := runResult.ExpectSuccess(); err != nil {
		result.status = RunStatusFailed
		result.cause = &TaskExecutionError{TaskID: task.ID, Err: err}

		return result
	}

	result.status = RunStatusSucceeded

	if e.store != nil && result.inputs != nil {
		runID, err := StoreRun(ctx, e.store, task, result.inputs, runResult)
		if err != nil {
			result.err = fmt.Errorf("storing task run failed: %w", err)
			return result
		}

		result.runID = runID
	}

	return result
}
