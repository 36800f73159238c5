package werk_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/werktool/werk/internal/log"
	"github.com/werktool/werk/internal/testutils/repotest"
	"github.com/werktool/werk/pkg/storage"
	"github.com/werktool/werk/pkg/werk"
)

// inMemStore is a storage.Storer keeping task runs in memory.
type inMemStore struct {
	mu     sync.Mutex
	nextID int
	runs   []*storage.TaskRunWithID
}

func newInMemStore() *inMemStore {
	return &inMemStore{nextID: 1}
}

func (s *inMemStore) Close() error { return nil }

func (s *inMemStore) SchemaVersion(context.Context) (int32, error) { return 1, nil }

func (s *inMemStore) RequiredSchemaVersion() int32 { return 1 }

func (s *inMemStore) IsCompatible(context.Context) error { return nil }

func (s *inMemStore) Init(context.Context) error { return nil }

func (s *inMemStore) SaveTaskRun(_ context.Context, taskRun *storage.TaskRunFull) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := storage.TaskRunWithID{
		ID:      s.nextID,
		TaskRun: taskRun.TaskRun,
	}

	s.nextID++
	s.runs = append(s.runs, &run)

	return run.ID, nil
}

func (s *inMemStore) LatestTaskRunByDigest(_ context.Context, componentName, taskName, totalInputDigest string) (*storage.TaskRunWithID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.runs) - 1; i >= 0; i-- {
		run := s.runs[i]

		if run.ComponentName == componentName &&
			run.TaskName == taskName &&
			run.TotalInputDigest == totalInputDigest &&
			run.Result == storage.ResultSuccess {
			return run, nil
		}
	}

	return nil, storage.ErrNotExist
}

func (s *inMemStore) TaskRun(_ context.Context, id int) (*storage.TaskRunWithID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, run := range s.runs {
		if run.ID == id {
			return run, nil
		}
	}

	return nil, storage.ErrNotExist
}

func (s *inMemStore) TaskRuns(context.Context, []*storage.Filter, []*storage.Sorter, uint, func(*storage.TaskRunWithID) error) error {
	return storage.ErrNotExist
}

func (s *inMemStore) Inputs(context.Context, int) (*storage.Inputs, error) {
	return nil, storage.ErrNotExist
}

func (s *inMemStore) AddUpload(context.Context, int, string, *storage.Upload) error {
	return nil
}

func newTestExecutor(t *testing.T, r *repotest.Repo, store storage.Storer, opts ...func(*werk.Executor)) (*werk.Executor, *werk.TaskGraph) {
	t.Helper()

	graph := buildGraph(t, r)

	executor := werk.NewExecutor(graph, werk.NewTaskRunner(), log.StdLogger)

	if store != nil {
		executor.
			WithStore(store).
			WithStatusEvaluator(werk.NewTaskStatusEvaluator(store, werk.NewInputResolver(r.Dir)))
	}

	for _, opt := range opts {
		opt(executor)
	}

	return executor, graph
}

func resultStatuses(result *werk.ExecutionResult) map[string]werk.RunStatus {
	statuses := make(map[string]werk.RunStatus, len(result.TaskResults))
	for id, taskResult := range result.TaskResults {
		statuses[id] = taskResult.Status
	}

	return statuses
}

func TestExecuteRunsTasksInDependencyOrder(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "alpha")
	r.CreateComponent(t, "beta", "alpha")

	executor, _ := newTestExecutor(t, r, nil)

	result, err := executor.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t,
		[]string{
			"alpha.compile",
			"alpha.package-dist",
			"beta.compile",
			"beta.package-dist",
		},
		result.StartOrder,
	)

	assert.False(t, result.Failed())
	assert.Equal(t, 4, result.StatusCount(werk.RunStatusSucceeded))
}

func TestExecuteIsDeterministic(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "alpha")
	r.CreateComponent(t, "beta", "alpha")
	r.CreateComponentWithoutBinaries(t, "gamma")

	executor, _ := newTestExecutor(t, r, nil)

	first, err := executor.Execute(context.Background())
	require.NoError(t, err)

	second, err := executor.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.StartOrder, second.StartOrder)
	assert.Equal(t, resultStatuses(first), resultStatuses(second))
}

func TestExecuteTargetsLimitExecution(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "alpha")
	r.CreateComponent(t, "beta", "alpha")
	r.CreateComponentWithoutBinaries(t, "gamma")

	executor, _ := newTestExecutor(t, r, nil)

	result, err := executor.Execute(context.Background(), "alpha.package-dist")
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"alpha.compile", "alpha.package-dist"},
		result.StartOrder,
	)
}

func TestFailedTaskSkipsDependents(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateFailingComponent(t, "broken")
	r.CreateComponent(t, "dependent", "broken")
	r.CreateComponent(t, "unrelated")

	executor, _ := newTestExecutor(t, r, nil)

	result, err := executor.Execute(context.Background())
	require.NoError(t, err)

	statuses := resultStatuses(result)

	assert.Equal(t, werk.RunStatusFailed, statuses["broken.compile"])
	assert.Equal(t, werk.RunStatusSkipped, statuses["dependent.compile"])
	assert.Equal(t, werk.RunStatusSkipped, statuses["dependent.package-dist"])
	assert.Equal(t, werk.RunStatusSucceeded, statuses["unrelated.compile"])
	assert.Equal(t, werk.RunStatusSucceeded, statuses["unrelated.package-dist"])

	assert.True(t, result.Failed())

	var taskErr *werk.TaskExecutionError
	require.ErrorAs(t, result.TaskResults["broken.compile"].Error, &taskErr)
	assert.Equal(t, "broken.compile", taskErr.TaskID)
}

func TestFailFastSkipsRemainingTasks(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateFailingComponent(t, "aaa-broken")
	r.CreateComponent(t, "unrelated")

	executor, _ := newTestExecutor(t, r, nil, func(e *werk.Executor) {
		e.WithFailFast(true)
	})

	result, err := executor.Execute(context.Background())
	require.NoError(t, err)

	statuses := resultStatuses(result)

	assert.Equal(t, werk.RunStatusFailed, statuses["aaa-broken.compile"])
	assert.Equal(t, werk.RunStatusSkipped, statuses["unrelated.compile"])
	assert.Equal(t, werk.RunStatusSkipped, statuses["unrelated.package-dist"])
	assert.True(t, result.Failed())
}

func TestSecondRunIsUpToDate(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "alpha")
	r.CreateComponent(t, "beta", "alpha")

	store := newInMemStore()

	executor, _ := newTestExecutor(t, r, store)

	first, err := executor.Execute(context.Background())
	require.NoError(t, err)
	require.False(t, first.Failed())
	require.Equal(t, 4, first.StatusCount(werk.RunStatusSucceeded))

	for id, taskResult := range first.TaskResults {
		assert.NotEqual(t, werk.NoRunID, taskResult.RunID, "no run recorded for %s", id)
	}

	executor, _ = newTestExecutor(t, r, store)

	second, err := executor.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, second.StatusCount(werk.RunStatusUpToDate))
	assert.Zero(t, second.StatusCount(werk.RunStatusSucceeded))
}

func TestInputChangeTriggersNewRun(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "alpha")

	store := newInMemStore()

	executor, _ := newTestExecutor(t, r, store)

	first, err := executor.Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, first.StatusCount(werk.RunStatusSucceeded))

	r.WriteSourceFile(t, "alpha", "Main.java", "changed content")

	executor, _ = newTestExecutor(t, r, store)

	second, err := executor.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, second.StatusCount(werk.RunStatusSucceeded))
	assert.Zero(t, second.StatusCount(werk.RunStatusUpToDate))
}

func TestForceRunsUpToDateTasks(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "alpha")

	store := newInMemStore()

	executor, _ := newTestExecutor(t, r, store)

	first, err := executor.Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, first.StatusCount(werk.RunStatusSucceeded))

	executor, _ = newTestExecutor(t, r, store, func(e *werk.Executor) {
		e.WithForce(true)
	})

	second, err := executor.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, second.StatusCount(werk.RunStatusSucceeded))
	assert.Zero(t, second.StatusCount(werk.RunStatusUpToDate))
}

func TestExecuteWithMultipleWorkers(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)

	for i := 0; i < 8; i++ {
		r.CreateComponent(t, fmt.Sprintf("component-%d", i))
	}

	executor, graph := newTestExecutor(t, r, nil, func(e *werk.Executor) {
		e.WithWorkers(4)
	})

	result, err := executor.Execute(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Failed())
	assert.Len(t, result.StartOrder, len(graph.Tasks()))
	assert.Equal(t, len(graph.Tasks()), result.StatusCount(werk.RunStatusSucceeded))
}
