package command

import (
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/werktool/werk/internal/command/term"
	"github.com/werktool/werk/internal/log"
	"github.com/werktool/werk/pkg/werk"
)

var testLongHelp = `
Execute the test tasks of the repository.

The tasks that build the binaries under test are executed first when their
results are not up-to-date. The filter pattern is a glob that is matched
against task IDs, e.g. 'calc-*.test'.
`

type testCmd struct {
	cobra.Command

	filter   string
	force    bool
	failFast bool
	workers  int
}

func init() {
	rootCmd.AddCommand(&newTestCmd().Command)
}

func newTestCmd() *testCmd {
	cmd := testCmd{
		Command: cobra.Command{
			Use:   "test",
			Short: "execute test tasks",
			Long:  strings.TrimSpace(testLongHelp),
			Args:  cobra.NoArgs,
		},
	}

	cmd.Run = cmd.run

	cmd.Flags().StringVar(&cmd.filter, "filter", "",
		"only execute test tasks whose ID matches the glob pattern")
	cmd.Flags().BoolVarP(&cmd.force, "force", "f", false,
		"execute test tasks independent of their up-to-date status")
	cmd.Flags().BoolVar(&cmd.failFast, "fail-fast", false,
		"stop dispatching new tasks after the first task failed")
	cmd.Flags().IntVar(&cmd.workers, "workers", 0,
		"number of tasks that are executed in parallel, 0 uses the repository config value")

	return &cmd
}

func (c *testCmd) run(_ *cobra.Command, _ []string) {
	startTime := time.Now()

	repo := mustFindRepository()
	graph := mustLoadTaskGraph(repo)

	targets := c.mustTestTargets(graph)
	if len(targets) == 0 {
		stdout.Println("no test tasks found")
		return
	}

	workers := repo.Cfg.Executor.Workers
	if c.workers > 0 {
		workers = c.workers
	}
	if workers < 1 {
		workers = 1
	}

	store := mustNewCompatibleStorage(repo)
	defer store.Close()

	executor := werk.NewExecutor(graph, werk.NewTaskRunner(), log.StdLogger).
		WithWorkers(workers).
		WithFailFast(c.failFast || repo.Cfg.Executor.FailFast).
		WithForce(c.force).
		WithStore(store).
		WithStatusEvaluator(werk.NewTaskStatusEvaluator(store, werk.NewInputResolver(repo.Path)))

	result, err := executor.Execute(ctx, targets...)
	exitOnErr(err)

	printExecutionResult(result)

	stdout.PrintSep()
	stdout.Printf("finished in: %ss\n", term.StrDurationSec(startTime, time.Now()))

	if result.Failed() {
		exitFunc(exitCodeTaskFailed)
	}
}

// mustTestTargets returns the IDs of the test tasks matching the filter
// pattern. Without a filter all test tasks are returned.
func (c *testCmd) mustTestTargets(graph *werk.TaskGraph) []string {
	var targets []string

	for _, task := range graph.Tasks() {
		if !task.IsTest() {
			continue
		}

		if c.filter != "" {
			match, err := doublestar.Match(c.filter, task.ID)
			exitOnErr(err)

			if !match {
				continue
			}
		}

		targets = append(targets, task.ID)
	}

	if c.filter != "" && len(targets) == 0 {
		log.Fatalf("no test task matches the filter %q", c.filter)
	}

	return targets
}
