package command

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/werktool/werk/internal/command/term"
	"github.com/werktool/werk/internal/log"
	"github.com/werktool/werk/pkg/werk"
)

var buildLongHelp = `
Execute the tasks of the repository in dependency order.

Without arguments all tasks are executed. Targets can be component names or
task IDs in the format <COMPONENT-NAME>.<TASK-NAME>. When targets are passed,
only the targets and the tasks they depend on are executed.

Tasks whose inputs did not change since their last recorded successful run
are skipped and reported as ` + werk.RunStatusUpToDate.String() + `.
`

type buildCmd struct {
	cobra.Command

	force      bool
	failFast   bool
	workers    int
	skipRecord bool
}

func init() {
	rootCmd.AddCommand(&newBuildCmd().Command)
}

func newBuildCmd() *buildCmd {
	const example = `
build			execute all tasks of the repository
build calc		execute the tasks of the calc component and its dependencies
build calc.compile	execute a single task and its dependencies
`

	cmd := buildCmd{
		Command: cobra.Command{
			Use:     "build [<TARGET>...]",
			Short:   "execute tasks",
			Long:    strings.TrimSpace(buildLongHelp),
			Example: strings.TrimSpace(example),
			Args:    cobra.ArbitraryArgs,
		},
	}

	cmd.Run = cmd.run

	cmd.Flags().BoolVarP(&cmd.force, "force", "f", false,
		"execute tasks independent of their up-to-date status")
	cmd.Flags().BoolVar(&cmd.failFast, "fail-fast", false,
		"stop dispatching new tasks after the first task failed")
	cmd.Flags().IntVar(&cmd.workers, "workers", 0,
		"number of tasks that are executed in parallel, 0 uses the repository config value")
	cmd.Flags().BoolVarP(&cmd.skipRecord, "skip-record", "s", false,
		"do not record task runs in the database, disables up-to-date detection")

	return &cmd
}

func (c *buildCmd) run(_ *cobra.Command, args []string) {
	startTime := time.Now()

	repo := mustFindRepository()
	graph := mustLoadTaskGraph(repo)

	targets := mustExpandTargets(graph, args)

	executor := werk.NewExecutor(graph, werk.NewTaskRunner(), log.StdLogger).
		WithWorkers(c.workerCount(repo)).
		WithFailFast(c.failFast || repo.Cfg.Executor.FailFast).
		WithForce(c.force)

	if c.skipRecord {
		stdout.Printf("--skip-record was passed, task runs are not recorded and all tasks are executed\n\n")
	} else {
		store := mustNewCompatibleStorage(repo)
		defer store.Close()

		executor.
			WithStore(store).
			WithStatusEvaluator(werk.NewTaskStatusEvaluator(store, werk.NewInputResolver(repo.Path)))
	}

	result, err := executor.Execute(ctx, targets...)
	exitOnErr(err)

	printExecutionResult(result)

	stdout.PrintSep()
	stdout.Printf("finished in: %ss\n", term.StrDurationSec(startTime, time.Now()))

	if result.Failed() {
		exitFunc(exitCodeTaskFailed)
	}
}

func (c *buildCmd) workerCount(repo *werk.Repository) int {
	if c.workers > 0 {
		return c.workers
	}

	if repo.Cfg.Executor.Workers > 0 {
		return repo.Cfg.Executor.Workers
	}

	return 1
}

// mustExpandTargets translates commandline targets to task IDs.
// A target is either a task ID or a component name, component names expand to
// all tasks of the component.
func mustExpandTargets(graph *werk.TaskGraph, args []string) []string {
	var targets []string

	for _, arg := range args {
		if strings.Contains(arg, ".") {
			if _, err := graph.Task(arg); err != nil {
				log.Fatalln(err)
			}

			targets = append(targets, arg)

			continue
		}

		componentTaskIDs := componentTasks(graph, arg)
		if len(componentTaskIDs) == 0 {
			log.Fatalf("%q matches no component or task", arg)
		}

		targets = append(targets, componentTaskIDs...)
	}

	return targets
}

func componentTasks(graph *werk.TaskGraph, componentName string) []string {
	var ids []string

	for _, task := range graph.Tasks() {
		if task.ComponentName == componentName {
			ids = append(ids, task.ID)
		}
	}

	return ids
}

func printExecutionResult(result *werk.ExecutionResult) {
	for _, taskResult := range result.SortedResults() {
		switch taskResult.Status {
		case werk.RunStatusSucceeded:
			stdout.TaskPrintf(taskResult.Task, "%s (%ss)\n",
				term.ColoredRunStatus(taskResult.Status),
				term.DurationToStrSeconds(taskResult.RunResult.StopTime.Sub(taskResult.RunResult.StartTime)))

		case werk.RunStatusFailed:
			if taskResult.RunResult != nil && len(taskResult.RunResult.Output) > 0 {
				stdout.Printf("%s\n", taskResult.RunResult.StrOutput())
			}

			stdout.TaskPrintf(taskResult.Task, "%s: %s\n",
				term.ColoredRunStatus(taskResult.Status), taskResult.Error)

		case werk.RunStatusUpToDate:
			stdout.TaskPrintf(taskResult.Task, "%s (run %s)\n",
				term.ColoredRunStatus(taskResult.Status), runIDStr(taskResult))

		default:
			stdout.TaskPrintf(taskResult.Task, "%s\n",
				term.ColoredRunStatus(taskResult.Status))
		}
	}

	stdout.PrintSep()
	stdout.Printf("%s\n", result)
}

func runIDStr(taskResult *werk.TaskRunResult) string {
	if taskResult.RunID == werk.NoRunID {
		return "not recorded"
	}

	return term.Highlight(taskResult.RunID)
}
