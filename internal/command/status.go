package command

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/werktool/werk/internal/command/term"
	"github.com/werktool/werk/internal/format"
	"github.com/werktool/werk/internal/format/csv"
	"github.com/werktool/werk/internal/format/table"
	"github.com/werktool/werk/pkg/werk"
)

var statusLongHelp = `
List the up-to-date status of all tasks in the repository.

Tasks with status ` + werk.TaskStatusRunExist.String() + ` have a recorded run whose inputs match the
current ones, 'werk build' skips them. The Run ID column references the
matching run.
`

type statusCmd struct {
	cobra.Command

	csv   bool
	quiet bool
}

func init() {
	rootCmd.AddCommand(&newStatusCmd().Command)
}

func newStatusCmd() *statusCmd {
	cmd := statusCmd{
		Command: cobra.Command{
			Use:   "status",
			Short: "list the up-to-date status of tasks",
			Long:  strings.TrimSpace(statusLongHelp),
			Args:  cobra.NoArgs,
		},
	}

	cmd.Run = cmd.run

	cmd.Flags().BoolVar(&cmd.csv, "csv", false,
		"list statuses in RFC4180 CSV format")

	cmd.Flags().BoolVarP(&cmd.quiet, "quiet", "q", false,
		"suppress printing the header")

	return &cmd
}

func (c *statusCmd) run(_ *cobra.Command, _ []string) {
	var formatter format.Formatter
	var headers []string

	repo := mustFindRepository()
	graph := mustLoadTaskGraph(repo)

	store := mustNewCompatibleStorage(repo)
	defer store.Close()

	statusEvaluator := werk.NewTaskStatusEvaluator(store, werk.NewInputResolver(repo.Path))

	if !c.quiet && !c.csv {
		headers = []string{"Task ID", "Status", "Run ID"}
	}

	if c.csv {
		formatter = csv.New(headers, stdout)
	} else {
		formatter = table.New(headers, stdout)
	}

	tasks := graph.Tasks()
	werk.SortTasksByID(tasks)

	for _, task := range tasks {
		status, _, run, err := statusEvaluator.Status(ctx, task)
		exitOnErr(err)

		runID := ""
		if status == werk.TaskStatusRunExist {
			runID = term.Highlight(run.ID)
		}

		statusStr := status.String()
		if !c.csv {
			statusStr = term.ColoredTaskStatus(status)
		}

		mustWriteRow(formatter, task.ID, statusStr, runID)
	}

	err := formatter.Flush()
	exitOnErr(err)
}
