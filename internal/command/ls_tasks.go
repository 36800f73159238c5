package command

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/werktool/werk/internal/format"
	"github.com/werktool/werk/internal/format/csv"
	"github.com/werktool/werk/internal/format/table"
)

type lsTasksCmd struct {
	cobra.Command

	csv   bool
	quiet bool
}

func init() {
	lsCmd.AddCommand(&newLsTasksCmd().Command)
}

func newLsTasksCmd() *lsTasksCmd {
	cmd := lsTasksCmd{
		Command: cobra.Command{
			Use:   "tasks",
			Short: "list the derived tasks in execution order",
			Args:  cobra.NoArgs,
		},
	}

	cmd.Run = cmd.run

	cmd.Flags().BoolVar(&cmd.csv, "csv", false,
		"list tasks in RFC4180 CSV format")

	cmd.Flags().BoolVarP(&cmd.quiet, "quiet", "q", false,
		"only print task IDs")

	return &cmd
}

func (c *lsTasksCmd) run(_ *cobra.Command, _ []string) {
	var formatter format.Formatter
	var headers []string

	repo := mustFindRepository()
	graph := mustLoadTaskGraph(repo)

	if !c.quiet && !c.csv {
		headers = []string{"Task ID", "Command", "Depends On"}
	}

	if c.csv {
		formatter = csv.New(headers, stdout)
	} else {
		formatter = table.New(headers, stdout)
	}

	for _, taskID := range graph.TopologicalOrder() {
		task, err := graph.Task(taskID)
		exitOnErr(err)

		if c.quiet {
			mustWriteRow(formatter, task.ID)
			continue
		}

		mustWriteRow(formatter,
			task.ID,
			strings.Join(task.Command, " "),
			strings.Join(task.DependsOn, ", "),
		)
	}

	err := formatter.Flush()
	exitOnErr(err)
}
