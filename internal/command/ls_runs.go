package command

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/werktool/werk/internal/command/flag"
	"github.com/werktool/werk/internal/command/term"
	"github.com/werktool/werk/internal/format"
	"github.com/werktool/werk/internal/format/csv"
	"github.com/werktool/werk/internal/format/table"
	"github.com/werktool/werk/internal/log"
	"github.com/werktool/werk/pkg/storage"
)

type lsRunsCmd struct {
	cobra.Command

	format *flag.Format
	quiet  bool
	limit  uint
}

func init() {
	lsCmd.AddCommand(&newLsRunsCmd().Command)
}

func newLsRunsCmd() *lsRunsCmd {
	cmd := lsRunsCmd{
		Command: cobra.Command{
			Use:   "runs <TASK-ID>",
			Short: "list recorded runs of a task",
			Args:  cobra.ExactArgs(1),
		},
		format: flag.NewFormatFlag(),
	}

	cmd.Run = cmd.run

	cmd.Flags().Var(cmd.format, "format",
		cmd.format.Usage(term.Highlight))
	exitOnErr(cmd.format.RegisterFlagCompletion(&cmd.Command))

	cmd.Flags().BoolVarP(&cmd.quiet, "quiet", "q", false,
		"only print run IDs")

	cmd.Flags().UintVar(&cmd.limit, "limit", storage.NoLimit,
		"limit the number of listed runs, 0 lists all")

	return &cmd
}

func (c *lsRunsCmd) run(_ *cobra.Command, args []string) {
	var formatter format.Formatter
	var headers []string

	componentName, taskName, found := strings.Cut(args[0], ".")
	if !found {
		log.Fatalf("%q is not a valid task ID, expected format: <COMPONENT-NAME>.<TASK-NAME>", args[0])
	}

	repo := mustFindRepository()
	store := mustNewCompatibleStorage(repo)
	defer store.Close()

	isCSV := c.format.Val == flag.FormatCSV

	if !c.quiet && !isCSV {
		headers = []string{"Run ID", "Task ID", "Result", "Started At", "Duration (s)", "Input Digest"}
	}

	if isCSV {
		formatter = csv.New(headers, stdout)
	} else {
		formatter = table.New(headers, stdout)
	}

	filters := []*storage.Filter{
		{Field: storage.FieldComponentName, Operator: storage.OpEQ, Value: componentName},
		{Field: storage.FieldTaskName, Operator: storage.OpEQ, Value: taskName},
	}

	sorters := []*storage.Sorter{
		{Field: storage.FieldStartTime, Order: storage.OrderDesc},
	}

	err := store.TaskRuns(ctx, filters, sorters, c.limit, func(run *storage.TaskRunWithID) error {
		if c.quiet {
			mustWriteRow(formatter, run.ID)
			return nil
		}

		mustWriteRow(formatter,
			run.ID,
			args[0],
			run.Result,
			run.StartTimestamp.Format("2006-01-02 15:04:05"),
			term.StrDurationSec(run.StartTimestamp, run.StopTimestamp),
			run.TotalInputDigest,
		)

		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			log.Debugf("no runs of task %q recorded\n", args[0])
			exitFunc(exitCodeNotExist)
		}

		log.Fatalln(err)
	}

	err = formatter.Flush()
	exitOnErr(err)
}
