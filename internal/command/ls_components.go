package command

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/werktool/werk/internal/format"
	"github.com/werktool/werk/internal/format/csv"
	"github.com/werktool/werk/internal/format/table"
)

type lsComponentsCmd struct {
	cobra.Command

	csv   bool
	quiet bool
}

func init() {
	lsCmd.AddCommand(&newLsComponentsCmd().Command)
}

func newLsComponentsCmd() *lsComponentsCmd {
	cmd := lsComponentsCmd{
		Command: cobra.Command{
			Use:   "components",
			Short: "list the components of the repository",
			Args:  cobra.NoArgs,
		},
	}

	cmd.Run = cmd.run

	cmd.Flags().BoolVar(&cmd.csv, "csv", false,
		"list components in RFC4180 CSV format")

	cmd.Flags().BoolVarP(&cmd.quiet, "quiet", "q", false,
		"only print component names")

	return &cmd
}

func (c *lsComponentsCmd) run(_ *cobra.Command, _ []string) {
	var formatter format.Formatter
	var headers []string

	repo := mustFindRepository()
	registry := mustLoadRegistry(repo)

	if !c.quiet && !c.csv {
		headers = []string{"Name", "Type", "Path", "Dependencies"}
	}

	if c.csv {
		formatter = csv.New(headers, stdout)
	} else {
		formatter = table.New(headers, stdout)
	}

	for _, component := range registry.Components() {
		if c.quiet {
			mustWriteRow(formatter, component.Name)
			continue
		}

		mustWriteRow(formatter,
			component.Name,
			component.Type,
			component.RelPath,
			strings.Join(component.Dependencies, ", "),
		)
	}

	err := formatter.Flush()
	exitOnErr(err)
}
