package command

import (
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "list components, tasks and recorded runs",
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
