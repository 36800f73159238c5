package command

import (
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "create configuration files and the database schema",
}

func init() {
	rootCmd.AddCommand(initCmd)
}
