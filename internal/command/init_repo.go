package command

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/werktool/werk/internal/command/term"
	"github.com/werktool/werk/internal/log"
	"github.com/werktool/werk/pkg/cfg"
	"github.com/werktool/werk/pkg/werk"
)

const initRepoLongHelp = `
Create a repository configuration file.
This is the first command to run when setting up werk for a repository.
If no argument is passed, the file is created in the current directory.
`

var initRepoCmd = &cobra.Command{
	Use:   "repo [DIR]",
	Short: "create a repository config file",
	Long:  strings.TrimSpace(initRepoLongHelp),
	Run:   initRepo,
	Args:  cobra.MaximumNArgs(1),
}

func init() {
	initCmd.AddCommand(initRepoCmd)
}

func initRepo(_ *cobra.Command, args []string) {
	var repoDir string
	var err error

	if len(args) == 1 {
		repoDir = args[0]
	} else {
		repoDir, err = os.Getwd()
		exitOnErr(err)
	}

	repoCfg := cfg.ExampleRepository()
	repoCfgPath := filepath.Join(repoDir, werk.RepositoryCfgFile)

	err = repoCfg.ToFile(repoCfgPath)
	if err != nil {
		if os.IsExist(err) {
			log.Errorf("%s already exists\n", repoCfgPath)
			exitFunc(exitCodeAlreadyExist)
		}

		log.Fatalln(err)
	}

	stdout.Printf("repository configuration was written to %s\n",
		term.Highlight(repoCfgPath))
	stdout.Printf("\nNext steps:\n"+
		"1. Adapt the '%s' configuration file, ensure the '%s' parameter is correct\n"+
		"2. Run '%s' to create the werk tables in the PostgreSQL database\n"+
		"3. Run '%s' to create component configuration files\n",
		term.Highlight(werk.RepositoryCfgFile),
		term.Highlight("postgresql_url"),
		term.Highlight(cmdInitDb),
		term.Highlight(cmdInitComponent))
}
