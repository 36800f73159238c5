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

const initComponentLongHelp = `
Create a component config file in the current directory.
If no name is passed, the component name will be the name of the current
directory.`

const initComponentExample = `
init component shop-ui				create a library component config with the name shop-ui
init component --test-suite shop-ui-tests	create a test-suite component config`

type initComponentCmd struct {
	cobra.Command

	testSuite bool
}

func init() {
	initCmd.AddCommand(&newInitComponentCmd().Command)
}

func newInitComponentCmd() *initComponentCmd {
	cmd := initComponentCmd{
		Command: cobra.Command{
			Use:     "component [COMPONENT-NAME]",
			Short:   "create a component config file in the current directory",
			Long:    strings.TrimSpace(initComponentLongHelp),
			Example: strings.TrimSpace(initComponentExample),
			Args:    cobra.MaximumNArgs(1),
		},
	}

	cmd.Run = cmd.run

	cmd.Flags().BoolVar(&cmd.testSuite, "test-suite", false,
		"create a test-suite component config instead of a library config")

	return &cmd
}

func (c *initComponentCmd) run(_ *cobra.Command, args []string) {
	var componentName string

	mustFindRepository()

	cwd, err := os.Getwd()
	exitOnErr(err)

	if len(args) > 0 {
		componentName = args[0]
	} else {
		componentName = filepath.Base(cwd)
	}

	var componentCfg *cfg.Component
	if c.testSuite {
		componentCfg = cfg.ExampleTestSuite(componentName, "mycomponent", "mybinary")
	} else {
		componentCfg = cfg.ExampleComponent(componentName)
	}

	err = componentCfg.ToFile(filepath.Join(cwd, werk.ComponentCfgFile))
	if err != nil {
		if os.IsExist(err) {
			log.Errorf("%s already exists\n", werk.ComponentCfgFile)
			exitFunc(exitCodeAlreadyExist)
		}

		log.Fatalln(err)
	}

	stdout.Printf("component configuration file was written to %s\n",
		term.Highlight(werk.ComponentCfgFile))
}
