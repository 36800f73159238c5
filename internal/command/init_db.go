package command

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/werktool/werk/internal/command/term"
	"github.com/werktool/werk/internal/log"
	"github.com/werktool/werk/pkg/storage"
	"github.com/werktool/werk/pkg/storage/postgres"
	"github.com/werktool/werk/pkg/werk"
)

const initDbExample = `
werk init db postgres://postgres@localhost:5432/werk?sslmode=disable
`

var initDbLongHelp = fmt.Sprintf(`
Create the werk tables in a PostgreSQL database.

The PostgreSQL URL is read from the repository configuration file.
Alternatively the URL can be passed as argument or by setting the '%s'
environment variable.`,
	term.Highlight(envVarPSQLURL))

var initDbCmd = &cobra.Command{
	Use:     "db [POSTGRES-URL]",
	Short:   "create the werk tables in a PostgreSQL database",
	Example: strings.TrimSpace(initDbExample),
	Long:    strings.TrimSpace(initDbLongHelp),
	Run:     initDb,
	Args:    cobra.MaximumNArgs(1),
}

func init() {
	initCmd.AddCommand(initDbCmd)
}

func initDb(_ *cobra.Command, args []string) {
	var dbURL string

	if len(args) == 1 {
		dbURL = args[0]
	} else {
		repo, err := findRepository()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				stderr.Printf("could not find a '%s' repository config file.\n"+
					"Run '%s' first or pass the PostgreSQL URL as argument.\n",
					term.Highlight(werk.RepositoryCfgFile), term.Highlight(cmdInitRepo))
				exitFunc(exitCodeError)
			}

			stderr.Println(err)
			exitFunc(exitCodeError)
		}

		dbURL, err = postgresURL(repo)
		exitOnErr(err)
	}

	clt, err := postgres.New(ctx, dbURL, log.StdLogger)
	exitOnErr(err, "establishing database connection failed")
	defer clt.Close()

	err = clt.Init(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrExists) {
			stdout.Println("database schema already exists, nothing to do")
			exitFunc(exitCodeAlreadyExist)
		}

		log.Fatalln(err)
	}

	stdout.Println("database schema created successfully")
}
