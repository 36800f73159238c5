package command

import (
	"errors"
	"os"

	"github.com/werktool/werk/internal/command/term"
	"github.com/werktool/werk/internal/format"
	"github.com/werktool/werk/internal/log"
	"github.com/werktool/werk/pkg/storage"
	"github.com/werktool/werk/pkg/storage/postgres"
	"github.com/werktool/werk/pkg/werk"
)

// envVarPSQLURL contains the name of an environment variable in that the
// PostgreSQL URL can be stored. It overrides the URL from the repository
// configuration.
const envVarPSQLURL = "WERK_POSTGRESQL_URL"

// Names of subcommands, used in help and error messages.
const (
	cmdInitRepo      = "werk init repo"
	cmdInitComponent = "werk init component"
	cmdInitDb        = "werk init db"
)

func exitOnErr(err error, msg ...any) {
	if err == nil {
		return
	}

	if len(msg) == 0 {
		log.Errorln(err)
		exitFunc(exitCodeError)
	}

	wholeMsg := append(msg, ":", err)
	log.Errorln(wholeMsg...)

	exitFunc(exitCodeError)
}

func findRepository() (*werk.Repository, error) {
	log.Debugln("searching for repository config...")

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	cfgPath, err := werk.FindRepositoryCfg(cwd)
	if err != nil {
		return nil, err
	}

	log.Debugf("repository config found: %s\n", cfgPath)

	return werk.NewRepository(cfgPath)
}

func mustFindRepository() *werk.Repository {
	repo, err := findRepository()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Fatalf("could not find repository config file '%s' in the current or a parent directory.\n"+
				"Run '%s' to create one.",
				werk.RepositoryCfgFile, cmdInitRepo)
		}

		log.Fatalln(err)
	}

	return repo
}

// mustLoadTaskGraph discovers and loads the components of the repository and
// derives the task graph.
func mustLoadTaskGraph(repo *werk.Repository) *werk.TaskGraph {
	loader, err := werk.NewLoader(repo.Cfg, log.StdLogger)
	exitOnErr(err)

	registry, err := loader.LoadRegistry()
	exitOnErr(err)

	graph, err := werk.BuildGraph(registry)
	exitOnErr(err)

	return graph
}

func mustLoadRegistry(repo *werk.Repository) *werk.Registry {
	loader, err := werk.NewLoader(repo.Cfg, log.StdLogger)
	exitOnErr(err)

	registry, err := loader.LoadRegistry()
	exitOnErr(err)

	return registry
}

func postgresURL(repo *werk.Repository) (string, error) {
	if envURL := os.Getenv(envVarPSQLURL); envURL != "" {
		log.Debugf("using postgresql connection URL from $%s environment variable\n",
			envVarPSQLURL)

		return envURL, nil
	}

	log.Debugf("environment variable $%s not set\n", envVarPSQLURL)

	if repo.Cfg.Database.PGSQLURL == "" {
		return "", errors.New("PostgreSQL connection information is missing.\n" +
			"- set postgresql_url in your repository config or\n" +
			"- set the $" + envVarPSQLURL + " environment variable")
	}

	return repo.Cfg.Database.PGSQLURL, nil
}

func mustNewCompatibleStorage(repo *werk.Repository) storage.Storer {
	url, err := postgresURL(repo)
	exitOnErr(err)

	clt, err := postgres.New(ctx, url, log.StdLogger)
	exitOnErr(err, "establishing database connection failed")

	if err := clt.IsCompatible(ctx); err != nil {
		_ = clt.Close()

		if errors.Is(err, storage.ErrNotExist) {
			log.Fatalf("database schema does not exist, run '%s' to create it",
				term.Highlight(cmdInitDb))
		}

		log.Fatalln(err)
	}

	return clt
}

func mustWriteRow(fmt format.Formatter, row ...any) {
	err := fmt.WriteRow(row...)
	exitOnErr(err)
}
