package cfg

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

const (
	minSearchDepth = 0
	maxSearchDepth = 10
	// Version identifies the format of the configuration files that the
	// package can parse. Whenever an incompatible change is made, the
	// Version number is increased.
	Version int = 1
)

// Repository contains the repository configuration.
type Repository struct {
	ConfigVersion int `toml:"config_version" comment:"Internal field, version of the werk configuration format"`

	Database Database
	Discover Discover
	Executor Executor
	Publish  Publish

	filePath string
}

// Database contains the database configuration.
type Database struct {
	PGSQLURL string `toml:"postgresql_url" comment:"PostgreSQL connection string (https://www.postgresql.org/docs/current/static/libpq-connect.html#LIBPQ-CONNSTRING)\n The setting is overwritten by the environment variable WERK_POSTGRESQL_URL."`
}

// Discover stores the [Discover] section of the repository configuration.
type Discover struct {
	Dirs        []string `toml:"component_dirs" comment:"Directories in which components (.component.toml files) are discovered"`
	SearchDepth int      `toml:"search_depth" comment:"Descend at most search_depth levels to find component configs"`
}

// Executor stores the defaults for task execution.
type Executor struct {
	Workers  int  `toml:"workers" comment:"Number of tasks that are executed in parallel"`
	FailFast bool `toml:"fail_fast" comment:"Stop scheduling new tasks after the first task failed"`
}

// Publish stores the [Publish] section of the repository configuration.
type Publish struct {
	S3Bucket string `toml:"s3_bucket" comment:"S3 bucket to that binary artifacts are uploaded by 'werk publish'"`
	S3Prefix string `toml:"s3_prefix" comment:"Key prefix for uploaded artifacts, may reference {{ .name }}"`
}

// RepositoryFromFile reads the repository config from a file and returns it.
func RepositoryFromFile(cfgPath string) (*Repository, error) {
	config := Repository{}

	content, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, err
	}

	err = toml.Unmarshal(content, &config)
	if err != nil {
		return nil, err
	}

	config.filePath = cfgPath

	return &config, nil
}

// ExampleRepository returns an exemplary Repository config.
func ExampleRepository() *Repository {
	return &Repository{
		ConfigVersion: Version,

		Discover: Discover{
			Dirs:        []string{"."},
			SearchDepth: 1,
		},

		Executor: Executor{
			Workers:  4,
			FailFast: false,
		},

		Database: Database{
			PGSQLURL: "postgres://postgres@localhost:5432/werk?sslmode=disable&connect_timeout=5",
		},

		Publish: Publish{
			S3Bucket: "build-artifacts",
			S3Prefix: "{{ .name }}/",
		},
	}
}

// ToFile writes a Repository configuration file to filepath.
func (r *Repository) ToFile(filepath string, opts ...toFileOpt) error {
	return toFile(r, filepath, opts...)
}

// FilePath returns the path of the parsed configuration file.
func (r *Repository) FilePath() string {
	return r.filePath
}

// Validate validates a repository configuration.
func (r *Repository) Validate() error {
	if r.ConfigVersion == 0 {
		return newFieldError("can not be unset or 0", "config_version")
	}
	if r.ConfigVersion != Version {
		return fmt.Errorf("incompatible configuration files\n"+
			"config_version value is %d, expecting version: %d\n"+
			"Update your werk configuration files or downgrade werk.", r.ConfigVersion, Version)
	}

	if err := r.Discover.validate(); err != nil {
		return fieldErrorWrap(err, "Discover")
	}

	if err := r.Executor.validate(); err != nil {
		return fieldErrorWrap(err, "Executor")
	}

	return nil
}

// validate validates the Discover section.
func (d *Discover) validate() error {
	if len(d.Dirs) == 0 {
		return newFieldError("can not be empty", "component_dirs")
	}

	if d.SearchDepth < minSearchDepth || d.SearchDepth > maxSearchDepth {
		return newFieldError(fmt.Sprintf("search_depth parameter must be in range (%d, %d]",
			minSearchDepth, maxSearchDepth),
			"search_depth",
		)
	}

	return nil
}

func (e *Executor) validate() error {
	if e.Workers < 0 {
		return newFieldError("can not be negative", "workers")
	}

	return nil
}
