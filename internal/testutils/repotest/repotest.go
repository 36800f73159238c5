// Package repotest creates werk repositories for tests.
package repotest

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/werktool/werk/internal/testutils/dbtest"
	"github.com/werktool/werk/internal/testutils/fstest"
	"github.com/werktool/werk/pkg/cfg"
	"github.com/werktool/werk/pkg/werk"
)

// Repo is a werk repository in a temporary directory.
type Repo struct {
	ComponentCfgs []*cfg.Component
	Dir           string
	CfgPath       string
}

// TaskIDs returns the task IDs (<COMPONENT-NAME>.<TASK-NAME>) of all tasks
// that are derived from the component configs of the repository.
func (r *Repo) TaskIDs() []string {
	var result []string

	for _, componentCfg := range r.ComponentCfgs {
		result = append(result, fmt.Sprintf("%s.compile", componentCfg.Name))

		for _, binary := range componentCfg.Binaries {
			result = append(result, fmt.Sprintf("%s.package-%s", componentCfg.Name, binary.Name))
		}

		if componentCfg.TestSuite != nil {
			result = append(result, fmt.Sprintf("%s.test", componentCfg.Name))
		}
	}

	return result
}

type repoOptions struct {
	createNewDB bool
	workers     int
}

// Opt configures the repository that CreateWerkRepository creates.
type Opt func(*repoOptions)

// WithNewDB creates a new database with a unique name and configures it in
// the repository config.
func WithNewDB() Opt {
	return func(o *repoOptions) {
		o.createNewDB = true
	}
}

// WithWorkers sets the worker count in the repository config.
func WithWorkers(count int) Opt {
	return func(o *repoOptions) {
		o.workers = count
	}
}

// CreateWerkRepository creates a werk repository in a temporary directory.
// The function changes the current working directory to the repository
// directory.
func CreateWerkRepository(t *testing.T, opts ...Opt) *Repo {
	t.Helper()

	var options repoOptions
	var dbURL string

	for _, opt := range opts {
		opt(&options)
	}

	if options.createNewDB {
		var err error

		dbName := dbtest.UniqueDBName()

		t.Logf("creating database %s", dbName)
		if dbURL, err = dbtest.CreateDB(t, dbName); err != nil {
			t.Fatalf("creating db failed: %s", err)
		}
	}

	tempDir := t.TempDir()

	// on macOS TempDir returns a symlinked path
	tempDir, err := filepath.EvalSymlinks(tempDir)
	if err != nil {
		t.Fatal(err)
	}

	workers := options.workers
	if workers == 0 {
		workers = 1
	}

	repoCfg := cfg.Repository{
		ConfigVersion: cfg.Version,
		Database: cfg.Database{
			PGSQLURL: dbURL,
		},
		Discover: cfg.Discover{
			Dirs:        []string{"."},
			SearchDepth: 5,
		},
		Executor: cfg.Executor{
			Workers: workers,
		},
		Publish: cfg.Publish{
			S3Bucket: "werk-test-artifacts",
			S3Prefix: "{{ .name }}",
		},
	}

	cfgPath := filepath.Join(tempDir, werk.RepositoryCfgFile)

	if err := repoCfg.ToFile(cfgPath); err != nil {
		t.Fatalf("writing repository cfg file failed: %s", err)
	}

	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err := os.Chdir(oldCwd); err != nil {
			t.Fatal(err)
		}
	})

	if err := os.Chdir(tempDir); err != nil {
		t.Fatal(err)
	}

	return &Repo{
		Dir:     tempDir,
		CfgPath: cfgPath,
	}
}

func shellCommand(script string) []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/C", script}
	}

	return []string{"sh", "-c", script}
}

// CreateComponent creates a library component with one source set, a compile
// command and one binary. The dependencies reference other components or
// external module coordinates.
func (r *Repo) CreateComponent(t *testing.T, name string, dependencies ...string) *cfg.Component {
	t.Helper()

	component := cfg.Component{
		Name:         name,
		Type:         cfg.TypeLibrary,
		Dependencies: dependencies,
		SourceSets: []*cfg.SourceSet{
			{
				Name:      "main",
				Directory: "src",
				Language:  "java",
				Files:     []string{"**"},
			},
		},
		Compile: cfg.Compile{
			Command: shellCommand("echo compiling " + name),
		},
		Binaries: []*cfg.Binary{
			{
				Name:    "dist",
				Path:    fmt.Sprintf("dist/%s.jar", name),
				Command: shellCommand(fmt.Sprintf("mkdir -p dist && echo %s > dist/%s.jar", name, name)),
			},
		},
	}

	r.writeComponent(t, &component)

	fstest.WriteToFile(t, []byte(name+"-src"),
		filepath.Join(r.Dir, name, "src", "Main.java"))

	return &component
}

// CreateComponentWithoutBinaries creates a library component that only has a
// compile task.
func (r *Repo) CreateComponentWithoutBinaries(t *testing.T, name string, dependencies ...string) *cfg.Component {
	t.Helper()

	component := cfg.Component{
		Name:         name,
		Type:         cfg.TypeLibrary,
		Dependencies: dependencies,
		SourceSets: []*cfg.SourceSet{
			{
				Name:      "main",
				Directory: "src",
				Language:  "java",
				Files:     []string{"**"},
			},
		},
		Compile: cfg.Compile{
			Command: shellCommand("echo compiling " + name),
		},
	}

	r.writeComponent(t, &component)

	fstest.WriteToFile(t, []byte(name+"-src"),
		filepath.Join(r.Dir, name, "src", "Main.java"))

	return &component
}

// CreateTestSuite creates a test-suite component testing the binary of
// another component.
func (r *Repo) CreateTestSuite(t *testing.T, name, componentUnderTest, binaryUnderTest string) *cfg.Component {
	t.Helper()

	component := cfg.Component{
		Name: name,
		Type: cfg.TypeTestSuite,
		SourceSets: []*cfg.SourceSet{
			{
				Name:      "test",
				Directory: "src",
				Language:  "java",
				Files:     []string{"**"},
			},
		},
		Compile: cfg.Compile{
			Command: shellCommand("echo compiling " + name),
		},
		TestSuite: &cfg.TestSuite{
			Component: componentUnderTest,
			Binary:    binaryUnderTest,
			Command:   shellCommand("echo testing " + componentUnderTest),
		},
	}

	r.writeComponent(t, &component)

	fstest.WriteToFile(t, []byte(name+"-src"),
		filepath.Join(r.Dir, name, "src", "MainTest.java"))

	return &component
}

// CreateFailingComponent creates a library component whose compile command
// exits with a non-zero exit code.
func (r *Repo) CreateFailingComponent(t *testing.T, name string, dependencies ...string) *cfg.Component {
	t.Helper()

	component := cfg.Component{
		Name:         name,
		Type:         cfg.TypeLibrary,
		Dependencies: dependencies,
		SourceSets: []*cfg.SourceSet{
			{
				Name:      "main",
				Directory: "src",
				Language:  "java",
				Files:     []string{"**"},
			},
		},
		Compile: cfg.Compile{
			Command: shellCommand("exit 1"),
		},
	}

	r.writeComponent(t, &component)

	fstest.WriteToFile(t, []byte(name+"-src"),
		filepath.Join(r.Dir, name, "src", "Main.java"))

	return &component
}

// WriteSourceFile writes a source file of a component, e.g. to change the
// inputs of its tasks.
func (r *Repo) WriteSourceFile(t *testing.T, componentName, fileName, contents string) {
	t.Helper()

	fstest.WriteToFile(t, []byte(contents),
		filepath.Join(r.Dir, componentName, "src", fileName))
}

func (r *Repo) writeComponent(t *testing.T, component *cfg.Component) {
	t.Helper()

	componentDir := filepath.Join(r.Dir, component.Name)

	if err := os.MkdirAll(componentDir, 0o775); err != nil {
		t.Fatal(err)
	}

	if err := component.ToFile(filepath.Join(componentDir, werk.ComponentCfgFile)); err != nil {
		t.Fatalf("writing component cfg file failed: %s", err)
	}

	r.ComponentCfgs = append(r.ComponentCfgs, component)
}
