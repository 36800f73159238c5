package werk

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/werktool/werk/internal/fs"
	"github.com/werktool/werk/pkg/cfg"
)

// Logger is an interface for logging debug informations.
type Logger interface {
	Debugf(format string, v ...any)
}

// Loader discovers component configuration files and instantiates the model
// registry from them.
type Loader struct {
	logger               Logger
	repositoryRoot       string
	componentConfigPaths []string
}

// NewLoader instantiates a Loader.
// It discovers the component configuration files in the directories that the
// repository config lists.
func NewLoader(repoCfg *cfg.Repository, logger Logger) (*Loader, error) {
	repositoryRootDir := filepath.Dir(repoCfg.FilePath())

	configPaths, err := findComponentConfigs(
		fs.AbsPaths(repositoryRootDir, repoCfg.Discover.Dirs),
		repoCfg.Discover.SearchDepth,
	)
	if err != nil {
		return nil, fmt.Errorf("discovering component config files failed: %w", err)
	}

	sort.Strings(configPaths)

	logger.Debugf("loader: found the following component configs:\n%s",
		strings.Join(configPaths, "\n"))

	return &Loader{
		logger:               logger,
		repositoryRoot:       repositoryRootDir,
		componentConfigPaths: configPaths,
	}, nil
}

// LoadRegistry loads all discovered component configs and registers the
// declared entities.
// The returned registry is not sealed.
func (l *Loader) LoadRegistry() (*Registry, error) {
	components, err := l.loadComponents()
	if err != nil {
		return nil, err
	}

	registry := NewRegistry()

	for _, component := range components {
		if err := registry.RegisterComponent(component); err != nil {
			var dupErr *DuplicateNameError
			if errors.As(err, &dupErr) {
				other, _ := registry.ResolveComponent(dupErr.Name)
				if other != nil {
					return nil, fmt.Errorf("%s: %w, first registered by %s",
						component.CfgFilepath(), err, other.CfgFilepath())
				}
			}

			return nil, fmt.Errorf("%s: %w", component.CfgFilepath(), err)
		}
	}

	return registry, nil
}

// loadComponents parses the discovered config files concurrently.
// The result slice is ordered by config file path.
func (l *Loader) loadComponents() ([]*Component, error) {
	var g errgroup.Group

	components := make([]*Component, len(l.componentConfigPaths))

	for i, path := range l.componentConfigPaths {
		g.Go(func() error {
			component, err := l.componentPath(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			components[i] = component

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return components, nil
}

func (l *Loader) componentPath(configPath string) (*Component, error) {
	l.logger.Debugf("loader: loading component from %q", configPath)

	configPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, err
	}

	componentCfg, err := cfg.ComponentFromFile(configPath)
	if err != nil {
		return nil, err
	}

	resolvers := defaultComponentCfgResolvers(l.repositoryRoot, componentCfg.Name)

	if err := componentCfg.Resolve(resolvers); err != nil {
		return nil, fmt.Errorf("resolving variables in config failed: %w", err)
	}

	if err := componentCfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return NewComponent(componentCfg, l.repositoryRoot)
}

func findComponentConfigs(searchDirs []string, searchDepth int) ([]string, error) {
	var result []string

	for _, searchDir := range searchDirs {
		if err := fs.DirsExist(searchDir); err != nil {
			return nil, fmt.Errorf("component search directory: %w", err)
		}

		cfgPaths, err := fs.FindFilesInSubDir(searchDir, ComponentCfgFile, searchDepth)
		if err != nil {
			return nil, err
		}

		result = append(result, cfgPaths...)
	}

	return result, nil
}
