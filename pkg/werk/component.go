package werk

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/werktool/werk/pkg/cfg"
)

// Component represents a named build target declared in a component
// configuration file.
type Component struct {
	// RelPath is the component directory relative to the repository root.
	RelPath string
	Path    string
	Name    string
	Type    string

	// Dependencies contains the raw dependency entries of the component.
	// Entries in GROUP:ARTIFACT:VERSION format are external module
	// coordinates, bare names reference other components.
	Dependencies []string

	repositoryRootPath string

	cfg *cfg.Component
}

// NewComponent creates a Component from its parsed configuration.
func NewComponent(componentCfg *cfg.Component, repositoryRootPath string) (*Component, error) {
	componentDir := filepath.Dir(componentCfg.FilePath())

	relPath, err := filepath.Rel(repositoryRootPath, componentDir)
	if err != nil {
		return nil, fmt.Errorf("%s: resolving repository relative component path failed: %w", componentCfg.Name, err)
	}

	component := Component{
		cfg:                componentCfg,
		Path:               componentDir,
		RelPath:            relPath,
		Name:               componentCfg.Name,
		Type:               componentCfg.Type,
		Dependencies:       componentCfg.Dependencies,
		repositoryRootPath: repositoryRootPath,
	}

	return &component, nil
}

// String returns the name of the component.
func (c *Component) String() string {
	return c.Name
}

// CfgFilepath returns the path of the component configuration file.
func (c *Component) CfgFilepath() string {
	return c.cfg.FilePath()
}

// ExternalDependencies returns the external module coordinates of the
// component.
func (c *Component) ExternalDependencies() []string {
	var result []string

	for _, dep := range c.Dependencies {
		if cfg.IsExternalDependency(dep) {
			result = append(result, dep)
		}
	}

	return result
}

// ComponentDependencies returns the names of the components that this
// component references.
func (c *Component) ComponentDependencies() []string {
	var result []string

	for _, dep := range c.Dependencies {
		if !cfg.IsExternalDependency(dep) {
			result = append(result, dep)
		}
	}

	return result
}

// SourceSets returns the source sets owned by the component.
func (c *Component) SourceSets() []*SourceSet {
	result := make([]*SourceSet, 0, len(c.cfg.SourceSets))

	for _, sourceSetCfg := range c.cfg.SourceSets {
		result = append(result, newSourceSet(sourceSetCfg, c))
	}

	return result
}

// Binaries returns the binaries owned by the component.
func (c *Component) Binaries() []*Binary {
	result := make([]*Binary, 0, len(c.cfg.Binaries))

	for _, binaryCfg := range c.cfg.Binaries {
		result = append(result, newBinary(binaryCfg, c))
	}

	return result
}

// TestSuite returns the test suite of the component or nil if the component
// is not a test-suite component.
func (c *Component) TestSuite() *TestSuite {
	if c.cfg.TestSuite == nil {
		return nil
	}

	return newTestSuite(c.cfg.TestSuite, c)
}

// CompileCommand returns the command compiling the source sets of the
// component. It is empty if the component has no source sets.
func (c *Component) CompileCommand() []string {
	return c.cfg.Compile.Command
}

// SortComponentsByName sorts the components in the slice by Name.
func SortComponentsByName(components []*Component) {
	sort.Slice(components, func(i, j int) bool {
		return components[i].Name < components[j].Name
	})
}
