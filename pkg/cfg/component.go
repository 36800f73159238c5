package cfg

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml"
)

// Component type tags.
const (
	TypeLibrary   = "library"
	TypeTestSuite = "test-suite"
)

// Component stores a component configuration.
type Component struct {
	Name         string   `toml:"name" comment:"Component name"`
	Type         string   `toml:"type" comment:"Component type, one of: library, test-suite"`
	Dependencies []string `toml:"dependencies" comment:"Dependencies of the component.\n Entries in the format GROUP:ARTIFACT:VERSION are external module coordinates.\n Bare names reference other components in the repository."`

	SourceSets []*SourceSet `toml:"SourceSet"`
	Compile    Compile      `toml:"Compile" comment:"Command compiling the source sets of the component."`
	Binaries   []*Binary    `toml:"Binary"`
	TestSuite  *TestSuite   `toml:"TestSuite" comment:"Only allowed for components of type test-suite."`

	filepath string
}

// Compile stores the [Compile] section of a component configuration.
type Compile struct {
	Command []string `toml:"command" comment:"Command to compile the source sets.\n The first element is the command, the following its arguments."`
}

// ExampleComponent returns an exemplary component config with the name set to
// the given value.
func ExampleComponent(name string) *Component {
	return &Component{
		Name: name,
		Type: TypeLibrary,
		Dependencies: []string{
			"org.example:json:1.2.0",
		},
		SourceSets: []*SourceSet{
			{
				Name:      "main",
				Directory: "src/main",
				Language:  "java",
				Files:     []string{"**"},
			},
		},
		Compile: Compile{
			Command: []string{"make", "compile"},
		},
		Binaries: []*Binary{
			{
				Name:    "dist",
				Path:    fmt.Sprintf("dist/%s.jar", name),
				Command: []string{"make", "dist"},
			},
		},
	}
}

// ExampleTestSuite returns an exemplary test-suite component config.
func ExampleTestSuite(name, componentUnderTest, binaryUnderTest string) *Component {
	return &Component{
		Name: name,
		Type: TypeTestSuite,
		SourceSets: []*SourceSet{
			{
				Name:      "test",
				Directory: "src/test",
				Language:  "java",
				Files:     []string{"**"},
			},
		},
		Compile: Compile{
			Command: []string{"make", "compile-tests"},
		},
		TestSuite: &TestSuite{
			Component: componentUnderTest,
			Binary:    binaryUnderTest,
			Command:   []string{"make", "test"},
		},
	}
}

// ComponentFromFile unmarshals a component configuration from a file and
// returns it.
func ComponentFromFile(path string) (*Component, error) {
	config := Component{}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = toml.Unmarshal(content, &config)
	if err != nil {
		return nil, err
	}

	config.filepath = path

	return &config, nil
}

// ToFile marshals the Component into toml format and writes it to the given
// filepath.
func (c *Component) ToFile(filepath string, opts ...toFileOpt) error {
	c.filepath = filepath
	return toFile(c, filepath, opts...)
}

// FilePath returns the path of the component configuration file.
func (c *Component) FilePath() string {
	return c.filepath
}

// IsExternalDependency returns true if the dependency entry is an external
// module coordinate (GROUP:ARTIFACT:VERSION) instead of a reference to
// another component.
func IsExternalDependency(dep string) bool {
	return strings.Contains(dep, ":")
}

// Resolve runs the resolvers on string fields that can contain special
// strings. These special strings are replaced with concrete values by the
// resolvers.
func (c *Component) Resolve(resolver Resolver) error {
	var err error

	for i, elem := range c.Compile.Command {
		if c.Compile.Command[i], err = resolver.Resolve(elem); err != nil {
			return fieldErrorWrap(err, "Compile", "command")
		}
	}

	for _, sourceSet := range c.SourceSets {
		if err := sourceSet.resolve(resolver); err != nil {
			return fieldErrorWrap(err, "SourceSet", sourceSet.Name)
		}
	}

	for _, bin := range c.Binaries {
		if err := bin.resolve(resolver); err != nil {
			return fieldErrorWrap(err, "Binary", bin.Name)
		}
	}

	if c.TestSuite != nil {
		if err := c.TestSuite.resolve(resolver); err != nil {
			return fieldErrorWrap(err, "TestSuite")
		}
	}

	return nil
}

// Validate validates the configuration.
func (c *Component) Validate() error {
	if err := validateName(c.Name); err != nil {
		return fieldErrorWrap(err, "name")
	}

	switch c.Type {
	case TypeLibrary:
		if c.TestSuite != nil {
			return newFieldError("only allowed for components of type test-suite", "TestSuite")
		}
	case TypeTestSuite:
		if c.TestSuite == nil {
			return newFieldError("section is required for components of type test-suite", "TestSuite")
		}
		if len(c.Binaries) != 0 {
			return newFieldError("test-suite components can not define binaries", "Binary")
		}
	default:
		return newFieldError(
			fmt.Sprintf("invalid value %q, must be %q or %q", c.Type, TypeLibrary, TypeTestSuite),
			"type")
	}

	for _, dep := range c.Dependencies {
		if err := validateDependency(dep); err != nil {
			return fieldErrorWrap(err, "dependencies")
		}
	}

	if err := c.validateSourceSets(); err != nil {
		return err
	}

	if err := c.validateBinaries(); err != nil {
		return err
	}

	if c.TestSuite != nil {
		if err := c.TestSuite.validate(); err != nil {
			return fieldErrorWrap(err, "TestSuite")
		}
	}

	if len(c.SourceSets) > 0 && len(c.Compile.Command) == 0 {
		return newFieldError("can not be empty when source sets are defined", "Compile", "command")
	}

	return nil
}

func (c *Component) validateSourceSets() error {
	seen := make(map[string]struct{}, len(c.SourceSets))

	for _, sourceSet := range c.SourceSets {
		if err := sourceSet.validate(); err != nil {
			return fieldErrorWrap(err, "SourceSet", sourceSet.Name)
		}

		if _, exist := seen[sourceSet.Name]; exist {
			return newFieldError(
				fmt.Sprintf("source set name %q is not unique", sourceSet.Name),
				"SourceSet")
		}
		seen[sourceSet.Name] = struct{}{}
	}

	return nil
}

func (c *Component) validateBinaries() error {
	seen := make(map[string]struct{}, len(c.Binaries))

	for _, bin := range c.Binaries {
		if err := bin.validate(); err != nil {
			return fieldErrorWrap(err, "Binary", bin.Name)
		}

		if _, exist := seen[bin.Name]; exist {
			return newFieldError(
				fmt.Sprintf("binary name %q is not unique", bin.Name),
				"Binary")
		}
		seen[bin.Name] = struct{}{}
	}

	return nil
}

func validateDependency(dep string) error {
	if len(dep) == 0 {
		return newFieldError("dependency can not be empty")
	}

	if !IsExternalDependency(dep) {
		return validateName(dep)
	}

	if parts := strings.Split(dep, ":"); len(parts) != 3 {
		return newFieldError(
			fmt.Sprintf("invalid module coordinate %q, format must be GROUP:ARTIFACT:VERSION", dep))
	}

	return nil
}
