package werk

import (
	"golang.org/x/exp/maps"
)

// Registry holds the typed, named entities of a repository.
//
// Entities are registered during the configuration phase. Seal() makes the
// registry read-only, afterwards registrations fail with ErrRegistrySealed.
// A sealed registry is safe for concurrent readers.
type Registry struct {
	sealed bool

	components map[string]*Component
	sourceSets map[string]*SourceSet
	binaries   map[string]*Binary
	testSuites map[string]*TestSuite
}

// NewRegistry returns an empty unsealed Registry.
func NewRegistry() *Registry {
	return &Registry{
		components: map[string]*Component{},
		sourceSets: map[string]*SourceSet{},
		binaries:   map[string]*Binary{},
		testSuites: map[string]*TestSuite{},
	}
}

// Seal makes the registry read-only.
func (r *Registry) Seal() {
	r.sealed = true
}

// Sealed returns true if the registry is read-only.
func (r *Registry) Sealed() bool {
	return r.sealed
}

// RegisterComponent registers a component and the source sets, binaries and
// test suite that it owns.
func (r *Registry) RegisterComponent(component *Component) error {
	if r.sealed {
		return ErrRegistrySealed
	}

	if _, exist := r.components[component.Name]; exist {
		return &DuplicateNameError{Kind: "component", Name: component.Name}
	}

	r.components[component.Name] = component

	for _, sourceSet := range component.SourceSets() {
		if err := r.registerSourceSet(sourceSet); err != nil {
			return err
		}
	}

	for _, binary := range component.Binaries() {
		if err := r.registerBinary(binary); err != nil {
			return err
		}
	}

	if testSuite := component.TestSuite(); testSuite != nil {
		if err := r.registerTestSuite(testSuite); err != nil {
			return err
		}
	}

	return nil
}

func (r *Registry) registerSourceSet(sourceSet *SourceSet) error {
	name := sourceSet.QualifiedName()

	if _, exist := r.sourceSets[name]; exist {
		return &DuplicateNameError{Kind: "source set", Name: name}
	}

	r.sourceSets[name] = sourceSet

	return nil
}

func (r *Registry) registerBinary(binary *Binary) error {
	name := binary.QualifiedName()

	if _, exist := r.binaries[name]; exist {
		return &DuplicateNameError{Kind: "binary", Name: name}
	}

	r.binaries[name] = binary

	return nil
}

func (r *Registry) registerTestSuite(testSuite *TestSuite) error {
	if _, exist := r.testSuites[testSuite.Name]; exist {
		return &DuplicateNameError{Kind: "test suite", Name: testSuite.Name}
	}

	r.testSuites[testSuite.Name] = testSuite

	return nil
}

// ResolveComponent returns the component registered under name.
func (r *Registry) ResolveComponent(name string) (*Component, error) {
	component, exist := r.components[name]
	if !exist {
		return nil, &NotFoundError{Kind: "component", Name: name}
	}

	return component, nil
}

// ResolveSourceSet returns the source set registered under the qualified
// name <COMPONENT>.<SOURCE-SET>.
func (r *Registry) ResolveSourceSet(qualifiedName string) (*SourceSet, error) {
	sourceSet, exist := r.sourceSets[qualifiedName]
	if !exist {
		return nil, &NotFoundError{Kind: "source set", Name: qualifiedName}
	}

	return sourceSet, nil
}

// ResolveBinary returns the binary registered under the qualified name
// <COMPONENT>.<BINARY>.
func (r *Registry) ResolveBinary(qualifiedName string) (*Binary, error) {
	binary, exist := r.binaries[qualifiedName]
	if !exist {
		return nil, &NotFoundError{Kind: "binary", Name: qualifiedName}
	}

	return binary, nil
}

// ResolveTestSuite returns the test suite registered under name.
func (r *Registry) ResolveTestSuite(name string) (*TestSuite, error) {
	testSuite, exist := r.testSuites[name]
	if !exist {
		return nil, &NotFoundError{Kind: "test suite", Name: name}
	}

	return testSuite, nil
}

// Components returns all registered components, sorted by name.
func (r *Registry) Components() []*Component {
	result := maps.Values(r.components)
	SortComponentsByName(result)

	return result
}

// TestSuites returns all registered test suites.
func (r *Registry) TestSuites() []*TestSuite {
	return maps.Values(r.testSuites)
}
