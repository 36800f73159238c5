package werk

import (
	"github.com/werktool/werk/pkg/cfg"
)

// TestSuite is a component variant that runs tests against a binary of
// another component. It holds non-owning references, by name, to the
// component and binary under test.
type TestSuite struct {
	// Name is the name of the test-suite component that declares the
	// suite.
	Name          string
	ComponentName string
	BinaryName    string
	Command       []string
}

func newTestSuite(testSuiteCfg *cfg.TestSuite, owner *Component) *TestSuite {
	return &TestSuite{
		Name:          owner.Name,
		ComponentName: testSuiteCfg.Component,
		BinaryName:    testSuiteCfg.Binary,
		Command:       testSuiteCfg.Command,
	}
}

// String returns the name of the test suite.
func (t *TestSuite) String() string {
	return t.Name
}
