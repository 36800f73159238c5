package cfg

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/werktool/werk/pkg/cfg/resolver"
)

func TestExampleComponentIsValid(t *testing.T) {
	c := ExampleComponent("shop")
	if err := c.Validate(); err != nil {
		t.Error("example component conf fails validation: ", err)
	}
}

func TestExampleTestSuiteIsValid(t *testing.T) {
	c := ExampleTestSuite("shop-tests", "shop", "dist")
	if err := c.Validate(); err != nil {
		t.Error("example test-suite conf fails validation: ", err)
	}
}

func TestExampleComponentWrittenAndReadCfgIsValid(t *testing.T) {
	tmpfileName := filepath.Join(t.TempDir(), "component.toml")

	c := ExampleComponent("shop")
	require.NoError(t, c.Validate())

	require.NoError(t, c.ToFile(tmpfileName))

	cRead, err := ComponentFromFile(tmpfileName)
	require.NoError(t, err)
	require.NoError(t, cRead.Validate())

	require.Equal(t, c.Name, cRead.Name)
	require.Equal(t, c.Type, cRead.Type)
	require.Equal(t, c.Dependencies, cRead.Dependencies)
}

func TestComponentValidateFailsOnInvalidName(t *testing.T) {
	testcases := []string{"", "shop.ui", "shop*ui", "shop#1", "shop,ui"}

	for _, name := range testcases {
		t.Run(name, func(t *testing.T) {
			c := ExampleComponent(name)

			if err := c.Validate(); err == nil {
				t.Errorf("validation succeeded with component name %q", name)
			}
		})
	}
}

func TestComponentValidateFailsOnUnknownType(t *testing.T) {
	c := ExampleComponent("shop")
	c.Type = "application"

	if err := c.Validate(); err == nil {
		t.Error("validation succeeded with an unknown component type")
	}
}

func TestLibraryWithTestSuiteSectionIsInvalid(t *testing.T) {
	c := ExampleComponent("shop")
	c.TestSuite = &TestSuite{
		Component: "other",
		Binary:    "dist",
		Command:   []string{"make", "test"},
	}

	if err := c.Validate(); err == nil {
		t.Error("validation succeeded for a library config with a [TestSuite] section")
	}
}

func TestTestSuiteWithoutTestSuiteSectionIsInvalid(t *testing.T) {
	c := ExampleTestSuite("shop-tests", "shop", "dist")
	c.TestSuite = nil

	if err := c.Validate(); err == nil {
		t.Error("validation succeeded for a test-suite config without a [TestSuite] section")
	}
}

func TestIsExternalDependency(t *testing.T) {
	testcases := []struct {
		dep      string
		external bool
	}{
		{"org.example:json:1.2.0", true},
		{"shop", false},
		{"shop-ui", false},
	}

	for _, tc := range testcases {
		t.Run(tc.dep, func(t *testing.T) {
			require.Equal(t, tc.external, IsExternalDependency(tc.dep))
		})
	}
}

func TestResolveReplacesRootAndNameVars(t *testing.T) {
	c := ExampleComponent("shop")
	c.Binaries[0].Path = "{{ .root }}/dist/{{ .name }}.jar"

	resolvers := resolver.List{
		&resolver.StrReplacement{Old: "{{ .root }}", New: "/repo"},
		&resolver.StrReplacement{Old: "{{ .name }}", New: "shop"},
	}

	require.NoError(t, c.Resolve(resolvers))
	require.Equal(t, "/repo/dist/shop.jar", c.Binaries[0].Path)
}
