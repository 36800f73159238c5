package resolver

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvVarResolve(t *testing.T) {
	const envVar = "_werkTestEnvVar"
	const envVarVal = "hello123"

	testStr := fmt.Sprintf("test {{ env %s }} {{ env %s }}bye", envVar, envVar)
	expectedResult := fmt.Sprintf("test %s %sbye", envVarVal, envVarVal)

	resolver := &EnvVar{}

	t.Setenv(envVar, envVarVal)

	res, err := resolver.Resolve(testStr)
	require.NoError(t, err)
	require.Equal(t, expectedResult, res)
}

func TestEnvVarResolveUndefinedVarFails(t *testing.T) {
	resolver := &EnvVar{}

	_, err := resolver.Resolve("{{ env _werkTestUndefinedEnvVar }}")
	require.Error(t, err)
}
