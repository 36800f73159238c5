package werk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/werktool/werk/internal/log"
	"github.com/werktool/werk/internal/testutils/repotest"
	"github.com/werktool/werk/pkg/werk"
)

func loadRegistry(t *testing.T, r *repotest.Repo) *werk.Registry {
	t.Helper()

	repo, err := werk.NewRepository(r.CfgPath)
	require.NoError(t, err)

	loader, err := werk.NewLoader(repo.Cfg, log.StdLogger)
	require.NoError(t, err)

	registry, err := loader.LoadRegistry()
	require.NoError(t, err)

	return registry
}

func TestLoadRegistryDiscoversAllComponents(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "billing")
	r.CreateComponent(t, "shop", "billing")
	r.CreateTestSuite(t, "shop-tests", "shop", "dist")

	registry := loadRegistry(t, r)

	components := registry.Components()
	require.Len(t, components, 3)

	names := make([]string, 0, len(components))
	for _, component := range components {
		names = append(names, component.Name)
	}

	assert.Equal(t, []string{"billing", "shop", "shop-tests"}, names)
}

func TestLoadRegistryOnEmptyRepository(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)

	registry := loadRegistry(t, r)
	assert.Empty(t, registry.Components())
}

func TestRegisterDuplicateComponentFails(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "billing")

	registry := loadRegistry(t, r)

	component, err := registry.ResolveComponent("billing")
	require.NoError(t, err)

	err = registry.RegisterComponent(component)
	require.Error(t, err)

	var duplicateErr *werk.DuplicateNameError
	require.ErrorAs(t, err, &duplicateErr)
	assert.Equal(t, "billing", duplicateErr.Name)
}

func TestRegisterOnSealedRegistryFails(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "billing")

	registry := loadRegistry(t, r)
	component, err := registry.ResolveComponent("billing")
	require.NoError(t, err)

	registry.Seal()

	err = registry.RegisterComponent(component)
	require.ErrorIs(t, err, werk.ErrRegistrySealed)
}

func TestResolveUnknownNameFails(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "billing")

	registry := loadRegistry(t, r)

	_, err := registry.ResolveComponent("does-not-exist")
	require.Error(t, err)

	var notFoundErr *werk.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(t, "does-not-exist", notFoundErr.Name)

	_, err = registry.ResolveBinary("billing.does-not-exist")
	require.ErrorAs(t, err, &notFoundErr)

	_, err = registry.ResolveSourceSet("billing.does-not-exist")
	require.ErrorAs(t, err, &notFoundErr)
}

func TestResolveRegisteredEntities(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "billing")

	registry := loadRegistry(t, r)

	sourceSet, err := registry.ResolveSourceSet("billing.main")
	require.NoError(t, err)
	assert.Equal(t, "billing", sourceSet.ComponentName)

	binary, err := registry.ResolveBinary("billing.dist")
	require.NoError(t, err)
	assert.Equal(t, "dist", binary.Name)
	assert.Equal(t, "billing.package-dist", binary.TaskID())
}
