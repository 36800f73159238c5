package werk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/werktool/werk/internal/log"
	"github.com/werktool/werk/internal/testutils/repotest"
	"github.com/werktool/werk/pkg/werk"
)

func buildGraph(t *testing.T, r *repotest.Repo) *werk.TaskGraph {
	t.Helper()

	registry := loadRegistry(t, r)

	graph, err := werk.BuildGraph(registry)
	require.NoError(t, err)

	return graph
}

func taskIDs(tasks []*werk.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}

	return ids
}

func TestBuildGraphDerivesTasks(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "billing")
	r.CreateComponent(t, "shop", "billing")
	r.CreateTestSuite(t, "shop-tests", "shop", "dist")

	graph := buildGraph(t, r)

	assert.ElementsMatch(t,
		[]string{
			"billing.compile",
			"billing.package-dist",
			"shop.compile",
			"shop.package-dist",
			"shop-tests.compile",
			"shop-tests.test",
		},
		taskIDs(graph.Tasks()),
	)

	shopCompile, err := graph.Task("shop.compile")
	require.NoError(t, err)
	assert.Equal(t, []string{"billing.package-dist"}, shopCompile.DependsOn)

	packageTask, err := graph.Task("shop.package-dist")
	require.NoError(t, err)
	assert.Equal(t, []string{"shop.compile"}, packageTask.DependsOn)

	testTask, err := graph.Task("shop-tests.test")
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"shop-tests.compile", "shop.package-dist"},
		testTask.DependsOn,
	)
}

func TestBuildGraphBinarylessDependency(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponentWithoutBinaries(t, "commons")
	r.CreateComponent(t, "shop", "commons")

	graph := buildGraph(t, r)

	shopCompile, err := graph.Task("shop.compile")
	require.NoError(t, err)
	assert.Equal(t, []string{"commons.compile"}, shopCompile.DependsOn)
}

func TestBuildGraphExternalDependenciesCreateNoEdges(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "shop", "org.example:json:1.2.0")

	graph := buildGraph(t, r)

	shopCompile, err := graph.Task("shop.compile")
	require.NoError(t, err)
	assert.Empty(t, shopCompile.DependsOn)
	assert.Equal(t, []string{"org.example:json:1.2.0"}, shopCompile.ExternalDependencies)
}

func TestTopologicalOrderRespectsDependencies(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "billing")
	r.CreateComponent(t, "shop", "billing")

	graph := buildGraph(t, r)
	order := graph.TopologicalOrder()

	assert.Equal(t,
		[]string{
			"billing.compile",
			"billing.package-dist",
			"shop.compile",
			"shop.package-dist",
		},
		order,
	)
}

func TestTopologicalOrderTieBreakIsLexicographic(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponentWithoutBinaries(t, "zeta")
	r.CreateComponentWithoutBinaries(t, "alpha")
	r.CreateComponentWithoutBinaries(t, "mid")

	graph := buildGraph(t, r)

	assert.Equal(t,
		[]string{"alpha.compile", "mid.compile", "zeta.compile"},
		graph.TopologicalOrder(),
	)
}

func TestBuildGraphFailsOnCycle(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "a", "b")
	r.CreateComponent(t, "b", "a")

	registry := loadRegistry(t, r)

	_, err := werk.BuildGraph(registry)
	require.Error(t, err)

	var cycleErr *werk.CyclicDependencyError
	require.ErrorAs(t, err, &cycleErr)
	assert.NotEmpty(t, cycleErr.Cycle)
}

func TestBuildGraphFailsOnUnresolvedReference(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "shop", "does-not-exist")

	registry := loadRegistry(t, r)

	_, err := werk.BuildGraph(registry)
	require.Error(t, err)

	var unresolvedErr *werk.UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolvedErr)
	assert.Equal(t, "does-not-exist", unresolvedErr.Reference)
}

func TestBuildGraphFailsOnUnknownBinaryUnderTest(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "shop")
	r.CreateTestSuite(t, "shop-tests", "shop", "does-not-exist")

	registry := loadRegistry(t, r)

	_, err := werk.BuildGraph(registry)
	require.Error(t, err)

	var unresolvedErr *werk.UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolvedErr)
}

func TestSubgraphContainsTargetAndAncestors(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "billing")
	r.CreateComponent(t, "shop", "billing")
	r.CreateTestSuite(t, "shop-tests", "shop", "dist")

	graph := buildGraph(t, r)

	subgraph, err := graph.Subgraph("shop.package-dist")
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{
			"billing.compile",
			"billing.package-dist",
			"shop.compile",
			"shop.package-dist",
		},
		taskIDs(subgraph.Tasks()),
	)
}

func TestSubgraphWithoutTargetsReturnsAllTasks(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "billing")
	r.CreateComponent(t, "shop", "billing")

	graph := buildGraph(t, r)

	subgraph, err := graph.Subgraph()
	require.NoError(t, err)
	assert.ElementsMatch(t, taskIDs(graph.Tasks()), taskIDs(subgraph.Tasks()))
}

func TestDependents(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "billing")
	r.CreateComponent(t, "shop", "billing")

	graph := buildGraph(t, r)

	dependents, err := graph.Dependents("billing.package-dist")
	require.NoError(t, err)
	assert.Equal(t, []string{"shop.compile"}, dependents)
}
