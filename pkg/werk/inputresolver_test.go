package werk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/werktool/werk/internal/log"
	"github.com/werktool/werk/internal/testutils/repotest"
	"github.com/werktool/werk/pkg/werk"
)

func TestResolveInputsContainsSourcesAndCfg(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "shop", "org.example:json:1.2.0")
	r.WriteSourceFile(t, "shop", "Util.java", "util")

	graph := buildGraph(t, r)

	task, err := graph.Task("shop.compile")
	require.NoError(t, err)

	resolver := werk.NewInputResolver(r.Dir)

	inputs, err := resolver.Resolve(task)
	require.NoError(t, err)

	var strs []string
	for _, input := range inputs.Inputs() {
		strs = append(strs, input.String())
	}

	assert.Contains(t, strs, "shop/.component.toml")
	assert.Contains(t, strs, "shop/src/Main.java")
	assert.Contains(t, strs, "shop/src/Util.java")
	assert.Contains(t, strs, "string:org.example:json:1.2.0")
}

func TestResolveInputsDigestIsStable(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "shop")

	graph := buildGraph(t, r)

	task, err := graph.Task("shop.compile")
	require.NoError(t, err)

	first, err := werk.NewInputResolver(r.Dir).Resolve(task)
	require.NoError(t, err)

	second, err := werk.NewInputResolver(r.Dir).Resolve(task)
	require.NoError(t, err)

	d1, err := first.Digest()
	require.NoError(t, err)

	d2, err := second.Digest()
	require.NoError(t, err)

	assert.Equal(t, d1.String(), d2.String())
}

func TestResolveInputsDigestChangesWithContent(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "shop")

	graph := buildGraph(t, r)

	task, err := graph.Task("shop.compile")
	require.NoError(t, err)

	before, err := werk.NewInputResolver(r.Dir).Resolve(task)
	require.NoError(t, err)

	beforeDigest, err := before.Digest()
	require.NoError(t, err)

	r.WriteSourceFile(t, "shop", "Main.java", "changed")

	after, err := werk.NewInputResolver(r.Dir).Resolve(task)
	require.NoError(t, err)

	afterDigest, err := after.Digest()
	require.NoError(t, err)

	assert.NotEqual(t, beforeDigest.String(), afterDigest.String())
}

func TestResolveInputsFailsOnPatternWithoutMatches(t *testing.T) {
	log.RedirectToTestingLog(t)

	r := repotest.CreateWerkRepository(t)
	r.CreateComponent(t, "shop")

	graph := buildGraph(t, r)

	task, err := graph.Task("shop.compile")
	require.NoError(t, err)

	task.SourceSets[0].FilePatterns = []string{"*.does-not-exist"}

	_, err = werk.NewInputResolver(r.Dir).Resolve(task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matched 0 files")
}

func TestInputStringDigest(t *testing.T) {
	in := werk.NewInputString("org.example:json:1.2.0")

	d1, err := in.Digest()
	require.NoError(t, err)

	d2, err := werk.NewInputString("org.example:json:1.2.0").Digest()
	require.NoError(t, err)

	assert.Equal(t, d1.String(), d2.String())

	other, err := werk.NewInputString("org.example:json:1.3.0").Digest()
	require.NoError(t, err)
	assert.NotEqual(t, d1.String(), other.String())
}
