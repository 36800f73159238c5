package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/werktool/werk/internal/testutils/dbtest"
	"github.com/werktool/werk/pkg/storage"
)

var ctx = context.Background()

// newTestClient creates a new database with an unique name and returns an
// initialized client connected to it.
// The tests are skipped when the dbtest.EnvVarPSQLURL environment variable is
// not set.
func newTestClient(t *testing.T) *Client {
	t.Helper()

	url, err := dbtest.CreateDB(t, dbtest.UniqueDBName())
	require.NoError(t, err)

	clt, err := New(ctx, url, nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = clt.Close() })

	require.NoError(t, clt.Init(ctx))

	return clt
}

func newTaskRun(componentName, taskName, digest string, result storage.Result) *storage.TaskRunFull {
	return &storage.TaskRunFull{
		TaskRun: storage.TaskRun{
			ComponentName:    componentName,
			TaskName:         taskName,
			StartTimestamp:   time.Now().Add(-time.Minute),
			StopTimestamp:    time.Now(),
			TotalInputDigest: digest,
			Result:           result,
		},
		Inputs: storage.Inputs{
			Files: []*storage.InputFile{
				{Path: "src/Main.java", Digest: "sha384:aa"},
				{Path: ".component.toml", Digest: "sha384:bb"},
			},
			Strings: []*storage.InputString{
				{String: "org.example:json:1.2.0", Digest: "sha384:cc"},
			},
		},
		Outputs: []*storage.Output{
			{
				Name:      "dist",
				Digest:    "sha384:dd",
				SizeBytes: 4096,
			},
		},
	}
}

func TestInitIsNotRepeatable(t *testing.T) {
	clt := newTestClient(t)

	err := clt.Init(ctx)
	require.ErrorIs(t, err, storage.ErrExists)
}

func TestSchemaCompatibility(t *testing.T) {
	clt := newTestClient(t)

	ver, err := clt.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, clt.RequiredSchemaVersion(), ver)

	require.NoError(t, clt.IsCompatible(ctx))
}

func TestIsCompatibleFailsOnEmptyDatabase(t *testing.T) {
	url, err := dbtest.CreateDB(t, dbtest.UniqueDBName())
	require.NoError(t, err)

	clt, err := New(ctx, url, nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = clt.Close() })

	err = clt.IsCompatible(ctx)
	require.ErrorIs(t, err, storage.ErrNotExist)
}

func TestSaveTaskRunAndRetrieve(t *testing.T) {
	clt := newTestClient(t)

	run := newTaskRun("shop", "compile", "sha384:0011", storage.ResultSuccess)
	id, err := clt.SaveTaskRun(ctx, run)
	require.NoError(t, err)
	assert.Greater(t, id, 0)

	stored, err := clt.TaskRun(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id, stored.ID)
	assert.Equal(t, run.ComponentName, stored.ComponentName)
	assert.Equal(t, run.TaskName, stored.TaskName)
	assert.Equal(t, run.TotalInputDigest, stored.TotalInputDigest)
	assert.Equal(t, run.Result, stored.Result)
	assert.WithinDuration(t, run.StartTimestamp, stored.StartTimestamp, time.Second)
	assert.WithinDuration(t, run.StopTimestamp, stored.StopTimestamp, time.Second)
}

func TestTaskRunNotExist(t *testing.T) {
	clt := newTestClient(t)

	_, err := clt.TaskRun(ctx, 42)
	require.ErrorIs(t, err, storage.ErrNotExist)
}

func TestInputsAreRecorded(t *testing.T) {
	clt := newTestClient(t)

	run := newTaskRun("shop", "compile", "sha384:0011", storage.ResultSuccess)
	id, err := clt.SaveTaskRun(ctx, run)
	require.NoError(t, err)

	inputs, err := clt.Inputs(ctx, id)
	require.NoError(t, err)

	require.Len(t, inputs.Files, len(run.Inputs.Files))
	require.Len(t, inputs.Strings, len(run.Inputs.Strings))

	paths := []string{inputs.Files[0].Path, inputs.Files[1].Path}
	assert.ElementsMatch(t, []string{"src/Main.java", ".component.toml"}, paths)
	assert.Equal(t, "org.example:json:1.2.0", inputs.Strings[0].String)
}

func TestLatestTaskRunByDigest(t *testing.T) {
	clt := newTestClient(t)

	const digest = "sha384:2233"

	first, err := clt.SaveTaskRun(ctx, newTaskRun("shop", "compile", digest, storage.ResultSuccess))
	require.NoError(t, err)

	second, err := clt.SaveTaskRun(ctx, newTaskRun("shop", "compile", digest, storage.ResultSuccess))
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	latest, err := clt.LatestTaskRunByDigest(ctx, "shop", "compile", digest)
	require.NoError(t, err)
	assert.Equal(t, second, latest.ID)
}

func TestLatestTaskRunByDigestIgnoresFailures(t *testing.T) {
	clt := newTestClient(t)

	const digest = "sha384:4455"

	succeeded, err := clt.SaveTaskRun(ctx, newTaskRun("shop", "compile", digest, storage.ResultSuccess))
	require.NoError(t, err)

	_, err = clt.SaveTaskRun(ctx, newTaskRun("shop", "compile", digest, storage.ResultFailure))
	require.NoError(t, err)

	latest, err := clt.LatestTaskRunByDigest(ctx, "shop", "compile", digest)
	require.NoError(t, err)
	assert.Equal(t, succeeded, latest.ID)
}

func TestLatestTaskRunByDigestNotExist(t *testing.T) {
	clt := newTestClient(t)

	_, err := clt.LatestTaskRunByDigest(ctx, "shop", "compile", "sha384:unrecorded")
	require.ErrorIs(t, err, storage.ErrNotExist)
}

func TestTaskRunsFilterAndSort(t *testing.T) {
	clt := newTestClient(t)

	_, err := clt.SaveTaskRun(ctx, newTaskRun("billing", "compile", "sha384:01", storage.ResultSuccess))
	require.NoError(t, err)

	shopFirst, err := clt.SaveTaskRun(ctx, newTaskRun("shop", "compile", "sha384:02", storage.ResultSuccess))
	require.NoError(t, err)

	shopSecond, err := clt.SaveTaskRun(ctx, newTaskRun("shop", "compile", "sha384:03", storage.ResultFailure))
	require.NoError(t, err)

	var ids []int
	err = clt.TaskRuns(ctx,
		[]*storage.Filter{
			{Field: storage.FieldComponentName, Operator: storage.OpEQ, Value: "shop"},
		},
		[]*storage.Sorter{
			{Field: storage.FieldID, Order: storage.OrderDesc},
		},
		storage.NoLimit,
		func(run *storage.TaskRunWithID) error {
			ids = append(ids, run.ID)
			return nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, []int{shopSecond, shopFirst}, ids)
}

func TestTaskRunsLimit(t *testing.T) {
	clt := newTestClient(t)

	for i := 0; i < 3; i++ {
		_, err := clt.SaveTaskRun(ctx, newTaskRun("shop", "compile", "sha384:0a", storage.ResultSuccess))
		require.NoError(t, err)
	}

	var cnt int
	err := clt.TaskRuns(ctx, nil, nil, 2, func(*storage.TaskRunWithID) error {
		cnt++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, cnt)
}

func TestTaskRunsNoMatches(t *testing.T) {
	clt := newTestClient(t)

	err := clt.TaskRuns(ctx,
		[]*storage.Filter{
			{Field: storage.FieldComponentName, Operator: storage.OpEQ, Value: "nothing"},
		},
		nil,
		storage.NoLimit,
		func(*storage.TaskRunWithID) error { return nil },
	)
	require.ErrorIs(t, err, storage.ErrNotExist)
}

func TestAddUpload(t *testing.T) {
	clt := newTestClient(t)

	run := newTaskRun("shop", "package-dist", "sha384:0b", storage.ResultSuccess)
	id, err := clt.SaveTaskRun(ctx, run)
	require.NoError(t, err)

	err = clt.AddUpload(ctx, id, "dist", &storage.Upload{
		URI:                  "s3://werk-artifacts/shop/dist.jar",
		UploadStartTimestamp: time.Now().Add(-time.Second),
		UploadStopTimestamp:  time.Now(),
		Method:               storage.UploadMethodS3,
	})
	require.NoError(t, err)
}
