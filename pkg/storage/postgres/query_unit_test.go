package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/werktool/werk/pkg/storage"
)

func TestCompileWithoutFiltersReturnsBaseQuery(t *testing.T) {
	q := query{BaseQuery: "SELECT * FROM task_run"}

	sql, args, err := q.Compile()
	require.NoError(t, err)
	assert.Equal(t, q.BaseQuery, sql)
	assert.Empty(t, args)
}

func TestCompileFiltersSortersAndLimit(t *testing.T) {
	q := query{
		BaseQuery: "SELECT * FROM task_run",
		Filters: []*storage.Filter{
			{Field: storage.FieldComponentName, Operator: storage.OpEQ, Value: "shop"},
			{Field: storage.FieldResult, Operator: storage.OpEQ, Value: "success"},
		},
		Sorters: []*storage.Sorter{
			{Field: storage.FieldStartTime, Order: storage.OrderDesc},
		},
		Limit: 5,
	}

	sql, args, err := q.Compile()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT * FROM task_run WHERE component_name = $1 AND result = $2 ORDER BY start_timestamp DESC LIMIT 5",
		sql)
	assert.Equal(t, []any{"shop", "success"}, args)
}

func TestCompileFailsOnUndefinedField(t *testing.T) {
	q := query{
		BaseQuery: "SELECT * FROM task_run",
		Filters: []*storage.Filter{
			{Field: storage.FieldUndefined, Operator: storage.OpEQ, Value: 1},
		},
	}

	_, _, err := q.Compile()
	require.Error(t, err)
}
