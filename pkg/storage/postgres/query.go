package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/werktool/werk/pkg/storage"
)

// query assembles an SQL-Query described by storage Filters and Sorters.
type query struct {
	BaseQuery string
	Filters   []*storage.Filter
	Sorters   []*storage.Sorter
	Limit     uint
}

func columnName(f storage.Field) (string, error) {
	switch f {
	case storage.FieldID:
		return "task_run_id", nil
	case storage.FieldComponentName:
		return "component_name", nil
	case storage.FieldTaskName:
		return "task_name", nil
	case storage.FieldResult:
		return "result", nil
	case storage.FieldStartTime:
		return "start_timestamp", nil
	case storage.FieldTotalInputDigest:
		return "total_input_digest", nil

	default:
		return "", fmt.Errorf("no postgresql mapping for storage field %s exists", f)
	}
}

func compileOp(a string, op storage.Op, b string) (string, error) {
	switch op {
	case storage.OpEQ:
		return a + " = " + b, nil
	case storage.OpGT:
		return a + " > " + b, nil
	case storage.OpLT:
		return a + " < " + b, nil

	default:
		return "", fmt.Errorf("no postgresql mapping for storage operator %s exists", op)
	}
}

func compileSortOrder(o storage.Order, column string) (string, error) {
	switch o {
	case storage.OrderAsc:
		return column + " ASC", nil
	case storage.OrderDesc:
		return column + " DESC", nil

	default:
		return "", fmt.Errorf("no postgresql mapping for storage order direction %s exists", o)
	}
}

func (q *query) compileFilterStr() (filterStr string, args []any, err error) {
	if len(q.Filters) == 0 {
		return filterStr, args, err
	}

	for i, f := range q.Filters {
		column, err := columnName(f.Field)
		if err != nil {
			return "", nil, err
		}

		opStr, err := compileOp(column, f.Operator, fmt.Sprintf("$%d", i+1))
		if err != nil {
			return "", nil, err
		}

		filterStr += opStr
		args = append(args, f.Value)

		if i+1 < len(q.Filters) {
			filterStr += " AND "
		}
	}

	return "WHERE " + filterStr, args, err
}

func (q *query) compileSorterStr() (string, error) {
	if len(q.Sorters) == 0 {
		return "", nil
	}

	var sorterStr string
	for i, f := range q.Sorters {
		column, err := columnName(f.Field)
		if err != nil {
			return "", err
		}

		orderStr, err := compileSortOrder(f.Order, column)
		if err != nil {
			return "", err
		}

		sorterStr += orderStr

		if i+1 < len(q.Sorters) {
			sorterStr += ", "
		}
	}

	return "ORDER BY " + sorterStr, nil
}

func (q *query) compileLimitStr() string {
	if q.Limit == storage.NoLimit {
		return ""
	}

	return fmt.Sprintf("LIMIT %d", q.Limit)
}

// Compile creates the SQL query string and returns it with the arguments for
// the query.
func (q *query) Compile() (query string, args []any, err error) {
	if len(q.Filters) == 0 && len(q.Sorters) == 0 && q.Limit == storage.NoLimit {
		return q.BaseQuery, nil, nil
	}

	filterStr, args, err := q.compileFilterStr()
	if err != nil {
		return "", nil, err
	}

	orderStr, err := q.compileSorterStr()
	if err != nil {
		return "", nil, err
	}

	limitStr := q.compileLimitStr()

	return fmt.Sprintf("%s %s %s %s", q.BaseQuery, filterStr, orderStr, limitStr), args, nil
}

func (c *Client) TaskRun(ctx context.Context, id int) (*storage.TaskRunWithID, error) {
	var taskRun *storage.TaskRunWithID

	idFilter := []*storage.Filter{
		{
			Field:    storage.FieldID,
			Operator: storage.OpEQ,
			Value:    id,
		},
	}

	err := c.TaskRuns(ctx, idFilter, nil, storage.NoLimit, func(tr *storage.TaskRunWithID) error {
		taskRun = tr

		return nil
	})
	if err != nil {
		return nil, err
	}

	if taskRun == nil {
		panic("TaskRuns returned a nil TaskRunWithID and nil error")
	}

	return taskRun, nil
}

// LatestTaskRunByDigest returns the newest successful recorded run of a task
// that has the given total input digest.
// If none exist, ErrNotExist is returned.
func (c *Client) LatestTaskRunByDigest(ctx context.Context, componentName, taskName, totalInputDigest string) (*storage.TaskRunWithID, error) {
	const query = `
	SELECT task_run.id,
	       component.name,
	       task.name,
	       task_run.start_timestamp,
	       task_run.stop_timestamp,
	       task_run.total_input_digest,
	       task_run.result
	  FROM component
	  JOIN task ON component.id = task.component_id
	  JOIN task_run ON task.id = task_run.task_id
	 WHERE component.name = $1
	   AND task.name = $2
	   AND task_run.total_input_digest = $3
	   AND task_run.result = 'success'
	 ORDER BY task_run.stop_timestamp DESC
	 LIMIT 1
	 `

	var result storage.TaskRunWithID

	row := c.db.QueryRow(ctx, query, componentName, taskName, totalInputDigest)

	err := row.Scan(
		&result.ID,
		&result.ComponentName,
		&result.TaskName,
		&result.StartTimestamp,
		&result.StopTimestamp,
		&result.TotalInputDigest,
		&result.Result,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotExist
		}

		return nil, newQueryError(query, err, componentName, taskName, totalInputDigest)
	}

	return &result, nil
}

func (c *Client) inputFiles(ctx context.Context, taskRunID int) ([]*storage.InputFile, error) {
	const query = `
	SELECT input_file.path,
	       input_file.digest
	  FROM input_file
	  JOIN task_run_file_input ON input_file.id = task_run_file_input.input_file_id
	 WHERE task_run_file_input.task_run_id = $1
	 `

	var result []*storage.InputFile

	rows, err := c.db.Query(ctx, query, taskRunID)
	if err != nil {
		return nil, newQueryError(query, err, taskRunID)
	}

	for rows.Next() {
		var input storage.InputFile

		if err := rows.Scan(&input.Path, &input.Digest); err != nil {
			rows.Close()
			return nil, newQueryError(query, err, taskRunID)
		}

		result = append(result, &input)
	}

	if err := rows.Err(); err != nil {
		return nil, newQueryError(query, err, taskRunID)
	}

	return result, nil
}

func (c *Client) inputStrings(ctx context.Context, taskRunID int) ([]*storage.InputString, error) {
	const query = `
	SELECT input_string.string,
	       input_string.digest
	  FROM input_string
	  JOIN task_run_string_input ON input_string.id = task_run_string_input.input_string_id
	 WHERE task_run_string_input.task_run_id = $1
	 `

	var result []*storage.InputString

	rows, err := c.db.Query(ctx, query, taskRunID)
	if err != nil {
		return nil, newQueryError(query, err, taskRunID)
	}

	for rows.Next() {
		var input storage.InputString

		if err := rows.Scan(&input.String, &input.Digest); err != nil {
			rows.Close()
			return nil, newQueryError(query, err, taskRunID)
		}

		result = append(result, &input)
	}

	if err := rows.Err(); err != nil {
		return nil, newQueryError(query, err, taskRunID)
	}

	return result, nil
}

// Inputs returns the recorded inputs of a task run.
// If the run has no recorded inputs, ErrNotExist is returned.
func (c *Client) Inputs(ctx context.Context, taskRunID int) (*storage.Inputs, error) {
	var result storage.Inputs
	var err error

	result.Files, err = c.inputFiles(ctx, taskRunID)
	if err != nil {
		return nil, err
	}

	result.Strings, err = c.inputStrings(ctx, taskRunID)
	if err != nil {
		return nil, err
	}

	if len(result.Files) == 0 && len(result.Strings) == 0 {
		return nil, storage.ErrNotExist
	}

	return &result, nil
}

// TaskRuns queries the recorded task runs that match the filters and passes
// them in sorted order to cb.
// If no run matches, ErrNotExist is returned.
func (c *Client) TaskRuns(
	ctx context.Context,
	filters []*storage.Filter,
	sorters []*storage.Sorter,
	limit uint,
	cb func(*storage.TaskRunWithID) error,
) error {
	const baseQuery = `
	SELECT task_run_id, component_name, task_name, start_timestamp, stop_timestamp, total_input_digest, result
	  FROM (
	       SELECT task_run.id AS task_run_id,
	              component.name AS component_name,
	              task.name AS task_name,
	              task_run.start_timestamp AS start_timestamp,
	              task_run.stop_timestamp AS stop_timestamp,
	              task_run.total_input_digest,
	              task_run.result
	         FROM component
	         JOIN task ON component.id = task.component_id
	         JOIN task_run ON task.id = task_run.task_id
	       ) tr
	  `

	q := query{
		BaseQuery: baseQuery,
		Filters:   filters,
		Sorters:   sorters,
		Limit:     limit,
	}

	queryStr, args, err := q.Compile()
	if err != nil {
		return fmt.Errorf("compiling query string failed: %w", err)
	}

	rows, err := c.db.Query(ctx, queryStr, args...)
	if err != nil {
		return newQueryError(queryStr, err, args...)
	}

	var queryReturnedRows bool

	for rows.Next() {
		var taskRun storage.TaskRunWithID

		queryReturnedRows = true

		err := rows.Scan(
			&taskRun.ID,
			&taskRun.ComponentName,
			&taskRun.TaskName,
			&taskRun.StartTimestamp,
			&taskRun.StopTimestamp,
			&taskRun.TotalInputDigest,
			&taskRun.Result,
		)
		if err != nil {
			rows.Close()
			return newQueryError(queryStr, err, args...)
		}

		if err := cb(&taskRun); err != nil {
			rows.Close()
			return fmt.Errorf("callback failed: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return newQueryError(queryStr, err, args...)
	}

	if !queryReturnedRows {
		return storage.ErrNotExist
	}

	return nil
}
