package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"

	"github.com/werktool/werk/pkg/storage"
)

// queryValueStr returns the argument for an SQL VALUES statement with
// enumerated parameters.
// It creates pairsCount "($n, $n+1, $n+...)" string pairs, with argsPerPair
// values per pair.
func queryValueStr(pairsCount, argsPerPair int) string {
	var res strings.Builder

	res.Grow((argsPerPair * 4) + (pairsCount * 3))

	argNr := 1
	for i := 0; i < pairsCount; i++ {
		res.WriteRune('(')

		for j := 0; j < argsPerPair; j++ {
			fmt.Fprintf(&res, "$%d", argNr)
			argNr++

			if j < argsPerPair-1 {
				res.WriteString(", ")
			}
		}

		res.WriteRune(')')

		if i < pairsCount-1 {
			res.WriteString(", ")
		}
	}

	return res.String()
}

func scanIDs(rows pgx.Rows, res *[]int) error {
	for rows.Next() {
		var id int

		err := rows.Scan(&id)
		if err != nil {
			rows.Close()
			return err
		}

		*res = append(*res, id)
	}

	return rows.Err()
}

func insertComponentIfNotExist(ctx context.Context, db dbConn, componentName string) (int, error) {
	const query = `
	   INSERT INTO component (name)
	   VALUES ($1)
	       ON CONFLICT ON CONSTRAINT component_name_uniq
	       DO UPDATE SET id=component.id
	RETURNING id
	`

	var id int

	if err := db.QueryRow(ctx, query, componentName).Scan(&id); err != nil {
		return -1, newQueryError(query, err, componentName)
	}

	return id, nil
}

func insertTaskIfNotExist(ctx context.Context, db dbConn, componentName, taskName string) (int, error) {
	var id int

	componentID, err := insertComponentIfNotExist(ctx, db, componentName)
	if err != nil {
		return -1, err
	}

	const query = `
	   INSERT INTO task (name, component_id)
	   VALUES ($1, $2)
	       ON CONFLICT ON CONSTRAINT task_name_component_id_uniq
	       DO UPDATE SET id=task.id
	RETURNING id
	`

	if err := db.QueryRow(ctx, query, taskName, componentID).Scan(&id); err != nil {
		return -1, newQueryError(query, err, componentName, taskName)
	}

	return id, nil
}

func insertInputFilesIfNotExist(ctx context.Context, db dbConn, inputs []*storage.InputFile) ([]int, error) {
	const stmt1 = `
	   INSERT INTO input_file (path, digest)
	   VALUES
	`
	const stmt2 = `
	       ON CONFLICT (MD5(path), digest)
	       DO UPDATE SET id=input_file.id
	RETURNING id
	`

	stmtVals := queryValueStr(len(inputs), 2)

	queryArgs := make([]any, 0, len(inputs)*2)
	for _, in := range inputs {
		queryArgs = append(queryArgs, in.Path, in.Digest)
	}

	query := stmt1 + stmtVals + " " + stmt2

	rows, err := db.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, newQueryError(query, err, queryArgs...)
	}

	ids := make([]int, 0, len(inputs))
	if err := scanIDs(rows, &ids); err != nil {
		return nil, newQueryError(query, err, queryArgs...)
	}

	return ids, nil
}

func insertInputStringsIfNotExist(ctx context.Context, db dbConn, inputs []*storage.InputString) ([]int, error) {
	const stmt1 = `
	   INSERT INTO input_string (string, digest)
	   VALUES
	`
	const stmt2 = `
	       ON CONFLICT (MD5(string), digest)
	       DO UPDATE SET id=input_string.id
	RETURNING id
	`

	stmtVals := queryValueStr(len(inputs), 2)

	queryArgs := make([]any, 0, len(inputs)*2)
	for _, in := range inputs {
		queryArgs = append(queryArgs, in.String, in.Digest)
	}

	query := stmt1 + stmtVals + " " + stmt2

	rows, err := db.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, newQueryError(query, err, queryArgs...)
	}

	ids := make([]int, 0, len(inputs))
	if err := scanIDs(rows, &ids); err != nil {
		return nil, newQueryError(query, err, queryArgs...)
	}

	return ids, nil
}

func insertTaskRunInputRelation(ctx context.Context, db dbConn, table, column string, taskRunID int, inputIDs []int) error {
	stmt1 := fmt.Sprintf("INSERT INTO %s (task_run_id, %s) VALUES", table, column)

	var stmtVals strings.Builder
	argNr := 2
	for i := range inputIDs {
		fmt.Fprintf(&stmtVals, " ($1, $%d)", argNr)
		argNr++

		if i < len(inputIDs)-1 {
			stmtVals.WriteRune(',')
		}
	}

	queryArgs := make([]any, 1, len(inputIDs)+1)
	queryArgs[0] = taskRunID

	for _, inputID := range inputIDs {
		queryArgs = append(queryArgs, inputID)
	}

	query := stmt1 + stmtVals.String()

	_, err := db.Exec(ctx, query, queryArgs...)
	if err != nil {
		return newQueryError(query, err, queryArgs...)
	}

	return nil
}

func insertTaskRunInputsIfNotExist(ctx context.Context, db dbConn, taskRunID int, inputs *storage.Inputs) error {
	if len(inputs.Files) > 0 {
		ids, err := insertInputFilesIfNotExist(ctx, db, inputs.Files)
		if err != nil {
			return err
		}

		err = insertTaskRunInputRelation(ctx, db, "task_run_file_input", "input_file_id", taskRunID, ids)
		if err != nil {
			return err
		}
	}

	if len(inputs.Strings) > 0 {
		ids, err := insertInputStringsIfNotExist(ctx, db, inputs.Strings)
		if err != nil {
			return err
		}

		err = insertTaskRunInputRelation(ctx, db, "task_run_string_input", "input_string_id", taskRunID, ids)
		if err != nil {
			return err
		}
	}

	return nil
}

func insertOutputIfNotExist(ctx context.Context, db dbConn, output *storage.Output) (int, error) {
	const query = `
	   INSERT INTO output (name, digest, size_bytes)
	   VALUES($1, $2, $3)
	       ON CONFLICT ON CONSTRAINT output_name_digest_size_bytes_uniq
	       DO UPDATE SET id=output.id
	RETURNING id
	`

	var id int

	queryArgs := []any{output.Name, output.Digest, output.SizeBytes}

	err := db.QueryRow(ctx, query, queryArgs...).Scan(&id)
	if err != nil {
		return -1, newQueryError(query, err, queryArgs...)
	}

	return id, nil
}

func insertUpload(ctx context.Context, db dbConn, taskRunID, outputID int, upload *storage.Upload) error {
	const query = `
	INSERT INTO upload (task_run_id, output_id, uri, method, start_timestamp, stop_timestamp)
	VALUES($1, $2, $3, $4, $5, $6)
	`

	queryArgs := []any{
		taskRunID,
		outputID,
		upload.URI,
		upload.Method,
		upload.UploadStartTimestamp,
		upload.UploadStopTimestamp,
	}

	_, err := db.Exec(ctx, query, queryArgs...)
	if err != nil {
		return newQueryError(query, err, queryArgs...)
	}

	return nil
}

func insertTaskOutputsIfNotExist(ctx context.Context, db dbConn, taskRunID int, outputs []*storage.Output) error {
	if len(outputs) == 0 {
		return nil
	}

	const stmt1 = "INSERT INTO task_run_output (task_run_id, output_id) VALUES"

	queryArgs := make([]any, 0, len(outputs)*2)

	for _, output := range outputs {
		outputID, err := insertOutputIfNotExist(ctx, db, output)
		if err != nil {
			return err
		}

		for _, upload := range output.Uploads {
			if err := insertUpload(ctx, db, taskRunID, outputID, upload); err != nil {
				return err
			}
		}

		queryArgs = append(queryArgs, taskRunID, outputID)
	}

	stmtVals := queryValueStr(len(outputs), 2)
	query := stmt1 + " " + stmtVals

	_, err := db.Exec(ctx, query, queryArgs...)
	if err != nil {
		return newQueryError(query, err, queryArgs...)
	}

	return nil
}

func (c *Client) saveTaskRun(ctx context.Context, tx pgx.Tx, taskRun *storage.TaskRunFull) (int, error) {
	const query = `
	   INSERT INTO task_run (task_id, start_timestamp, stop_timestamp, total_input_digest, result)
	   VALUES($1, $2, $3, $4, $5)
	RETURNING id
	`

	var taskRunID int

	taskID, err := insertTaskIfNotExist(ctx, tx, taskRun.ComponentName, taskRun.TaskName)
	if err != nil {
		return -1, fmt.Errorf("storing task record failed: %w", err)
	}

	queryArgs := []any{
		taskID,
		taskRun.StartTimestamp,
		taskRun.StopTimestamp,
		taskRun.TotalInputDigest,
		taskRun.Result,
	}

	err = tx.QueryRow(ctx, query, queryArgs...).Scan(&taskRunID)
	if err != nil {
		return -1, newQueryError(query, err, queryArgs...)
	}

	err = insertTaskRunInputsIfNotExist(ctx, tx, taskRunID, &taskRun.Inputs)
	if err != nil {
		return -1, err
	}

	err = insertTaskOutputsIfNotExist(ctx, tx, taskRunID, taskRun.Outputs)
	if err != nil {
		return -1, err
	}

	return taskRunID, nil
}

// SaveTaskRun stores a task run in a single transaction.
func (c *Client) SaveTaskRun(ctx context.Context, taskRun *storage.TaskRunFull) (int, error) {
	tx, err := c.db.Begin(ctx)
	if err != nil {
		return -1, err
	}

	id, err := c.saveTaskRun(ctx, tx, taskRun)
	if err != nil {
		_ = tx.Rollback(ctx)
		return -1, err
	}

	if err := tx.Commit(ctx); err != nil {
		return -1, err
	}

	return id, nil
}

// AddUpload records an upload of an output of an already stored task run.
// If the task run or the output does not exist, ErrNotExist is returned.
func (c *Client) AddUpload(ctx context.Context, taskRunID int, outputName string, upload *storage.Upload) error {
	const query = `
	SELECT output.id
	  FROM output
	  JOIN task_run_output ON task_run_output.output_id = output.id
	 WHERE task_run_output.task_run_id = $1
	   AND output.name = $2
	`

	return c.db.BeginFunc(ctx, func(tx pgx.Tx) error {
		var outputID int

		err := tx.QueryRow(ctx, query, taskRunID, outputName).Scan(&outputID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return storage.ErrNotExist
			}

			return newQueryError(query, err, taskRunID, outputName)
		}

		return insertUpload(ctx, tx, taskRunID, outputID, upload)
	})
}
