package postgres

import (
	"context"
	"fmt"

	"github.com/werktool/werk/pkg/storage"
)

const schemaVer = 1

const initQuery = `
CREATE TABLE migrations (
	schema_version integer NOT NULL
);

INSERT INTO migrations (schema_version) VALUES(1);

CREATE TABLE component (
	id serial PRIMARY KEY,
	name text NOT NULL,
	CONSTRAINT component_name_uniq UNIQUE (name)
);

CREATE TABLE task (
	id serial PRIMARY KEY,
	name text NOT NULL,
	component_id integer NOT NULL REFERENCES component(id) ON DELETE CASCADE,
	CONSTRAINT task_name_component_id_uniq UNIQUE (name, component_id)
);

CREATE TABLE task_run (
	id serial PRIMARY KEY,
	task_id integer NOT NULL REFERENCES task (id) ON DELETE CASCADE,
	start_timestamp timestamp with time zone NOT NULL,
	stop_timestamp timestamp with time zone NOT NULL,
	total_input_digest text NOT NULL,
	result text NOT NULL,
	CONSTRAINT result_check CHECK (result in ('success', 'failure'))
);

CREATE INDEX idx_task_run_total_input_digest ON task_run(total_input_digest);

CREATE TABLE input_file (
	id serial PRIMARY KEY,
	path text NOT NULL,
	digest text NOT NULL
);

CREATE UNIQUE INDEX input_file_path_digest_uniq ON input_file (MD5(path), digest);

CREATE TABLE input_string (
	id serial PRIMARY KEY,
	string text NOT NULL,
	digest text NOT NULL
);

CREATE UNIQUE INDEX input_string_string_digest_uniq ON input_string (MD5(string), digest);

CREATE TABLE task_run_file_input (
	task_run_id integer NOT NULL REFERENCES task_run(id) ON DELETE CASCADE,
	input_file_id integer NOT NULL REFERENCES input_file(id) ON DELETE CASCADE,
	CONSTRAINT task_run_file_input_uniq UNIQUE (task_run_id, input_file_id)
);

CREATE INDEX idx_task_run_file_input_task_run_id ON task_run_file_input(task_run_id);

CREATE TABLE task_run_string_input (
	task_run_id integer NOT NULL REFERENCES task_run(id) ON DELETE CASCADE,
	input_string_id integer NOT NULL REFERENCES input_string(id) ON DELETE CASCADE,
	CONSTRAINT task_run_string_input_uniq UNIQUE (task_run_id, input_string_id)
);

CREATE INDEX idx_task_run_string_input_task_run_id ON task_run_string_input(task_run_id);

CREATE TABLE output (
	id serial PRIMARY KEY,
	name text NOT NULL,
	digest text NOT NULL,
	size_bytes bigint NOT NULL CHECK (size_bytes >= 0),
	CONSTRAINT output_name_digest_size_bytes_uniq UNIQUE (name, digest, size_bytes)
);

CREATE TABLE task_run_output (
	task_run_id integer NOT NULL REFERENCES task_run (id) ON DELETE CASCADE,
	output_id integer NOT NULL REFERENCES output (id) ON DELETE CASCADE,
	CONSTRAINT task_run_output_uniq UNIQUE (task_run_id, output_id)
);

CREATE INDEX idx_task_run_output_task_run_id ON task_run_output(task_run_id);

CREATE TABLE upload (
	id serial PRIMARY KEY,
	task_run_id integer NOT NULL REFERENCES task_run (id) ON DELETE CASCADE,
	output_id integer NOT NULL REFERENCES output (id) ON DELETE CASCADE,
	uri text NOT NULL,
	method text NOT NULL,
	start_timestamp timestamp with time zone NOT NULL,
	stop_timestamp timestamp with time zone NOT NULL
);

CREATE INDEX idx_upload_task_run_id ON upload(task_run_id);
`

// Init creates the werk tables in the postgresql database.
// If they already exist, storage.ErrExists is returned.
func (c *Client) Init(ctx context.Context) error {
	exists, err := c.tableExists(ctx, "migrations")
	if err != nil {
		return err
	}

	if exists {
		return storage.ErrExists
	}

	_, err = c.db.Exec(ctx, initQuery)

	return err
}

// SchemaVersion returns the schema version recorded in the migrations table.
func (c *Client) SchemaVersion(ctx context.Context) (int32, error) {
	var ver int32

	err := c.db.QueryRow(ctx, "SELECT schema_version FROM migrations").Scan(&ver)
	if err != nil {
		return -1, fmt.Errorf("querying schema_version failed: %w", err)
	}

	return ver, nil
}

// RequiredSchemaVersion returns the schema version that the client requires.
func (c *Client) RequiredSchemaVersion() int32 {
	return schemaVer
}

// IsCompatible checks if the database schema exist and has the required
// migration version.
func (c *Client) IsCompatible(ctx context.Context) error {
	if err := c.schemaExist(ctx); err != nil {
		return err
	}

	ver, err := c.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	if ver != schemaVer {
		return fmt.Errorf("database schema version is not compatible with werk version, schema version: %d, expected version: %d", ver, schemaVer)
	}

	return nil
}

func (c *Client) tableExists(ctx context.Context, tableName string) (bool, error) {
	const query = `
	SELECT EXISTS
	       (
		SELECT FROM pg_tables
		 WHERE schemaname = 'public'
		   AND tablename = $1
	       )
`

	var exists bool

	err := c.db.QueryRow(ctx, query, tableName).Scan(&exists)

	return exists, err
}

func (c *Client) schemaExist(ctx context.Context) error {
	exists, err := c.tableExists(ctx, "migrations")
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("database schema %w", storage.ErrNotExist)
	}

	return nil
}
