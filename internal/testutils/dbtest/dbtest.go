// Package dbtest provides utilities for tests requiring a PostgreSQL
// database.
package dbtest

import (
	"context"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

// EnvVarPSQLURL is the environment variable that contains the connection URL
// of the PostgreSQL instance used by tests.
const EnvVarPSQLURL = "WERK_TEST_POSTGRESQL_URL"

// PSQLURL returns the value of the EnvVarPSQLURL environment variable.
// If the variable is undefined or empty, the test is skipped.
func PSQLURL(t *testing.T) string {
	t.Helper()

	psqlURL := os.Getenv(EnvVarPSQLURL)
	if psqlURL == "" {
		t.Skipf("%s environment variable is not set, skipping test", EnvVarPSQLURL)
	}

	return psqlURL
}

// CreateDB creates a new database and returns its connection URL.
// The database is created at the PostgreSQL instance reachable via PSQLURL().
func CreateDB(t *testing.T, name string) (string, error) {
	t.Helper()

	ctx := context.Background()
	psqlURL := PSQLURL(t)

	con, err := pgx.Connect(ctx, psqlURL)
	if err != nil {
		return "", err
	}

	defer con.Close(ctx)

	_, err = con.Exec(ctx, "CREATE DATABASE "+name)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(psqlURL)
	if err != nil {
		return "", err
	}

	u.Path = name

	return u.String(), nil
}

// UniqueDBName returns a unique postgresql database name.
func UniqueDBName() string {
	return "werk_test" + strings.ReplaceAll(uuid.New().String(), "-", "")
}
