// Package storage provides an interface for werk data storage implementations.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotExist indicates that a record does not exist.
var ErrNotExist = errors.New("does not exist")

// ErrExists indicates that the database or a record already exist.
var ErrExists = errors.New("already exists")

type InputFile struct {
	Path   string
	Digest string
}

type InputString struct {
	String string
	Digest string
}

// Inputs are the recorded inputs of a task run.
type Inputs struct {
	Files   []*InputFile
	Strings []*InputString
}

// UploadMethod is the method that was used to upload an artifact.
type UploadMethod string

const (
	UploadMethodS3 UploadMethod = "s3"
)

type Upload struct {
	URI                  string
	UploadStartTimestamp time.Time
	UploadStopTimestamp  time.Time
	Method               UploadMethod
}

// Output describes a binary artifact that a task run produced.
type Output struct {
	Name      string
	Digest    string
	SizeBytes uint64
	Uploads   []*Upload
}

type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

type TaskRun struct {
	ComponentName    string
	TaskName         string
	StartTimestamp   time.Time
	StopTimestamp    time.Time
	TotalInputDigest string
	Result           Result
}

type TaskRunFull struct {
	TaskRun
	Inputs  Inputs
	Outputs []*Output
}

type TaskRunWithID struct {
	ID int
	TaskRun
}

const (
	NoLimit uint = 0
)

// Storer is an interface for storing and retrieving werk task runs.
type Storer interface {
	Close() error

	// SchemaVersion returns the version of the schema that the storage is
	// using.
	SchemaVersion(ctx context.Context) (int32, error)
	// RequiredSchemaVersion returns the schema version that the Storer
	// implementation requires.
	RequiredSchemaVersion() int32
	// IsCompatible verifies that the storage is compatible with the werk
	// version.
	IsCompatible(context.Context) error
	// Init initializes a storage, e.g. creating the database scheme.
	// If it already exist, ErrExists is returned.
	Init(context.Context) error

	SaveTaskRun(context.Context, *TaskRunFull) (id int, err error)
	LatestTaskRunByDigest(ctx context.Context, componentName, taskName, totalInputDigest string) (*TaskRunWithID, error)

	TaskRun(ctx context.Context, id int) (*TaskRunWithID, error)
	// TaskRuns queries the storage for runs that match the filters.
	// A limit value of NoLimit will return all results.
	// The found results are passed in iterative manner to the callback
	// function. When the callback function returns an error, the iteration
	// stops.
	// When no matching records exist, the method returns ErrNotExist.
	TaskRuns(ctx context.Context,
		filters []*Filter,
		sorters []*Sorter,
		limit uint,
		callback func(*TaskRunWithID) error,
	) error

	// Inputs returns the inputs of a task run. If no records were found,
	// the method returns ErrNotExist.
	Inputs(ctx context.Context, taskRunID int) (*Inputs, error)

	// AddUpload records an upload of an output of a task run.
	AddUpload(ctx context.Context, taskRunID int, outputName string, upload *Upload) error
}
