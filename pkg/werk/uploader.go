package werk

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/werktool/werk/internal/fs"
	"github.com/werktool/werk/pkg/storage"
)

// S3Uploader is an interface for uploading files to AWS S3 buckets.
type S3Uploader interface {
	Upload(ctx context.Context, filepath, bucket, key string) (string, error)
}

// UploadResult is the result of an upload operation.
type UploadResult struct {
	// Binary is the binary whose artifact was uploaded.
	Binary *Binary
	URL    string
	Start  time.Time
	Stop   time.Time
	Method storage.UploadMethod
}

// Uploader uploads binary artifacts to remote locations.
type Uploader struct {
	s3client  S3Uploader
	bucket    string
	keyPrefix string
}

// NewUploader returns an uploader storing artifacts in the S3 bucket under
// keyPrefix.
func NewUploader(s3client S3Uploader, bucket, keyPrefix string) *Uploader {
	return &Uploader{
		s3client:  s3client,
		bucket:    bucket,
		keyPrefix: keyPrefix,
	}
}

// Upload uploads the artifact of the binary.
// An error is returned when the artifact does not exist, a build must have
// run before it can be published.
func (u *Uploader) Upload(ctx context.Context, binary *Binary) (*UploadResult, error) {
	if !fs.FileExists(binary.Path) {
		return nil, fmt.Errorf("artifact %q of binary %q does not exist, was it built?",
			binary.Path, binary)
	}

	key := path.Join(u.keyPrefix, filepath.Base(binary.Path))

	startTime := time.Now()

	url, err := u.s3client.Upload(ctx, binary.Path, u.bucket, key)
	if err != nil {
		return nil, fmt.Errorf("s3 upload of %q failed: %w", binary.Path, err)
	}

	return &UploadResult{
		Binary: binary,
		URL:    url,
		Start:  startTime,
		Stop:   time.Now(),
		Method: storage.UploadMethodS3,
	}, nil
}

// AsStorageUpload converts the result to its storage representation.
func (r *UploadResult) AsStorageUpload() *storage.Upload {
	return &storage.Upload{
		URI:                  r.URL,
		Method:               r.Method,
		UploadStartTimestamp: r.Start,
		UploadStopTimestamp:  r.Stop,
	}
}
