package objectclient

import (
	"context"
	"io"
)

// ObjectClient stores archived invoice uploads.
// S3Client is the production implementation.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (url string, err error)
}
