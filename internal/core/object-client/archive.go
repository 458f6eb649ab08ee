package objectclient

import (
	"context"
	"fmt"
	"os"
	"path"
	"time"
)

// Archiver copies persisted uploads into a bucket.
type Archiver struct {
	client ObjectClient
	bucket string
	now    func() time.Time
}

func NewArchiver(client ObjectClient, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket, now: time.Now}
}

// ArchiveKey lays archived files out by UTC day.
func ArchiveKey(t time.Time, storageKey string) string {
	t = t.UTC()
	return path.Join("invoices", t.Format("2006"), t.Format("01"), t.Format("02"), storageKey)
}

// Archive uploads the file at localPath under its storage key.
func (a *Archiver) Archive(ctx context.Context, localPath, storageKey, contentType string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open for archive: %w", err)
	}
	defer f.Close()

	return a.client.UploadFile(ctx, a.bucket, ArchiveKey(a.now(), storageKey), f, contentType)
}
