package objectclient

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memClient struct {
	bucket, key, contentType string
	body                     []byte
}

func (m *memClient) UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.bucket, m.key, m.contentType, m.body = bucket, key, contentType, b
	return "mem://" + bucket + "/" + key, nil
}

func TestArchiveKey(t *testing.T) {
	ts := time.Date(2025, 3, 7, 23, 30, 0, 0, time.FixedZone("TRT", 3*3600))
	assert.Equal(t, "invoices/2025/03/07/abc_fatura.pdf", ArchiveKey(ts, "abc_fatura.pdf"))
}

func TestArchiver_Archive(t *testing.T) {
	local := filepath.Join(t.TempDir(), "k_fatura.pdf")
	require.NoError(t, os.WriteFile(local, []byte("%PDF"), 0o600))

	mc := &memClient{}
	a := NewArchiver(mc, "invoices-bucket")
	a.now = func() time.Time { return time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC) }

	url, err := a.Archive(context.Background(), local, "k_fatura.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "mem://invoices-bucket/invoices/2024/12/31/k_fatura.pdf", url)
	assert.Equal(t, "application/pdf", mc.contentType)
	assert.Equal(t, []byte("%PDF"), mc.body)
}

func TestArchiver_MissingFile(t *testing.T) {
	a := NewArchiver(&memClient{}, "b")
	_, err := a.Archive(context.Background(), filepath.Join(t.TempDir(), "nope"), "nope", "")
	assert.Error(t, err)
}
