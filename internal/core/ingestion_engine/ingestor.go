package ingestion_engine

import (
	"context"
	"io"

	"github.com/markdave123-py/fatura-gateway/internal/models"
)

// Analyzer is the resolved engine entry point.
type Analyzer interface {
	Invoke(ctx context.Context, path string) (any, error)
	Source() string
}

type Recorder interface {
	RecordAnalysis(ctx context.Context, rec *models.AnalysisRecord) error
}

type Archiver interface {
	Archive(ctx context.Context, localPath, storageKey, contentType string) (url string, err error)
}

// Upload is one received file part.
type Upload struct {
	Filename string
	Body     io.Reader
}
