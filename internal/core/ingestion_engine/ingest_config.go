package ingestion_engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/markdave123-py/fatura-gateway/internal/core/uploadstore"
)

// IngestConfig tunes the per-request pipeline.
//
// Verbose:          log a field summary after every analysis.
// AnalysisTimeout:  deadline for one engine call; 0 means no deadline.
// RecordTimeout:    deadline for audit and archive side effects.
type IngestConfig struct {
	Verbose         bool
	AnalysisTimeout time.Duration
	RecordTimeout   time.Duration
}

// Pipeline orchestrates one invoice upload:
//
// store:     local persistence of the upload for the engine to read.
// analyzer:  resolved engine capability; nil when resolution failed.
// recorder:  optional audit log.
// archiver:  optional object storage copy of the upload.
type Pipeline struct {
	store    *uploadstore.Store
	analyzer Analyzer
	recorder Recorder
	archiver Archiver
	cfg      IngestConfig
	logger   zerolog.Logger
}

type Option func(*Pipeline)

func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

func WithArchiver(a Archiver) Option {
	return func(p *Pipeline) { p.archiver = a }
}
