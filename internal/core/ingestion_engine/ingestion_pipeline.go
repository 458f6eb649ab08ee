package ingestion_engine

import (
	"context"
	"fmt"
	"time"

	"code.sajari.com/docconv"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/markdave123-py/fatura-gateway/internal/core/result"
	"github.com/markdave123-py/fatura-gateway/internal/core/uploadstore"
	"github.com/markdave123-py/fatura-gateway/internal/models"
)

// NewPipeline builds the pipeline. analyzer may be nil, in which case every
// upload fails with ErrCapabilityUnavailable.
func NewPipeline(store *uploadstore.Store, analyzer Analyzer, cfg IngestConfig, logger zerolog.Logger, opts ...Option) *Pipeline {
	if cfg.RecordTimeout <= 0 {
		cfg.RecordTimeout = 30 * time.Second
	}
	p := &Pipeline{store: store, analyzer: analyzer, cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ready reports whether an engine is bound.
func (p *Pipeline) Ready() bool {
	return p.analyzer != nil
}

// Engine describes the bound engine, or "" when none is.
func (p *Pipeline) Engine() string {
	if p.analyzer == nil {
		return ""
	}
	return p.analyzer.Source()
}

// Process validates, persists, analyses and normalizes one upload. The
// persisted file is removed before Process returns, whatever the outcome.
//
// A Failure outcome is returned with a nil error; engine errors come back
// as *AnalysisError.
func (p *Pipeline) Process(ctx context.Context, up Upload) (result.Outcome, error) {
	if p.analyzer == nil {
		return result.Outcome{}, ErrCapabilityUnavailable
	}
	if err := ValidateFilename(up.Filename); err != nil {
		return result.Outcome{}, err
	}

	stored, err := p.store.Save(up.Filename, up.Body)
	if err != nil {
		return result.Outcome{}, fmt.Errorf("persist upload: %w", err)
	}
	defer p.cleanup(stored.Path)

	rec := &models.AnalysisRecord{
		ID:          uuid.NewString(),
		FileName:    up.Filename,
		StorageKey:  stored.Key,
		ContentType: docconv.MimeTypeByExtension(up.Filename),
		SizeBytes:   stored.Size,
		Engine:      p.analyzer.Source(),
		CreatedAt:   time.Now().UTC(),
	}
	logger := p.logger.With().Str("analysis_id", rec.ID).Str("file", stored.Key).Logger()

	raw, elapsed, err := p.invoke(ctx, stored.Path)
	rec.DurationMs = elapsed.Milliseconds()
	if err != nil {
		logger.Error().Err(err).Dur("duration", elapsed).Msg("invoice analysis raised")
		rec.Status = models.StatusError
		rec.Error = err.Error()
		p.finish(ctx, rec, stored)
		return result.Outcome{}, &AnalysisError{Err: err}
	}

	if p.cfg.Verbose {
		p.logSummary(logger, raw, elapsed)
	}

	outcome := result.Normalize(raw)
	if outcome.IsFailure() {
		rec.Status = models.StatusFailed
		rec.Error = outcome.Message
	} else {
		rec.Status = models.StatusOK
		rec.FieldCount = len(outcome.Fields)
		if s, err := result.Summarize(outcome.Fields); err == nil {
			rec.LineItems = s.LineItems
		}
	}
	p.finish(ctx, rec, stored)
	return outcome, nil
}

func (p *Pipeline) invoke(ctx context.Context, path string) (any, time.Duration, error) {
	if p.cfg.AnalysisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.AnalysisTimeout)
		defer cancel()
	}
	start := time.Now()
	raw, err := p.analyzer.Invoke(ctx, path)
	return raw, time.Since(start), err
}

// finish runs the optional archive and audit steps. Both are best-effort and
// outlive a cancelled request.
func (p *Pipeline) finish(ctx context.Context, rec *models.AnalysisRecord, stored *uploadstore.Stored) {
	if p.archiver == nil && p.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.cfg.RecordTimeout)
	defer cancel()

	if p.archiver != nil {
		url, err := p.archiver.Archive(ctx, stored.Path, stored.Key, rec.ContentType)
		if err != nil {
			p.logger.Warn().Err(err).Str("analysis_id", rec.ID).Msg("archive upload failed")
		} else {
			rec.ArchiveURL = url
		}
	}
	if p.recorder != nil {
		if err := p.recorder.RecordAnalysis(ctx, rec); err != nil {
			p.logger.Warn().Err(err).Str("analysis_id", rec.ID).Msg("record analysis failed")
		}
	}
}

func (p *Pipeline) cleanup(path string) {
	if err := p.store.Remove(path); err != nil {
		p.logger.Warn().Err(err).Str("path", path).Msg("temp file cleanup failed")
	}
}

func (p *Pipeline) logSummary(logger zerolog.Logger, raw any, elapsed time.Duration) {
	s, err := result.Summarize(raw)
	if err != nil {
		logger.Debug().Err(err).Msg("analysis summary skipped")
		return
	}
	var found, missing []string
	for _, c := range s.Checklist {
		if c.Present {
			found = append(found, c.Field)
		} else {
			missing = append(missing, c.Field)
		}
	}
	logger.Info().
		Dur("duration", elapsed).
		Int("field_count", s.FieldCount).
		Int("line_items", s.LineItems).
		Strs("found", found).
		Strs("missing", missing).
		Msg("analysis summary")
}
