package services

import (
	"context"
	"errors"

	"github.com/markdave123-py/fatura-gateway/internal/models"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ErrAuditDisabled is returned when no audit store is configured.
var ErrAuditDisabled = errors.New("analysis audit log is not configured")

// AnalysisLister is the read side of the audit log.
type AnalysisLister interface {
	ListRecentAnalyses(ctx context.Context, limit int) ([]models.AnalysisRecord, error)
}

type AnalysisService struct {
	db AnalysisLister
}

// NewAnalysisService accepts a nil lister; every call then fails with
// ErrAuditDisabled.
func NewAnalysisService(db AnalysisLister) *AnalysisService {
	return &AnalysisService{db: db}
}

func (s *AnalysisService) Enabled() bool {
	return s.db != nil
}

// ListRecent returns the newest records first. limit is clamped to
// [1, MaxListLimit]; zero or less means DefaultListLimit.
func (s *AnalysisService) ListRecent(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	if s.db == nil {
		return nil, ErrAuditDisabled
	}
	recs, err := s.db.ListRecentAnalyses(ctx, ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []models.AnalysisRecord{}
	}
	return recs, nil
}

func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}
