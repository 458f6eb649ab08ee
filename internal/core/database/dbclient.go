package db

import (
	"context"

	"github.com/markdave123-py/fatura-gateway/internal/models"
)

// DbClient is the audit log of invoice analyses.
// DatabaseClient implements it on Postgres.
type DbClient interface {
	RecordAnalysis(ctx context.Context, rec *models.AnalysisRecord) error
	ListRecentAnalyses(ctx context.Context, limit int) ([]models.AnalysisRecord, error)

	Close() error
}
