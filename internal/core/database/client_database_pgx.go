package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/markdave123-py/fatura-gateway/internal/config"
	"github.com/markdave123-py/fatura-gateway/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

var _ DbClient = (*DatabaseClient)(nil)

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (*DatabaseClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	maxConns := cfg.DBMaxConns
	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns((maxConns + 1) / 2)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *DatabaseClient) RecordAnalysis(ctx context.Context, rec *models.AnalysisRecord) error {
	if rec == nil {
		return errors.New("nil analysis record")
	}
	const q = `
		INSERT INTO invoice_analyses
			(id, file_name, storage_key, content_type, size_bytes, status, field_count,
			 line_items, duration_ms, error, archive_url, engine, created_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, COALESCE($13, now()))
	`
	var createdAt any
	if !rec.CreatedAt.IsZero() {
		createdAt = rec.CreatedAt
	}
	_, err := c.db.ExecContext(ctx, q,
		rec.ID, rec.FileName, rec.StorageKey, rec.ContentType, rec.SizeBytes, rec.Status, rec.FieldCount,
		rec.LineItems, rec.DurationMs, rec.Error, rec.ArchiveURL, rec.Engine, createdAt)
	return err
}

func (c *DatabaseClient) ListRecentAnalyses(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	const q = `
		SELECT id, file_name, storage_key, content_type, size_bytes, status, field_count,
		       line_items, duration_ms, error, archive_url, engine, created_at
		FROM invoice_analyses
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := c.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.AnalysisRecord{}
	for rows.Next() {
		var r models.AnalysisRecord
		if err := rows.Scan(
			&r.ID, &r.FileName, &r.StorageKey, &r.ContentType, &r.SizeBytes, &r.Status, &r.FieldCount,
			&r.LineItems, &r.DurationMs, &r.Error, &r.ArchiveURL, &r.Engine, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
