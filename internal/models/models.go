package models

import (
	"time"
)

// Analysis statuses.
const (
	StatusOK     = "ok"     // engine returned fields
	StatusFailed = "failed" // engine reported a failure
	StatusError  = "error"  // engine invocation raised
)

// AnalysisRecord is one audited invoice analysis.
type AnalysisRecord struct {
	ID          string    `db:"id" json:"id"`
	FileName    string    `db:"file_name" json:"file_name"`
	StorageKey  string    `db:"storage_key" json:"storage_key"`
	ContentType string    `db:"content_type" json:"content_type"`
	SizeBytes   int64     `db:"size_bytes" json:"size_bytes"`
	Status      string    `db:"status" json:"status"`
	FieldCount  int       `db:"field_count" json:"field_count"`
	LineItems   int       `db:"line_items" json:"line_items"`
	DurationMs  int64     `db:"duration_ms" json:"duration_ms"`
	Error       string    `db:"error" json:"error,omitempty"`
	ArchiveURL  string    `db:"archive_url" json:"archive_url,omitempty"`
	Engine      string    `db:"engine" json:"engine"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
