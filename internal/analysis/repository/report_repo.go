package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Report kinds as persisted.
const (
	KindBottleneck = "bottleneck"
	KindLogistics  = "logistics"
	KindPower      = "power"
)

// Record is one persisted analysis run.
//
// Schema:
//
//	CREATE TABLE analysis_reports (
//	    id          UUID PRIMARY KEY,
//	    kind        TEXT NOT NULL,
//	    snapshot_id TEXT NOT NULL DEFAULT '',
//	    params      JSONB NOT NULL DEFAULT '{}',
//	    report      JSONB NOT NULL,
//	    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type Record struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	SnapshotID string          `json:"snapshot_id,omitempty"`
	Params     json.RawMessage `json:"params,omitempty"`
	Report     json.RawMessage `json:"report"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ReportRepository persists analysis reports to PostgreSQL so past runs
// can be listed and compared. Reports are write-once rows; the engines
// themselves never read them back.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save inserts one analysis run. Assigns an id when the caller left it
// empty; the report payload must already be JSON.
func (r *ReportRepository) Save(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if len(rec.Params) == 0 {
		rec.Params = json.RawMessage("{}")
	}

	query := `
		INSERT INTO analysis_reports (id, kind, snapshot_id, params, report)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.Kind, rec.SnapshotID, []byte(rec.Params), []byte(rec.Report),
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("save analysis report: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first, optionally filtered
// by kind. limit <= 0 defaults to 20.
func (r *ReportRepository) List(ctx context.Context, kind string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, kind, snapshot_id, params, report, created_at
		FROM analysis_reports
		WHERE ($1 = '' OR kind = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("list analysis reports: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var params, report []byte
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.SnapshotID, &params, &report, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis report: %w", err)
		}
		rec.Params = json.RawMessage(params)
		rec.Report = json.RawMessage(report)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analysis reports: %w", err)
	}

	return records, nil
}
