package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"causeway/internal/audit"
	"causeway/internal/ledger"
)

// Store implements audit.Store on PostgreSQL. Rows are keyed by an
// auto-incrementing sequence plus the record UUID; insertion order is the
// sequence order.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the decision log table when missing. Idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS decision_log (
			seq            BIGSERIAL PRIMARY KEY,
			record_id      UUID NOT NULL UNIQUE,
			question       TEXT NOT NULL,
			category       TEXT NOT NULL,
			ts             TIMESTAMPTZ NOT NULL,
			outcome        TEXT NOT NULL,
			safe           BOOLEAN NOT NULL,
			violations     JSONB NOT NULL,
			brief          TEXT NOT NULL DEFAULT '',
			low_confidence BOOLEAN NOT NULL DEFAULT FALSE,
			failure        TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_decision_log_outcome ON decision_log (outcome);
		CREATE INDEX IF NOT EXISTS idx_decision_log_ts ON decision_log (ts);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure decision_log schema: %w", err)
	}
	return nil
}

// Append inserts one decision record. Idempotent on record ID so a retried
// append never duplicates a row.
func (s *Store) Append(ctx context.Context, record audit.DecisionRecord) error {
	violations, err := json.Marshal(record.Verdict.Violations)
	if err != nil {
		return fmt.Errorf("marshal violations: %w", err)
	}

	query := `
		INSERT INTO decision_log (
			record_id, question, category, ts, outcome,
			safe, violations, brief, low_confidence, failure
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (record_id) DO NOTHING
	`
	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.Question,
		string(record.Category),
		record.Timestamp,
		string(record.Outcome),
		record.Verdict.Safe,
		violations,
		record.Brief,
		record.LowConfidence,
		record.Failure,
	)
	if err != nil {
		return fmt.Errorf("insert decision record: %w", err)
	}
	return nil
}

// Query returns records matching the filter in insertion order.
func (s *Store) Query(ctx context.Context, filter audit.Filter) ([]audit.DecisionRecord, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Outcome != "" {
		args = append(args, string(filter.Outcome))
		conds = append(conds, fmt.Sprintf("outcome = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		conds = append(conds, fmt.Sprintf("ts >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		conds = append(conds, fmt.Sprintf("ts <= $%d", len(args)))
	}

	query := `
		SELECT record_id, question, category, ts, outcome,
		       safe, violations, brief, low_confidence, failure
		FROM decision_log
	`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY seq"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query decision records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]audit.DecisionRecord, error) {
	var records []audit.DecisionRecord

	for rows.Next() {
		var (
			record     audit.DecisionRecord
			recordID   uuid.UUID
			category   string
			ts         time.Time
			outcome    string
			violations []byte
		)
		err := rows.Scan(
			&recordID,
			&record.Question,
			&category,
			&ts,
			&outcome,
			&record.Verdict.Safe,
			&violations,
			&record.Brief,
			&record.LowConfidence,
			&record.Failure,
		)
		if err != nil {
			return nil, fmt.Errorf("scan decision record: %w", err)
		}

		record.ID = recordID
		record.Category = ledger.Category(category)
		record.Timestamp = ts
		record.Outcome = audit.Outcome(outcome)
		if err := json.Unmarshal(violations, &record.Verdict.Violations); err != nil {
			return nil, fmt.Errorf("decode violations: %w", err)
		}

		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decision records: %w", err)
	}
	return records, nil
}

// Health verifies the database connection.
func (s *Store) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
