// Package audit is the durable, append-only record of every analyzed
// question. Records are constructed once by the orchestrator, appended, and
// never mutated; retention is an external administrative concern.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"causeway/internal/confounder"
	"causeway/internal/ledger"
)

// Outcome is the final disposition of one analyzed question.
type Outcome string

const (
	// OutcomeWait means recent events confound the question; analysis was
	// deliberately withheld. This is a confident answer, not an error.
	OutcomeWait Outcome = "WAIT"
	// OutcomeBrief means the question was safe and a brief was generated.
	OutcomeBrief Outcome = "BRIEF"
	// OutcomeFailed means the safe path was taken but brief generation
	// failed. Recorded so operators can see failed analyses; never exposed
	// as a successful answer.
	OutcomeFailed Outcome = "FAILED"
)

// DecisionRecord is one row per analyzed question.
type DecisionRecord struct {
	ID            uuid.UUID
	Question      string
	Category      ledger.Category
	Timestamp     time.Time
	Outcome       Outcome
	Verdict       confounder.Verdict
	Brief         string // populated only for OutcomeBrief
	LowConfidence bool   // brief was generated without retrieved context
	Failure       string // generation error text for OutcomeFailed
}

// Filter narrows a Query. Zero values leave the dimension unconstrained.
type Filter struct {
	Outcome Outcome
	From    time.Time
	To      time.Time
	Limit   int
}

// Store persists decision records. Append-only: no update or delete is
// exposed. Query returns records in insertion order.
type Store interface {
	Append(ctx context.Context, record DecisionRecord) error
	Query(ctx context.Context, filter Filter) ([]DecisionRecord, error)
}

// Matches reports whether a record passes the filter. Used by the in-memory
// store; the Postgres store pushes the same predicate into SQL.
func (f Filter) Matches(record DecisionRecord) bool {
	if f.Outcome != "" && record.Outcome != f.Outcome {
		return false
	}
	if !f.From.IsZero() && record.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && record.Timestamp.After(f.To) {
		return false
	}
	return true
}
