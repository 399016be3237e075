package confounder

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"causeway/internal/ledger"
)

// ErrEvalBeforeLedger signals an evaluation date earlier than the earliest
// event in the ledger. Verdicts about a time the ledger does not cover would
// be vacuously safe, so the input is rejected instead.
var ErrEvalBeforeLedger = errors.New("evaluation date predates the ledger")

// Violation is one event still inside its washout window at the evaluation
// date.
type Violation struct {
	Event           ledger.ChangeEvent `json:"event"`
	DaysElapsed     int                `json:"days_elapsed"`
	WashoutRequired int                `json:"washout_required"`
}

// DaysRemaining reports how many more days must elapse before the event's
// washout window closes.
func (v Violation) DaysRemaining() int {
	return v.WashoutRequired - v.DaysElapsed
}

// Verdict is the result of one detection run. Violations are ordered by
// ascending DaysElapsed so the most recent interference surfaces first for
// callers that truncate the list.
type Verdict struct {
	Safe       bool        `json:"safe"`
	Violations []Violation `json:"violations"`
}

// Detector scans a ledger snapshot for events whose washout window has not
// elapsed. It has no side effects and never blocks.
type Detector struct {
	policy Policy
}

// NewDetector creates a detector using the given washout policy.
func NewDetector(policy Policy) *Detector {
	return &Detector{policy: policy}
}

// Detect evaluates the snapshot against the question scope at asOf.
//
// Scope semantics: a concrete category restricts the scan to events of that
// category; ledger.CategoryUnspecified checks every event against its own
// category's washout window.
//
// Window semantics: washout is half-open, [0, required). An event exactly
// required days old is clean; a future-dated event (negative elapsed days)
// cannot confound and is ignored.
func (d *Detector) Detect(snap *ledger.Snapshot, scope ledger.Category, asOf time.Time) (Verdict, error) {
	asOf = ledger.Date(asOf)

	if earliest, ok := snap.Earliest(); ok && asOf.Before(earliest) {
		return Verdict{}, fmt.Errorf("%w: %s is before %s",
			ErrEvalBeforeLedger, asOf.Format(ledger.DateLayout), earliest.Format(ledger.DateLayout))
	}

	var violations []Violation
	for _, event := range snap.Events() {
		if scope != ledger.CategoryUnspecified && event.Category != scope {
			continue
		}

		elapsed := ledger.DaysBetween(event.Date, asOf)
		if elapsed < 0 {
			continue
		}

		required, err := d.policy.WashoutDays(event.Category)
		if err != nil {
			// Reachable only when startup validation was skipped, e.g. a
			// snapshot swapped in without revalidation.
			return Verdict{}, err
		}

		if elapsed < required {
			violations = append(violations, Violation{
				Event:           event,
				DaysElapsed:     elapsed,
				WashoutRequired: required,
			})
		}
	}

	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].DaysElapsed < violations[j].DaysElapsed
	})

	return Verdict{Safe: len(violations) == 0, Violations: violations}, nil
}
