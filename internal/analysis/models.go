package analysis

import (
	"causeway/internal/audit"
	"causeway/internal/confounder"
	"causeway/internal/ledger"
)

// Request is one decision question to analyze.
type Request struct {
	Question string
}

// Result is the orchestrator's answer. Brief is populated only for
// OutcomeBrief; LowConfidence marks a brief drafted without retrieved
// context.
type Result struct {
	Outcome       audit.Outcome
	Category      ledger.Category
	Verdict       confounder.Verdict
	Brief         string
	LowConfidence bool
}
