package handler

import (
	"causeway/internal/analysis"
	"causeway/internal/confounder"
	"causeway/internal/ledger"
)

// AnalyzeResponse is the HTTP response for POST /api/analyze.
type AnalyzeResponse struct {
	Outcome       string          `json:"outcome"`
	Category      string          `json:"category"`
	Verdict       VerdictResponse `json:"verdict"`
	Brief         string          `json:"brief,omitempty"`
	LowConfidence bool            `json:"low_confidence,omitempty"`
}

// VerdictResponse is the verdict portion of the response.
type VerdictResponse struct {
	Safe       bool                `json:"safe"`
	Violations []ViolationResponse `json:"violations"`
}

// ViolationResponse describes one event still inside its washout window.
type ViolationResponse struct {
	Category        string `json:"category"`
	Date            string `json:"date"`
	Description     string `json:"description"`
	DaysElapsed     int    `json:"days_elapsed"`
	WashoutRequired int    `json:"washout_required"`
	DaysRemaining   int    `json:"days_remaining"`
}

// FromResult converts a domain Result to an HTTP response.
func FromResult(result *analysis.Result) *AnalyzeResponse {
	return &AnalyzeResponse{
		Outcome:       string(result.Outcome),
		Category:      string(result.Category),
		Verdict:       fromVerdict(result.Verdict),
		Brief:         result.Brief,
		LowConfidence: result.LowConfidence,
	}
}

func fromVerdict(v confounder.Verdict) VerdictResponse {
	out := VerdictResponse{Safe: v.Safe, Violations: []ViolationResponse{}}
	for _, violation := range v.Violations {
		out.Violations = append(out.Violations, ViolationResponse{
			Category:        string(violation.Event.Category),
			Date:            violation.Event.Date.Format(ledger.DateLayout),
			Description:     violation.Event.Description,
			DaysElapsed:     violation.DaysElapsed,
			WashoutRequired: violation.WashoutRequired,
			DaysRemaining:   violation.DaysRemaining(),
		})
	}
	return out
}
