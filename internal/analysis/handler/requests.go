package handler

import (
	"strings"

	dErrors "causeway/pkg/domain-errors"
)

// maxQuestionLength bounds request bodies; anything longer is not a question.
const maxQuestionLength = 2000

// AnalyzeRequest is the HTTP request body for POST /api/analyze.
type AnalyzeRequest struct {
	Question string `json:"question"`
}

// Validate validates and normalizes the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *AnalyzeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.Question = strings.TrimSpace(r.Question)
	if r.Question == "" {
		return dErrors.New(dErrors.CodeValidation, "question is required")
	}
	if len(r.Question) > maxQuestionLength {
		return dErrors.New(dErrors.CodeValidation, "question must be at most 2000 characters")
	}
	return nil
}
