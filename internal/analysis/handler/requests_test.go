package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "causeway/pkg/domain-errors"
)

func TestAnalyzeRequestValidate(t *testing.T) {
	t.Run("trims surrounding whitespace", func(t *testing.T) {
		req := &AnalyzeRequest{Question: "  Should we?  "}
		require.NoError(t, req.Validate())
		assert.Equal(t, "Should we?", req.Question)
	})

	t.Run("rejects an empty question", func(t *testing.T) {
		req := &AnalyzeRequest{Question: "   "}
		err := req.Validate()
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("rejects an oversized question", func(t *testing.T) {
		req := &AnalyzeRequest{Question: strings.Repeat("x", maxQuestionLength+1)}
		err := req.Validate()
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("accepts a question at the length limit", func(t *testing.T) {
		req := &AnalyzeRequest{Question: strings.Repeat("x", maxQuestionLength)}
		assert.NoError(t, req.Validate())
	})
}
