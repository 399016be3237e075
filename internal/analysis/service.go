// Package analysis orchestrates one decision question through confounder
// checking, context retrieval, brief generation, and audit recording.
package analysis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"causeway/internal/analysis/metrics"
	"causeway/internal/audit"
	"causeway/internal/classify"
	"causeway/internal/confounder"
	"causeway/internal/ledger"
	dErrors "causeway/pkg/domain-errors"
	"causeway/pkg/requestcontext"
)

var tracer = otel.Tracer("causeway.analysis")

// DefaultTopK is the retrieval depth when none is configured.
const DefaultTopK = 5

// Service is the decision orchestrator. Each call to Analyze is independent:
// the only shared state is the read-only ledger snapshot and the audit log.
type Service struct {
	ledger    *ledger.Ledger
	detector  *confounder.Detector
	searcher  ContextSearcher // nil disables retrieval (permanent degradation)
	generator BriefGenerator
	recorder  audit.Recorder
	metrics   *metrics.Metrics
	logger    *slog.Logger
	topK      int
}

// NewService wires the orchestrator. generator and recorder are required;
// searcher may be nil, in which case every brief is flagged low-confidence.
func NewService(
	lgr *ledger.Ledger,
	detector *confounder.Detector,
	searcher ContextSearcher,
	generator BriefGenerator,
	recorder audit.Recorder,
	m *metrics.Metrics,
	logger *slog.Logger,
	topK int,
) *Service {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Service{
		ledger:    lgr,
		detector:  detector,
		searcher:  searcher,
		generator: generator,
		recorder:  recorder,
		metrics:   m,
		logger:    logger,
		topK:      topK,
	}
}

// Analyze runs the full pipeline for one question.
//
// Unsafe verdicts short-circuit to WAIT before any collaborator is called.
// Retrieval failure degrades to empty context. Generation failure fails the
// request after recording a FAILED decision record; it is never relabeled as
// a WAIT. The audit append is best-effort relative to the response.
func (s *Service) Analyze(ctx context.Context, req Request) (*Result, error) {
	ctx, span := tracer.Start(ctx, "analysis.Analyze")
	defer span.End()

	start := time.Now()
	requestID := requestcontext.RequestID(ctx)
	now := requestcontext.Now(ctx)

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "question is required")
	}

	// Received: scope the question. Ambiguity degrades to unspecified, which
	// widens the confounder check to every category.
	category := classify.InferCategory(question)
	span.SetAttributes(attribute.String("question.category", string(category)))

	// ConfounderChecked: one snapshot for the whole request.
	snapshot := s.ledger.Snapshot()
	verdict, err := s.detector.Detect(snapshot, category, now)
	if err != nil {
		span.SetStatus(codes.Error, "confounder detection failed")
		return nil, dErrors.Wrap(dErrors.CodeInternal, "confounder detection failed", err)
	}

	state := routeAfterCheck(verdict)
	if state == StateWaiting {
		result := &Result{Outcome: audit.OutcomeWait, Category: category, Verdict: verdict}
		s.record(ctx, question, now, result, "")
		s.finish(ctx, span, requestID, result, start)
		return result, nil
	}

	// Retrieving: best-effort. Timeout, an empty index, or an unavailable
	// retriever all degrade to an empty context set.
	excerpts, degraded := s.retrieve(ctx, question)

	// BriefDrafted or Failed.
	briefStart := time.Now()
	brief, genErr := s.generator.Generate(ctx, question, excerpts)
	s.metrics.ObserveCollaboratorLatency("generator", time.Since(briefStart))

	if routeAfterGeneration(genErr) == StateFailed {
		span.SetStatus(codes.Error, "brief generation failed")
		s.logger.ErrorContext(ctx, "brief generation failed",
			"request_id", requestID,
			"category", category,
			"error", genErr,
		)
		failed := &Result{Outcome: audit.OutcomeFailed, Category: category, Verdict: verdict, LowConfidence: degraded}
		s.record(ctx, question, now, failed, genErr.Error())
		s.metrics.IncrementOutcome(string(audit.OutcomeFailed), string(category))
		return nil, dErrors.Wrap(dErrors.CodeBadGateway, "brief generation unavailable", genErr)
	}

	result := &Result{
		Outcome:       audit.OutcomeBrief,
		Category:      category,
		Verdict:       verdict,
		Brief:         brief,
		LowConfidence: degraded,
	}
	s.record(ctx, question, now, result, "")
	s.finish(ctx, span, requestID, result, start)
	return result, nil
}

// retrieve calls the context searcher, degrading to empty context on any
// failure. The second return value reports degradation (including a missing
// searcher and an empty result set).
func (s *Service) retrieve(ctx context.Context, question string) ([]string, bool) {
	if s.searcher == nil {
		return nil, true
	}

	start := time.Now()
	excerpts, err := s.searcher.Search(ctx, question, s.topK)
	s.metrics.ObserveCollaboratorLatency("retriever", time.Since(start))

	if err != nil {
		s.metrics.IncrementRetrievalDegraded()
		s.logger.WarnContext(ctx, "retrieval degraded, proceeding with empty context",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil, true
	}
	if len(excerpts) == 0 {
		s.metrics.IncrementRetrievalDegraded()
		return nil, true
	}

	texts := make([]string, 0, len(excerpts))
	for _, e := range excerpts {
		texts = append(texts, e.Text)
	}
	return texts, false
}

// record constructs the decision record and appends it. Append failure is
// logged and counted but never blocks the user-facing answer. The record is
// fully constructed before the append: it lands whole or not at all.
func (s *Service) record(ctx context.Context, question string, now time.Time, result *Result, failure string) {
	rec := audit.DecisionRecord{
		ID:            uuid.New(),
		Question:      question,
		Category:      result.Category,
		Timestamp:     now,
		Outcome:       result.Outcome,
		Verdict:       result.Verdict,
		Brief:         result.Brief,
		LowConfidence: result.LowConfidence,
		Failure:       failure,
	}
	if err := s.recorder.Append(ctx, rec); err != nil {
		s.metrics.IncrementAuditWriteFailure()
		s.logger.ErrorContext(ctx, "audit append failed",
			"request_id", requestcontext.RequestID(ctx),
			"record_id", rec.ID,
			"outcome", rec.Outcome,
			"error", err,
		)
	}
}

func (s *Service) finish(ctx context.Context, span trace.Span, requestID string, result *Result, start time.Time) {
	span.SetAttributes(attribute.String("analysis.outcome", string(result.Outcome)))
	s.metrics.IncrementOutcome(string(result.Outcome), string(result.Category))
	s.metrics.ObserveAnalyzeLatency(time.Since(start))
	s.logger.InfoContext(ctx, "question analyzed",
		"request_id", requestID,
		"category", result.Category,
		"outcome", result.Outcome,
		"violations", len(result.Verdict.Violations),
		"low_confidence", result.LowConfidence,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
