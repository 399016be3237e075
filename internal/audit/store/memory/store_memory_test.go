package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"causeway/internal/audit"
	"causeway/internal/ledger"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	base  time.Time
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
	s.base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) record(outcome audit.Outcome, at time.Time) audit.DecisionRecord {
	return audit.DecisionRecord{
		ID:        uuid.New(),
		Question:  "should we change the plan price?",
		Category:  ledger.CategoryPricing,
		Timestamp: at,
		Outcome:   outcome,
	}
}

func (s *MemoryStoreSuite) TestAppendAndQuery() {
	s.Run("returns records in insertion order", func() {
		first := s.record(audit.OutcomeWait, s.base)
		second := s.record(audit.OutcomeBrief, s.base.Add(time.Hour))
		s.Require().NoError(s.store.Append(s.ctx, first))
		s.Require().NoError(s.store.Append(s.ctx, second))

		records, err := s.store.Query(s.ctx, audit.Filter{})
		s.Require().NoError(err)
		s.Require().Len(records, 2)
		s.Equal(first.ID, records[0].ID)
		s.Equal(second.ID, records[1].ID)
	})

	s.Run("empty store queries empty", func() {
		s.store.Clear()
		records, err := s.store.Query(s.ctx, audit.Filter{})
		s.Require().NoError(err)
		s.Empty(records)
	})
}

func (s *MemoryStoreSuite) TestFiltering() {
	s.Require().NoError(s.store.Append(s.ctx, s.record(audit.OutcomeWait, s.base)))
	s.Require().NoError(s.store.Append(s.ctx, s.record(audit.OutcomeBrief, s.base.Add(time.Hour))))
	s.Require().NoError(s.store.Append(s.ctx, s.record(audit.OutcomeFailed, s.base.Add(2*time.Hour))))

	s.Run("by outcome", func() {
		records, err := s.store.Query(s.ctx, audit.Filter{Outcome: audit.OutcomeBrief})
		s.Require().NoError(err)
		s.Require().Len(records, 1)
		s.Equal(audit.OutcomeBrief, records[0].Outcome)
	})

	s.Run("by time window", func() {
		records, err := s.store.Query(s.ctx, audit.Filter{
			From: s.base.Add(30 * time.Minute),
			To:   s.base.Add(90 * time.Minute),
		})
		s.Require().NoError(err)
		s.Require().Len(records, 1)
		s.Equal(audit.OutcomeBrief, records[0].Outcome)
	})

	s.Run("by limit", func() {
		records, err := s.store.Query(s.ctx, audit.Filter{Limit: 2})
		s.Require().NoError(err)
		s.Len(records, 2)
	})
}
