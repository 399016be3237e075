//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"causeway/internal/audit"
	"causeway/internal/audit/store/postgres"
	"causeway/internal/confounder"
	"causeway/internal/ledger"
)

type PostgresStoreSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *sql.DB
	store     *postgres.Store
	base      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("causeway_test"),
		tcpostgres.WithUsername("causeway"),
		tcpostgres.WithPassword("causeway"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sql.Open("pgx", dsn)
	s.Require().NoError(err)
	s.db = db

	s.store = postgres.New(db)
	s.Require().NoError(s.store.EnsureSchema(ctx))
	s.base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	ctx := context.Background()
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(ctx)
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.db.ExecContext(context.Background(), "TRUNCATE decision_log")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) record(outcome audit.Outcome, at time.Time) audit.DecisionRecord {
	return audit.DecisionRecord{
		ID:        uuid.New(),
		Question:  "should we change the plan price?",
		Category:  ledger.CategoryPricing,
		Timestamp: at,
		Outcome:   outcome,
		Verdict: confounder.Verdict{
			Safe: outcome != audit.OutcomeWait,
			Violations: []confounder.Violation{{
				Event: ledger.ChangeEvent{
					Category:    ledger.CategoryPricing,
					Date:        ledger.Date(at.AddDate(0, 0, -3)),
					Description: "enterprise tier repriced",
				},
				DaysElapsed:     3,
				WashoutRequired: 14,
			}},
		},
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	rec := s.record(audit.OutcomeWait, s.base)
	rec.LowConfidence = true
	s.Require().NoError(s.store.Append(ctx, rec))

	records, err := s.store.Query(ctx, audit.Filter{})
	s.Require().NoError(err)
	s.Require().Len(records, 1)

	got := records[0]
	s.Equal(rec.ID, got.ID)
	s.Equal(rec.Question, got.Question)
	s.Equal(ledger.CategoryPricing, got.Category)
	s.Equal(audit.OutcomeWait, got.Outcome)
	s.True(got.Timestamp.Equal(rec.Timestamp))
	s.True(got.LowConfidence)
	s.Require().Len(got.Verdict.Violations, 1)
	s.Equal(3, got.Verdict.Violations[0].DaysElapsed)
	s.Equal(14, got.Verdict.Violations[0].WashoutRequired)
}

func (s *PostgresStoreSuite) TestDuplicateAppendIsIgnored() {
	ctx := context.Background()
	rec := s.record(audit.OutcomeBrief, s.base)

	s.Require().NoError(s.store.Append(ctx, rec))
	s.Require().NoError(s.store.Append(ctx, rec))

	records, err := s.store.Query(ctx, audit.Filter{})
	s.Require().NoError(err)
	s.Len(records, 1)
}

func (s *PostgresStoreSuite) TestFiltering() {
	ctx := context.Background()
	s.Require().NoError(s.store.Append(ctx, s.record(audit.OutcomeWait, s.base)))
	s.Require().NoError(s.store.Append(ctx, s.record(audit.OutcomeBrief, s.base.Add(time.Hour))))
	s.Require().NoError(s.store.Append(ctx, s.record(audit.OutcomeFailed, s.base.Add(2*time.Hour))))

	s.Run("by outcome", func() {
		records, err := s.store.Query(ctx, audit.Filter{Outcome: audit.OutcomeFailed})
		s.Require().NoError(err)
		s.Require().Len(records, 1)
		s.Equal(audit.OutcomeFailed, records[0].Outcome)
	})

	s.Run("by time window", func() {
		records, err := s.store.Query(ctx, audit.Filter{
			From: s.base.Add(30 * time.Minute),
			To:   s.base.Add(90 * time.Minute),
		})
		s.Require().NoError(err)
		s.Require().Len(records, 1)
		s.Equal(audit.OutcomeBrief, records[0].Outcome)
	})

	s.Run("insertion order with limit", func() {
		records, err := s.store.Query(ctx, audit.Filter{Limit: 2})
		s.Require().NoError(err)
		s.Require().Len(records, 2)
		s.Equal(audit.OutcomeWait, records[0].Outcome)
		s.Equal(audit.OutcomeBrief, records[1].Outcome)
	})
}

func (s *PostgresStoreSuite) TestHealth() {
	s.NoError(s.store.Health(context.Background()))
}
