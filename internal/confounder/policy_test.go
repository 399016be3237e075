package confounder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"causeway/internal/ledger"
)

type PolicySuite struct {
	suite.Suite
}

func TestPolicySuite(t *testing.T) {
	suite.Run(t, new(PolicySuite))
}

func (s *PolicySuite) TestWashoutDays() {
	s.Run("explicit window wins over fallback", func() {
		p := DefaultPolicy(7)

		days, err := p.WashoutDays(ledger.CategorySupportSLA)
		s.Require().NoError(err)
		s.Equal(60, days)
	})

	s.Run("missing window falls back", func() {
		p := DefaultPolicy(7)

		days, err := p.WashoutDays(ledger.CategoryProduct)
		s.Require().NoError(err)
		s.Equal(7, days)
	})

	s.Run("missing window without fallback errors", func() {
		p := NewPolicy(map[ledger.Category]int{ledger.CategoryPricing: 14}, 0)

		_, err := p.WashoutDays(ledger.CategoryProduct)
		s.Require().ErrorIs(err, ErrNoWashoutPolicy)
	})
}

func (s *PolicySuite) TestValidate() {
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	s.Run("passes when every ledger category has a window", func() {
		p := DefaultPolicy(DefaultFallbackDays)
		events := []ledger.ChangeEvent{
			{Category: ledger.CategoryPricing, Date: date},
			{Category: ledger.CategoryProduct, Date: date},
		}

		s.NoError(p.Validate(events))
	})

	s.Run("reports every missing category sorted", func() {
		p := NewPolicy(map[ledger.Category]int{ledger.CategoryPricing: 14}, 0)
		events := []ledger.ChangeEvent{
			{Category: ledger.CategoryProduct, Date: date},
			{Category: ledger.CategoryOnboarding, Date: date},
			{Category: ledger.CategoryPricing, Date: date},
		}

		err := p.Validate(events)
		s.Require().ErrorIs(err, ErrNoWashoutPolicy)
		s.Contains(err.Error(), "[onboarding product]")
	})

	s.Run("empty ledger always validates", func() {
		p := NewPolicy(nil, 0)
		s.NoError(p.Validate(nil))
	})
}
