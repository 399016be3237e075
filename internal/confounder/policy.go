// Package confounder decides whether recent organizational change events make
// a decision question causally unsafe to analyze. Detection is a pure
// function over one ledger snapshot and a washout policy table.
package confounder

import (
	"errors"
	"fmt"
	"sort"

	"causeway/internal/ledger"
)

// ErrNoWashoutPolicy signals a ledger category with no washout window and no
// configured fallback. This is a configuration error and must fail startup,
// never be defaulted away per request.
var ErrNoWashoutPolicy = errors.New("no washout policy for category")

// Policy maps event categories to minimum washout durations in days. It is a
// single injectable table so tests can override windows without touching
// detection logic.
type Policy struct {
	windows      map[ledger.Category]int
	fallbackDays int
}

// NewPolicy builds a policy from an explicit window table plus a fallback for
// categories absent from the table. fallbackDays <= 0 disables the fallback.
func NewPolicy(windows map[ledger.Category]int, fallbackDays int) Policy {
	copied := make(map[ledger.Category]int, len(windows))
	for c, d := range windows {
		copied[c] = d
	}
	return Policy{windows: copied, fallbackDays: fallbackDays}
}

// DefaultFallbackDays is applied to categories without an explicit window
// unless overridden in configuration.
const DefaultFallbackDays = 14

// DefaultPolicy returns the standard washout table.
func DefaultPolicy(fallbackDays int) Policy {
	return NewPolicy(map[ledger.Category]int{
		ledger.CategoryPricing:           14,
		ledger.CategoryOnboarding:        21,
		ledger.CategorySupportSLA:        60,
		ledger.CategoryMarketingCampaign: 30,
	}, fallbackDays)
}

// WashoutDays returns the washout window for a category, falling back when
// the table has no explicit entry.
func (p Policy) WashoutDays(c ledger.Category) (int, error) {
	if days, ok := p.windows[c]; ok {
		return days, nil
	}
	if p.fallbackDays > 0 {
		return p.fallbackDays, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrNoWashoutPolicy, c)
}

// Validate checks that every category present in the ledger has a washout
// window. Call at startup so category gaps fail fast instead of per request.
func (p Policy) Validate(events []ledger.ChangeEvent) error {
	seen := map[ledger.Category]bool{}
	var missing []string
	for _, e := range events {
		if seen[e.Category] {
			continue
		}
		seen[e.Category] = true
		if _, err := p.WashoutDays(e.Category); err != nil {
			missing = append(missing, string(e.Category))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %v", ErrNoWashoutPolicy, missing)
	}
	return nil
}
