// Package ledger holds the immutable collection of dated organizational
// change events the confounder engine scans. Events are loaded once at
// startup; replacing them requires an explicit snapshot swap so readers never
// observe a partially updated ledger.
package ledger

import (
	"fmt"
	"strings"
	"time"
)

// Category classifies an organizational change event.
type Category string

const (
	CategoryPricing           Category = "pricing"
	CategoryOnboarding        Category = "onboarding"
	CategorySupportSLA        Category = "support_sla"
	CategoryMarketingCampaign Category = "marketing_campaign"
	CategoryProduct           Category = "product"
	CategoryOther             Category = "other"

	// CategoryUnspecified is a question scope, never an event category. It
	// widens confounder detection to every event in the ledger.
	CategoryUnspecified Category = "unspecified"
)

var knownCategories = map[Category]bool{
	CategoryPricing:           true,
	CategoryOnboarding:        true,
	CategorySupportSLA:        true,
	CategoryMarketingCampaign: true,
	CategoryProduct:           true,
	CategoryOther:             true,
}

// ParseCategory normalizes a source-data category string. Unknown values are
// preserved verbatim (lowercased) rather than coerced to "other" so the
// washout policy validation can flag categories it has no window for.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	return c
}

// Known reports whether the category is one of the defined event categories.
func (c Category) Known() bool {
	return knownCategories[c]
}

// ChangeEvent is one dated organizational change. Immutable after ingestion.
type ChangeEvent struct {
	Category    Category  `json:"category"`
	Date        time.Time `json:"date"` // calendar date at UTC midnight, no time-of-day
	Description string    `json:"description"`
}

func (e ChangeEvent) String() string {
	return fmt.Sprintf("%s %s: %s", e.Date.Format(DateLayout), e.Category, e.Description)
}

// DateLayout is the calendar date format used by the events source file.
const DateLayout = "2006-01-02"

// Date truncates t to its calendar date at UTC midnight.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b. Both
// arguments are normalized to UTC midnight first, so the result is negative
// when b precedes a and exact at day granularity.
func DaysBetween(a, b time.Time) int {
	return int(Date(b).Sub(Date(a)) / (24 * time.Hour))
}
