// Package classify infers the topic category of a decision question. It is a
// pure keyword classifier: no I/O, no failure mode, degrading to the
// unspecified scope whenever the question is ambiguous so the confounder
// engine falls back to checking every category.
package classify

import (
	"strings"

	"causeway/internal/ledger"
)

// categoryKeywords maps trigger words to categories. A question matching
// words from exactly one category is scoped to it; zero or multiple matches
// degrade to unspecified.
var categoryKeywords = map[ledger.Category][]string{
	ledger.CategoryPricing:           {"pricing", "price", "discount", "plan", "subscription cost"},
	ledger.CategoryOnboarding:        {"onboarding", "signup", "sign-up", "activation", "trial", "first-run"},
	ledger.CategorySupportSLA:        {"support", "sla", "ticket", "response time", "csat"},
	ledger.CategoryMarketingCampaign: {"campaign", "marketing", "ads", "advertis", "promotion"},
	ledger.CategoryProduct:           {"feature", "product", "launch", "release", "rollout"},
}

// InferCategory returns the question's topic category, or
// ledger.CategoryUnspecified when no single category matches.
func InferCategory(question string) ledger.Category {
	q := strings.ToLower(question)

	matched := ledger.CategoryUnspecified
	hits := 0
	for category, keywords := range categoryKeywords {
		for _, kw := range keywords {
			if strings.Contains(q, kw) {
				matched = category
				hits++
				break
			}
		}
	}

	if hits != 1 {
		return ledger.CategoryUnspecified
	}
	return matched
}
