package catalog

import "time"

// Price tiers form a closed set; anything else is rejected at the import
// boundary instead of being stored as a free-form key.
const (
	TierNormal          = "normal"
	TierPremium         = "premium"
	TierPremiumStandard = "premium_standard"
	TierSubscription    = "subscription"
)

// ValidTier reports whether tier is one of the known pricing tiers.
func ValidTier(tier string) bool {
	switch tier {
	case TierNormal, TierPremium, TierPremiumStandard, TierSubscription:
		return true
	}
	return false
}

// PriceEntry is the price of one analysis at one provider for one tier.
// A re-import of the same (analysis, provider, tier) triple replaces the
// entry wholesale.
type PriceEntry struct {
	Amount               float64  `json:"amount"`
	Currency             string   `json:"currency"`
	PromotionalPrice     *float64 `json:"promotional_price,omitempty"`
	PromotionDescription string   `json:"promotion_description,omitempty"`
}

// PriceTable maps provider slug -> tier -> price entry.
type PriceTable map[string]map[string]PriceEntry

// Analysis is the canonical record for one medical test type.
// Name is unique across the catalog. AlternativeNames never contains Name
// itself but may overlap with other analyses; on ambiguous lookups the
// first match wins.
type Analysis struct {
	ID               string     `json:"id,omitempty"`
	Name             string     `json:"name"`
	AlternativeNames []string   `json:"alternative_names"`
	Category         string     `json:"category"`
	Description      string     `json:"description,omitempty"`
	Prices           PriceTable `json:"prices"`
	CreatedAt        time.Time  `json:"-"`
	UpdatedAt        time.Time  `json:"-"`
}

// ApplyPrice sets the price for a (provider, tier) pair, creating the
// provider bucket on first use. Last write wins.
func (a *Analysis) ApplyPrice(providerSlug, tier string, entry PriceEntry) {
	if entry.Currency == "" {
		entry.Currency = "RON"
	}
	if a.Prices == nil {
		a.Prices = make(PriceTable)
	}
	if a.Prices[providerSlug] == nil {
		a.Prices[providerSlug] = make(map[string]PriceEntry)
	}
	a.Prices[providerSlug][tier] = entry
}

// FilterProviders drops every price bucket whose provider slug is not in
// the allow list. Unknown slugs in the list are ignored. A nil or empty
// list leaves the table untouched.
func (a *Analysis) FilterProviders(allow []string) {
	if len(allow) == 0 || len(a.Prices) == 0 {
		return
	}
	filtered := make(PriceTable, len(allow))
	for _, slug := range allow {
		if tiers, ok := a.Prices[slug]; ok {
			filtered[slug] = tiers
		}
	}
	a.Prices = filtered
}

// Resolution is the answer to a catalog lookup. Found=false carries a
// placeholder shaped like a real analysis with an empty price table;
// a miss is a valid outcome, not an error.
type Resolution struct {
	Analysis
	Found bool `json:"found"`
}

// Placeholder builds the not-found resolution for a queried name.
func Placeholder(name string) Resolution {
	return Resolution{
		Analysis: Analysis{
			Name:             name,
			AlternativeNames: []string{},
			Category:         "unknown",
			Prices:           PriceTable{},
		},
		Found: false,
	}
}

// Suggestion is a response-shape projection produced by the ranker; it has
// no identity and is never persisted.
type Suggestion struct {
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	AlternativeNames []string `json:"alternative_names"`
}

// CategoryCount is one row of the category aggregation.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
