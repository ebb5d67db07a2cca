package domain

import (
	"fmt"
	"slices"
	"sort"
)

// Rules is the declarative region-naming configuration applied before
// aggregation. See Normalize and Impute.
type Rules struct {
	// PromoteSubRegions lists sub-region labels that replace their country.
	PromoteSubRegions []string `yaml:"promote_sub_regions"`

	// PromoteParents lists countries whose sub-regions are reported as
	// countries in their own right.
	PromoteParents []string `yaml:"promote_parents"`

	// Aliases rewrites raw country labels to canonical ones after promotion.
	Aliases map[string]string `yaml:"aliases"`

	// ImputeCountries lists countries whose missing coordinates are filled
	// with the country mean.
	ImputeCountries []string `yaml:"impute_countries"`
}

// DefaultRules returns the rule set for the JHU CSSE global files.
func DefaultRules() Rules {
	return Rules{
		PromoteSubRegions: []string{"Diamond Princess", "Grand Princess", "Tibet"},
		PromoteParents:    []string{"Denmark", "France", "Netherlands", "New Zealand", "United Kingdom"},
		Aliases: map[string]string{
			"US":               "USA",
			"Korea, South":     "South Korea",
			"Korea, North":     "North Korea",
			"Taiwan*":          "Taiwan",
			"Burma":            "Myanmar",
			"Holy See":         "Vatican City",
			"Diamond Princess": "Cruise Ship",
			"MS Zaandam":       "Cruise Ship",
			"Grand Princess":   "Cruise Ship",
		},
		ImputeCountries: []string{"Canada", "China"},
	}
}

// Validate rejects alias chains: a canonical label that is itself rewritten
// would make normalization non-idempotent.
func (r Rules) Validate() error {
	var chained []string
	for from, to := range r.Aliases {
		if from == "" || to == "" {
			return fmt.Errorf("alias %q -> %q: empty label", from, to)
		}
		if next, ok := r.Aliases[to]; ok && next != to {
			chained = append(chained, fmt.Sprintf("%s -> %s -> %s", from, to, next))
		}
	}
	if len(chained) > 0 {
		sort.Strings(chained)
		return fmt.Errorf("alias chains not allowed: %v", chained)
	}
	return nil
}

func (r Rules) promotes(o MergedObservation) bool {
	if o.SubRegion == "" {
		return false
	}
	return slices.Contains(r.PromoteSubRegions, o.SubRegion) || slices.Contains(r.PromoteParents, o.Region)
}
