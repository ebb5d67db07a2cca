package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lewisaaronpaul/covid-dashboard/internal/domain"
)

// LoadRules reads the region normalization rules. An empty path selects the
// built-in rules for the JHU global files. Keys absent from the file keep
// their built-in values.
func LoadRules(path string) (domain.Rules, error) {
	rules := domain.DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Rules{}, fmt.Errorf("read rules file: %w", err)
	}

	var override domain.Rules
	if err := yaml.Unmarshal(data, &override); err != nil {
		return domain.Rules{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	if override.PromoteSubRegions != nil {
		rules.PromoteSubRegions = override.PromoteSubRegions
	}
	if override.PromoteParents != nil {
		rules.PromoteParents = override.PromoteParents
	}
	if override.Aliases != nil {
		rules.Aliases = override.Aliases
	}
	if override.ImputeCountries != nil {
		rules.ImputeCountries = override.ImputeCountries
	}

	if err := rules.Validate(); err != nil {
		return domain.Rules{}, fmt.Errorf("rules file %s: %w", path, err)
	}
	return rules, nil
}
