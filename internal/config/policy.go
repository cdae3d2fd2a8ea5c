package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

// LoadScoringPolicy returns the default policy with any keys present in the
// YAML file at path laid over it. An empty path yields the defaults.
func LoadScoringPolicy(path string) (domain.ScoringPolicy, error) {
	policy := domain.DefaultScoringPolicy()
	if path == "" {
		return policy, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.ScoringPolicy{}, fmt.Errorf("read scoring policy %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return domain.ScoringPolicy{}, domain.WrapError(domain.ErrInvalidInput, "parse scoring policy", err)
	}
	if err := policy.Validate(); err != nil {
		return domain.ScoringPolicy{}, err
	}
	return policy, nil
}
