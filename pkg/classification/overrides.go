package classification

import (
	"fmt"
	"regexp"

	"github.com/mitchellh/mapstructure"

	"github.com/FormVault/formvault/pkg/domain/classification"
)

// OverrideSettings is the per-tenant rule extension decoded from a stored
// settings map. Custom key patterns are checked before the built-in chain.
type OverrideSettings struct {
	KeyPatterns []struct {
		Name       string  `mapstructure:"name"`
		Pattern    string  `mapstructure:"pattern"`
		Class      string  `mapstructure:"class"`
		Confidence float64 `mapstructure:"confidence"`
	} `mapstructure:"key_patterns"`
}

// WithOverrides returns a copy of the config with the tenant's custom key
// rules prepended. The receiver is never mutated.
func (c Config) WithOverrides(settings map[string]interface{}) (Config, error) {
	var overrides OverrideSettings
	if err := mapstructure.Decode(settings, &overrides); err != nil {
		return Config{}, fmt.Errorf("failed to decode override settings: %w", err)
	}

	custom := make([]KeyRule, 0, len(overrides.KeyPatterns))
	for _, kp := range overrides.KeyPatterns {
		re, err := regexp.Compile(kp.Pattern)
		if err != nil {
			return Config{}, fmt.Errorf("invalid override pattern '%s': %w", kp.Pattern, err)
		}
		class := classification.Class(kp.Class)
		if !class.Valid() {
			return Config{}, fmt.Errorf("invalid override class '%s'", kp.Class)
		}
		confidence := kp.Confidence
		if confidence <= 0 || confidence > 1 {
			confidence = 0.9
		}
		custom = append(custom, KeyRule{
			Name:       kp.Name,
			Pattern:    re,
			Class:      class,
			Confidence: confidence,
		})
	}

	out := c
	out.KeyRules = append(custom, c.KeyRules...)
	return out, nil
}
