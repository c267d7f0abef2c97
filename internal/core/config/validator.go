package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"arrowstyle/internal/core/errors"

	"github.com/gobwas/glob"
	"github.com/xeipuuv/gojsonschema"
)

// Validate runs every structural check on a loaded config.
func Validate(cfg *Config) error {
	checks := []func(*Config) error{
		validateVersion,
		validatePatterns,
		validateFixPasses,
		validateFormatter,
		validateCache,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return errors.Wrap(err, errors.CodeValidationError, "invalid config")
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validatePatterns(cfg *Config) error {
	for _, group := range []struct {
		name     string
		patterns []string
	}{{"include", cfg.Include}, {"exclude", cfg.Exclude}} {
		for _, p := range group.patterns {
			if _, err := glob.Compile(p, '/'); err != nil {
				return fmt.Errorf("%s pattern %q: %w", group.name, p, err)
			}
		}
	}
	return nil
}

func validateFixPasses(cfg *Config) error {
	if cfg.MaxFixPasses > 100 {
		return fmt.Errorf("max_fix_passes must be between 1 and 100, got %d", cfg.MaxFixPasses)
	}
	return nil
}

func validateFormatter(cfg *Config) error {
	if cfg.Formatter.Timeout < 100*time.Millisecond || cfg.Formatter.Timeout > time.Minute {
		return fmt.Errorf("formatter.timeout must be between 100ms and 1m")
	}
	return nil
}

func validateCache(cfg *Config) error {
	if cfg.CacheEnabled() && strings.TrimSpace(cfg.Cache.Path) == "" {
		return fmt.Errorf("cache.path must not be empty when the cache is enabled")
	}
	return nil
}

// OptionWarning describes a rule option that failed its schema and was dropped.
type OptionWarning struct {
	Rule    string
	Field   string
	Message string
}

func (w OptionWarning) String() string {
	return fmt.Sprintf("%s: option %s: %s", w.Rule, w.Field, w.Message)
}

// ValidateRuleOptions checks options against a rule's JSON schema. Fields that
// fail are removed from the returned map so the rule falls back to its
// defaults. Unknown enum values are reported but kept: rules treat them as
// the choice that forces nothing. A schema that cannot be compiled leaves the
// options untouched.
func ValidateRuleOptions(rule, schema string, options map[string]any) (map[string]any, []OptionWarning) {
	if len(options) == 0 || strings.TrimSpace(schema) == "" {
		return options, nil
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewGoLoader(options))
	if err != nil {
		return options, []OptionWarning{{Rule: rule, Field: "(schema)", Message: err.Error()}}
	}
	if result.Valid() {
		return options, nil
	}

	cleaned := make(map[string]any, len(options))
	for k, v := range options {
		cleaned[k] = v
	}
	var warnings []OptionWarning
	for _, re := range result.Errors() {
		field := topLevelField(re.Field())
		warnings = append(warnings, OptionWarning{Rule: rule, Field: field, Message: re.Description()})
		switch {
		case field == "(root)":
			return map[string]any{}, warnings
		case re.Type() == "enum":
		default:
			delete(cleaned, field)
		}
	}
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].Field < warnings[j].Field })
	return cleaned, warnings
}

func topLevelField(field string) string {
	if i := strings.IndexByte(field, '.'); i > 0 {
		return field[:i]
	}
	return field
}
