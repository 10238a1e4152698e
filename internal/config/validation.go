package config

import (
	"regexp"
	"strings"
)

var yearPattern = regexp.MustCompile(`^[1-9][0-9]{3}$`)

// Dynamic token patterns that must not appear in configuration values.
var dynamicTokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[^}]+\}`),   // ${VAR}
	regexp.MustCompile(`\{\{[^}]*\}\}`), // {{VAR}}
}

// Validate checks the configuration for correctness.
func Validate(cfg *Config) error {
	var errs []ValidationError

	if cfg.Year != "" && !yearPattern.MatchString(strings.TrimSpace(cfg.Year)) {
		errs = append(errs, ValidationError{
			Field:   "year",
			Message: "must be a four-digit year",
			Value:   cfg.Year,
			Wrapped: ErrInvalidConfig,
		})
	}
	if strings.TrimSpace(cfg.Comment) == "" {
		errs = append(errs, ValidationError{
			Field:   "comment",
			Message: "must not be blank",
			Wrapped: ErrInvalidConfig,
		})
	}
	if strings.TrimSpace(cfg.Output) == "" {
		errs = append(errs, ValidationError{
			Field:   "output",
			Message: "must not be blank",
			Wrapped: ErrInvalidConfig,
		})
	}

	errs = append(errs, validateDynamicTokens(cfg)...)

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// validateDynamicTokens rejects values that would smuggle template syntax
// into rendered license text.
func validateDynamicTokens(cfg *Config) []ValidationError {
	var errs []ValidationError
	for _, f := range []struct{ name, value string }{
		{"author", cfg.Author},
		{"organization", cfg.Organization},
		{"website", cfg.Website},
		{"project", cfg.Project},
	} {
		for _, re := range dynamicTokenPatterns {
			if re.MatchString(f.value) {
				errs = append(errs, ValidationError{
					Field:   f.name,
					Message: "contains unexpanded token",
					Value:   f.value,
					Wrapped: ErrDynamicToken,
				})
				break
			}
		}
	}
	return errs
}
