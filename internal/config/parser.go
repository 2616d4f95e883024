// Package config resolves, parses, validates, and defaults dictate
// configuration.
package config

import "strings"

// Parse reads configuration content as JSONC. An empty document validates
// base as-is, so a config file containing only comments is equivalent to
// one that doesn't exist.
func Parse(content string, base Config) (Config, []Warning, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}
	if strings.TrimSpace(normalized) == "" {
		validatedWarnings, err := Validate(base)
		if err != nil {
			return Config{}, nil, err
		}
		return base, validatedWarnings, nil
	}

	return parseJSONC(content, base)
}
