package project

import (
	"fmt"
	"strings"

	"github.com/devdeck/devdeck/internal/domain"
)

// restrictedDefaults are substrings never allowed in a project script.
var restrictedDefaults = []string{
	"rm -rf",
	"sudo",
	"chmod",
	"chown",
	"> /dev/null",
	"/etc/passwd",
	"/etc/shadow",
}

// RestrictedDefaults returns a copy of the built-in restricted substring list.
func RestrictedDefaults() []string {
	return append([]string(nil), restrictedDefaults...)
}

// ValidateScript rejects script commands containing a restricted substring.
// Matching is case-insensitive. An empty restricted list falls back to the
// built-in defaults.
func ValidateScript(command string, restricted []string) error {
	if strings.TrimSpace(command) == "" {
		return fmt.Errorf("script command is empty: %w", domain.ErrValidation)
	}
	if len(restricted) == 0 {
		restricted = restrictedDefaults
	}
	lowered := strings.ToLower(command)
	for _, term := range restricted {
		if term == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(term)) {
			return fmt.Errorf("script contains restricted term %q: %w", term, domain.ErrValidation)
		}
	}
	return nil
}
