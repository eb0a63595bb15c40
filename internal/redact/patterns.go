package redact

import (
	"fmt"
	"regexp"
	"sort"
)

// Pattern is a named detector for one kind of sensitive value.
type Pattern struct {
	Name  string
	Regex *regexp.Regexp

	// Kind prefixes the placeholder, as in [EMAIL:1a2b].
	Kind string
}

var builtIn = map[string]Pattern{
	"ipv4": {
		Name:  "ipv4",
		Regex: regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`),
		Kind:  "IPV4",
	},
	"email": {
		Name:  "email",
		Regex: regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		Kind:  "EMAIL",
	},
	"api_key": {
		Name:  "api_key",
		Regex: regexp.MustCompile(`(?i)(?:api[_-]?key|apikey|token|secret|password|passwd|pwd)["\s]*[:=]["\s]*[a-zA-Z0-9_\-]{8,}`),
		Kind:  "SECRET",
	},
	"aws_key": {
		Name:  "aws_key",
		Regex: regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`),
		Kind:  "AWS_KEY",
	},
	"jwt": {
		Name:  "jwt",
		Regex: regexp.MustCompile(`\beyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*\b`),
		Kind:  "JWT",
	},
	"private_key": {
		Name:  "private_key",
		Regex: regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH )?PRIVATE KEY-----`),
		Kind:  "PRIVATE_KEY",
	},
	"credit_card": {
		Name:  "credit_card",
		Regex: regexp.MustCompile(`\b(?:\d{4}[-\s]?){3}\d{4}\b`),
		Kind:  "CC",
	},
}

// DefaultPatterns returns the pattern names enabled when none are configured.
func DefaultPatterns() []string {
	return []string{"ipv4", "email", "api_key", "aws_key", "jwt", "private_key"}
}

// PatternNames lists every built-in pattern name in sorted order.
func PatternNames() []string {
	names := make([]string, 0, len(builtIn))
	for name := range builtIn {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lookup resolves pattern names, rejecting unknown ones.
func lookup(names []string) ([]Pattern, error) {
	patterns := make([]Pattern, 0, len(names))
	for _, name := range names {
		p, ok := builtIn[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownPattern, name, PatternNames())
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}
