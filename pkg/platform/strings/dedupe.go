// Package strings normalizes free-text lists such as certificate
// competencies and fraud evidence before they are hashed or compared.
package strings

import "strings"

// DedupeAndTrim trims whitespace and drops empty and repeated entries,
// keeping the first occurrence of each value in order.
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// DedupeAndTrimLower additionally folds entries to lowercase, so values
// differing only in case collapse to one.
func DedupeAndTrimLower(values []string) []string {
	return dedupe(values, func(v string) string {
		return strings.ToLower(strings.TrimSpace(v))
	})
}

func dedupe(values []string, canon func(string) string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		c := canon(v)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
