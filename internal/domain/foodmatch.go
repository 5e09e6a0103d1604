package domain

import "strings"

// MatchFood reports the first entry of foods that name contains or is
// contained by, compared case-insensitively. Blank entries never match.
func MatchFood(name string, foods []string) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return "", false
	}
	for _, f := range foods {
		f2 := strings.ToLower(strings.TrimSpace(f))
		if f2 == "" {
			continue
		}
		if strings.Contains(n, f2) || strings.Contains(f2, n) {
			return f, true
		}
	}
	return "", false
}
