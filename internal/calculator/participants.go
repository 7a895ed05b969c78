package calculator

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// NamePolicy decides when two participant spellings are the same person.
type NamePolicy string

const (
	// NameStrict treats names as typed, after trimming surrounding space.
	// "Alice" and "alice" are two people.
	NameStrict NamePolicy = "strict"

	// NameCaseFold folds case and collapses inner whitespace, so
	// "Alice", "alice" and "ALICE" are one person.
	NameCaseFold NamePolicy = "casefold"
)

// ParseNamePolicy maps a config string to a NamePolicy. Empty means strict.
func ParseNamePolicy(s string) (NamePolicy, error) {
	switch NamePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", NameStrict:
		return NameStrict, nil
	case NameCaseFold:
		return NameCaseFold, nil
	default:
		return "", fmt.Errorf("unknown name policy %q", s)
	}
}

// Key returns the identity key for name under the policy.
func (p NamePolicy) Key(name string) string {
	name = strings.TrimSpace(name)
	if p != NameCaseFold {
		return name
	}
	// Casers carry state, so each call gets its own.
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

// ParseParticipants splits a comma-separated list of names.
// Each name is trimmed and empty names are dropped. Order is kept and
// duplicates are not removed.
func ParseParticipants(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
