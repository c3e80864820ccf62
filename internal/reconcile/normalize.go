package reconcile

import "strings"

// NormalizeName canonicalizes an element name for comparison: lowercase,
// leading/trailing whitespace removed, inner whitespace runs collapsed to a
// single space.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
