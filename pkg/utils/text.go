// Package utils holds small helpers shared across packages: logger
// construction, vector math, and string shortening for case labels.
package utils

// Truncate shortens s to at most max runes, appending "..." when anything
// was cut. Non-positive max returns s unchanged.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
