package swrn

import "strings"

// NormalizePR strips "PR" prefixes and separators from a PR reference,
// leaving the bare six-digit number: "PR-654321" -> "654321".
func NormalizePR(pr string) string {
	pr = strings.TrimSpace(pr)
	pr = strings.TrimPrefix(strings.TrimPrefix(pr, "PR"), "pr")
	return strings.TrimLeft(pr, "-_ ")
}
