package extract

import (
	"regexp"
	"strings"

	swrn "github.com/nevindra/swrn"
)

// contextLen is how many characters of context are kept after a PR match.
const contextLen = 300

var (
	// five-level dotted section header, e.g. "6.1.2.3.4. PR-123456: Title".
	// Section 5.* lists features, 6.* lists bug fixes.
	sectionPRRe = regexp.MustCompile(`(\d+\.\d+\.\d+\.\d+\.\d+)\.?\s*PR[-\s]?(\d{6})\s*[:\-]`)

	// fallback: a PR citation at line start followed by real title text.
	linePRRe = regexp.MustCompile(`(?m)^[ \t]*PR[-\s]?(\d{6})\s*[:\-][ \t]*(\S.{9,})`)

	spaceRe = regexp.MustCompile(`\s+`)
)

// backrefPhrases mark a PR citation as a back-reference from another PR's
// detail text rather than a definition. Checked in the ~100 chars before
// the match.
var backrefPhrases = []string{
	"history", "description", "see pr", "related pr", "duplicate",
	"fixed in", "introduced in", "caused by", "root cause",
}

// FindOccurrences scans one page's text for PR definitions. Section-header
// matches win over fallback line matches; each PR is reported at most once
// per page.
func FindOccurrences(text string) []swrn.Occurrence {
	var out []swrn.Occurrence
	seen := make(map[string]bool)

	for _, m := range sectionPRRe.FindAllStringSubmatchIndex(text, -1) {
		section := text[m[2]:m[3]]
		pr := text[m[4]:m[5]]
		if seen[pr] {
			continue
		}
		seen[pr] = true

		typ := swrn.PRUnknown
		switch {
		case strings.HasPrefix(section, "5."):
			typ = swrn.PRFeature
		case strings.HasPrefix(section, "6."):
			typ = swrn.PRBugFix
		}
		out = append(out, swrn.Occurrence{
			PR:      pr,
			Context: snippet(text, m[0]),
			Type:    typ,
		})
	}

	for _, m := range linePRRe.FindAllStringSubmatchIndex(text, -1) {
		pr := text[m[2]:m[3]]
		if seen[pr] || isBackReference(text, m[0]) {
			continue
		}
		seen[pr] = true
		out = append(out, swrn.Occurrence{
			PR:      pr,
			Context: snippet(text, m[0]),
			Type:    DetectType(window(text, m[0])),
		})
	}
	return out
}

// snippet keeps up to contextLen chars from the match with whitespace
// collapsed.
func snippet(text string, pos int) string {
	end := pos + contextLen
	if end > len(text) {
		end = len(text)
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(text[pos:end], " "))
}

// window returns a slice of text around pos used for type detection.
func window(text string, pos int) string {
	end := pos + 600
	if end > len(text) {
		end = len(text)
	}
	return text[pos:end]
}

// isBackReference reports whether the ~100 chars before pos contain a
// phrase indicating this citation points back at an earlier PR.
func isBackReference(text string, pos int) bool {
	start := pos - 100
	if start < 0 {
		start = 0
	}
	before := strings.ToLower(text[start:pos])
	for _, p := range backrefPhrases {
		if strings.Contains(before, p) {
			return true
		}
	}
	return false
}
