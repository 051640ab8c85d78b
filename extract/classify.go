package extract

import (
	"strings"

	swrn "github.com/nevindra/swrn"
)

// Phrase lists used to classify a PR's text when no section header gives
// the type away. Matched case-insensitively.
var (
	featurePhrases = []string{
		"new feature",
		"enhancement",
		"functionality has been added",
		"has been implemented",
		"new capability",
		"feature description",
		"benefits",
	}
	bugPhrases = []string{
		"issue description",
		"root cause",
		"the problem",
		"has been fixed",
		"has been corrected",
		"has been resolved",
		"defect",
		"malfunction",
	}
)

// DetectType classifies PR text as feature or bug_fix from indicator
// phrases. Unknown when neither list clearly dominates.
func DetectType(text string) swrn.PRType {
	low := strings.ToLower(text)
	var feat, bug int
	for _, p := range featurePhrases {
		feat += strings.Count(low, p)
	}
	for _, p := range bugPhrases {
		bug += strings.Count(low, p)
	}
	switch {
	case bug > feat:
		return swrn.PRBugFix
	case feat > bug:
		return swrn.PRFeature
	}
	return swrn.PRUnknown
}
