package detail

import (
	"regexp"
	"sort"
	"strings"

	swrn "github.com/nevindra/swrn"
)

// sectionDef binds a labeled narrative section to its Detail field.
type sectionDef struct {
	label  string
	assign func(*swrn.Detail, string)
}

var sectionDefs = []sectionDef{
	{"Issue Description", func(d *swrn.Detail, v string) { d.IssueDescription = v }},
	{"Affected Function", func(d *swrn.Detail, v string) { d.AffectedFunction = v }},
	{"Root Cause", func(d *swrn.Detail, v string) { d.RootCause = v }},
	{"Component", func(d *swrn.Detail, v string) { d.Component = v }},
	{"Module", func(d *swrn.Detail, v string) { d.Module = v }},
	{"History", func(d *swrn.Detail, v string) { d.History = v }},
	{"Benefits", func(d *swrn.Detail, v string) { d.Benefits = v }},
	{"Solution", func(d *swrn.Detail, v string) { d.Solution = v }},
	{"Description", func(d *swrn.Detail, v string) { d.Description = v }},
}

// boundaryLabels end the preceding narrative section without carrying a
// field of their own (the change tables are parsed separately).
var boundaryLabels = []string{
	"CV Changes", "Changed CVs",
	"Factory Automation Changes", "FA Changes",
	"Recipe Parameter Changes",
	"UI Changes", "User Interface Changes",
	"Alarm Changes", "New Alarms",
}

// labelRe anchors a label at line start so "Description" cannot fire
// inside an "Issue Description" line. An optional colon and same-line
// value follow.
func labelRe(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t]*` + strings.ReplaceAll(label, " ", `[ \t]+`) + `\b[ \t]*:?[ \t]*`)
}

var (
	sectionRes  = make(map[string]*regexp.Regexp, len(sectionDefs))
	boundaryRes = make([]*regexp.Regexp, len(boundaryLabels))
	collapseRe  = regexp.MustCompile(`\s+`)
)

func init() {
	for _, s := range sectionDefs {
		sectionRes[s.label] = labelRe(s.label)
	}
	for i, l := range boundaryLabels {
		boundaryRes[i] = labelRe(l)
	}
}

// applySections splits text at line-anchored labels and assigns each
// label's body (everything up to the next label) to its Detail field.
// The first occurrence of each label wins.
func applySections(d *swrn.Detail, text string) {
	type mark struct {
		label     string // empty for boundary-only marks
		start     int
		bodyStart int
	}
	var marks []mark
	for _, s := range sectionDefs {
		for _, loc := range sectionRes[s.label].FindAllStringIndex(text, -1) {
			marks = append(marks, mark{s.label, loc[0], loc[1]})
		}
	}
	for _, re := range boundaryRes {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			marks = append(marks, mark{"", loc[0], loc[1]})
		}
	}
	sort.SliceStable(marks, func(i, j int) bool { return marks[i].start < marks[j].start })

	// when two labels share a start (one prefixes the other), keep the
	// one registered first: sectionDefs order puts the longer label first
	deduped := marks[:0]
	for _, m := range marks {
		if len(deduped) > 0 && deduped[len(deduped)-1].start == m.start {
			continue
		}
		deduped = append(deduped, m)
	}
	marks = deduped

	assigns := make(map[string]func(*swrn.Detail, string), len(sectionDefs))
	for _, s := range sectionDefs {
		assigns[s.label] = s.assign
	}
	assigned := make(map[string]bool)

	for i, m := range marks {
		if m.label == "" || assigned[m.label] {
			continue
		}
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		body := strings.TrimSpace(collapseRe.ReplaceAllString(text[m.bodyStart:end], " "))
		if body == "" {
			continue
		}
		assigns[m.label](d, body)
		assigned[m.label] = true
	}
}
