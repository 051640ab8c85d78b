package detail

import (
	"regexp"
	"strings"
)

var (
	boilerplateRe = regexp.MustCompile(`(?i)The software has been (?:changed|modified|updated|corrected)`)
	sectionNumRe  = regexp.MustCompile(`^\d+(\.\d+)*\.?$`)
	summaryStopRe = regexp.MustCompile(`\n\s*\n|PR[-\s]?\d{6}`)
)

// parseSummaryRow handles the positional summary-table layout where a row
// reads "<affected function> All PR-123456 The software has been changed
// to ...". PDF extraction flattens the table, so the affected-function
// cell is whatever precedes the PR cell on its line, minus "All" filler
// tokens; the solution cell is the boilerplate sentence that follows.
func parseSummaryRow(text, pr string) (affected, solution string) {
	cite := regexp.MustCompile(`PR[-\s]?` + regexp.QuoteMeta(pr) + `\b`)
	for _, loc := range cite.FindAllStringIndex(text, -1) {
		after := text[loc[1]:]
		m := boilerplateRe.FindStringIndex(after)
		if m == nil || m[0] > 40 {
			continue
		}
		return cellsBefore(text, loc[0]), clipSolution(after[m[0]:])
	}
	return "", ""
}

// cellsBefore collects the table cells preceding the PR cell on its line.
func cellsBefore(text string, pos int) string {
	lineStart := strings.LastIndexByte(text[:pos], '\n') + 1
	cells := strings.Fields(text[lineStart:pos])
	for len(cells) > 0 && strings.EqualFold(cells[len(cells)-1], "All") {
		cells = cells[:len(cells)-1]
	}
	for len(cells) > 0 && sectionNumRe.MatchString(cells[0]) {
		cells = cells[1:]
	}
	return strings.Join(cells, " ")
}

// clipSolution cuts the solution cell at the next row or paragraph break.
func clipSolution(s string) string {
	if m := summaryStopRe.FindStringIndex(s); m != nil {
		s = s[:m[0]]
	}
	if len(s) > 400 {
		s = s[:400]
	}
	return strings.TrimSpace(collapseRe.ReplaceAllString(s, " "))
}
