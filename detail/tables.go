package detail

import (
	"fmt"
	"regexp"
	"strings"

	swrn "github.com/nevindra/swrn"
)

// Change-table parsing. PDF extraction flattens table cells into runs of
// whitespace-separated tokens, so rows are reconstructed heuristically:
// a row ends at an action keyword, a row's name is the leading run of
// identifier-like tokens, and everything between is description.

var (
	actionWordRe = regexp.MustCompile(`(?i)^(modified|added|removed|new|deleted)$`)
	valuePairRe  = regexp.MustCompile(`(?i)\b(min|max|default)\s*=\s*([^\s,;]+)`)
	naPairRe     = regexp.MustCompile(`(?i)\bNA\s+NA\b`)
	rangeValRe   = regexp.MustCompile(`(?i)\brange\s*[:=]?\s*([0-9][0-9.]*\s*(?:-|–|to)\s*[0-9][0-9.]*)`)
	defaultValRe = regexp.MustCompile(`(?i)\bdefault\s*[:=]?\s*([^\s,;]+)`)
	prNumRe      = regexp.MustCompile(`\b\d{6}\b`)

	faIDRe    = regexp.MustCompile(`\b(CEID|SVID|DCID|VID)[-\s]?(\d+)\b`)
	alarmIDRe = regexp.MustCompile(`(?i)\balarm\s*(?:id)?\s*[:#]?\s*(\d{3,5})\b`)
	sevRe     = regexp.MustCompile(`(?i)\b(critical|major|minor|warning|info)\b`)
)

// descStartWords end the name run: anything after reads as prose.
var descStartWords = map[string]bool{
	"this": true, "the": true, "a": true, "an": true, "if": true,
	"when": true, "whether": true, "specifies": true, "sets": true,
	"controls": true, "enables": true, "disables": true,
	"determines": true, "indicates": true, "defines": true,
	"used": true, "allows": true, "shows": true, "displays": true,
	// "NA NA" value placeholders are cells, never name fragments
	"na": true,
}

// tableBody returns the text of the first table introduced by one of the
// given headings, ending at the next section or table label.
func tableBody(text string, headings ...string) string {
	for _, h := range headings {
		loc := labelRe(h).FindStringIndex(text)
		if loc == nil {
			continue
		}
		body := text[loc[1]:]
		return body[:nextLabelIdx(body)]
	}
	return ""
}

// nextLabelIdx finds the earliest following section or table label.
func nextLabelIdx(body string) int {
	end := len(body)
	for _, re := range sectionRes {
		if loc := re.FindStringIndex(body); loc != nil && loc[0] < end {
			end = loc[0]
		}
	}
	for _, re := range boundaryRes {
		if loc := re.FindStringIndex(body); loc != nil && loc[0] < end {
			end = loc[0]
		}
	}
	return end
}

// isNameToken reports whether tok looks like an identifier cell fragment:
// CamelCase, Capitalized, ALLCAPS, or underscored.
func isNameToken(tok string) bool {
	if tok == "" {
		return false
	}
	if strings.ContainsRune(tok, '_') {
		return true
	}
	c := tok[0]
	if c < 'A' || c > 'Z' {
		return false
	}
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// rowText is one reconstructed table row: the tokens before its action
// keyword, and the keyword itself.
type rowText struct {
	text   string
	action string
}

// splitRowsAtActions cuts the flattened body at action keywords.
func splitRowsAtActions(body string) []rowText {
	var rows []rowText
	var cur []string
	for _, tok := range strings.Fields(body) {
		word := strings.Trim(tok, ".,;:")
		if actionWordRe.MatchString(word) {
			if len(cur) > 0 {
				rows = append(rows, rowText{text: strings.Join(cur, " "), action: strings.ToLower(word)})
			}
			cur = nil
			continue
		}
		cur = append(cur, tok)
	}
	return rows
}

// splitNameDesc separates the leading identifier run from the prose that
// follows it.
func splitNameDesc(row string) (name, desc string) {
	tokens := strings.Fields(row)
	i := 0
	for ; i < len(tokens); i++ {
		word := strings.Trim(tokens[i], ".,;:")
		if descStartWords[strings.ToLower(word)] || !isNameToken(word) {
			break
		}
	}
	var names []string
	for _, t := range tokens[:i] {
		names = append(names, strings.Trim(t, ".,;:"))
	}
	return strings.Join(names, " "), strings.Join(tokens[i:], " ")
}

// citesOtherPR reports whether the row text mentions a six-digit PR other
// than pr. Such rows describe changes owned by a different PR and are
// dropped.
func citesOtherPR(row, pr string) bool {
	for _, n := range prNumRe.FindAllString(row, -1) {
		if n != pr {
			return true
		}
	}
	return false
}

// parseCVTable reconstructs the "CV Changes" table. Value cells appear as
// "min=X, max=Y, default=Z" runs or as "NA NA" placeholders.
func parseCVTable(text, pr string) []swrn.ChangeRow {
	body := tableBody(text, "CV Changes", "Changed CVs")
	if body == "" {
		return nil
	}
	var out []swrn.ChangeRow
	for _, row := range splitRowsAtActions(body) {
		if citesOtherPR(row.text, pr) {
			continue
		}
		name, desc := splitNameDesc(row.text)
		if name == "" {
			continue
		}
		cr := swrn.ChangeRow{Name: name, Action: row.action}
		if pairs := valuePairRe.FindAllStringSubmatch(desc, -1); len(pairs) > 0 {
			parts := make([]string, 0, len(pairs))
			for _, p := range pairs {
				parts = append(parts, strings.ToLower(p[1])+"="+p[2])
			}
			cr.NewValue = strings.Join(parts, ", ")
			desc = valuePairRe.ReplaceAllString(desc, "")
		} else if naPairRe.MatchString(desc) {
			cr.OldValue, cr.NewValue = "NA", "NA"
			desc = naPairRe.ReplaceAllString(desc, "")
		}
		cr.Description = strings.Trim(collapseRe.ReplaceAllString(desc, " "), " ,;")
		out = append(out, cr)
	}
	return out
}

// parseFATable reconstructs the factory automation table: CEID/SVID/DCID/
// VID ids with their descriptions.
func parseFATable(text string) []swrn.ChangeRow {
	body := tableBody(text, "Factory Automation Changes", "FA Changes")
	if body == "" {
		return nil
	}
	matches := faIDRe.FindAllStringSubmatchIndex(body, -1)
	var out []swrn.ChangeRow
	for i, m := range matches {
		end := len(body)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		desc := body[m[1]:end]
		action := ""
		if rows := splitRowsAtActions(desc); len(rows) == 1 && rows[0].action != "" {
			action = rows[0].action
			desc = rows[0].text
		}
		out = append(out, swrn.ChangeRow{
			Name:        fmt.Sprintf("%s-%s", strings.ToUpper(body[m[2]:m[3]]), body[m[4]:m[5]]),
			Description: strings.TrimSpace(collapseRe.ReplaceAllString(desc, " ")),
			Action:      action,
		})
	}
	return out
}

// parseRecipeTable reconstructs the recipe parameter table, capturing
// range and default cells when present.
func parseRecipeTable(text string) []swrn.ChangeRow {
	body := tableBody(text, "Recipe Parameter Changes")
	if body == "" {
		return nil
	}
	var out []swrn.ChangeRow
	for _, row := range splitRowsAtActions(body) {
		name, desc := splitNameDesc(row.text)
		if name == "" {
			continue
		}
		cr := swrn.ChangeRow{Name: name, Action: row.action}
		var vals []string
		if m := rangeValRe.FindStringSubmatch(desc); m != nil {
			vals = append(vals, "range "+collapseRe.ReplaceAllString(m[1], ""))
			desc = rangeValRe.ReplaceAllString(desc, "")
		}
		if m := defaultValRe.FindStringSubmatch(desc); m != nil {
			vals = append(vals, "default "+m[1])
			desc = defaultValRe.ReplaceAllString(desc, "")
		}
		cr.NewValue = strings.Join(vals, ", ")
		cr.Description = strings.Trim(collapseRe.ReplaceAllString(desc, " "), " ,;")
		out = append(out, cr)
	}
	return out
}

// parseUITable reconstructs the UI changes table: page or screen names
// with their change descriptions.
func parseUITable(text string) []swrn.ChangeRow {
	body := tableBody(text, "UI Changes", "User Interface Changes")
	if body == "" {
		return nil
	}
	var out []swrn.ChangeRow
	for _, row := range splitRowsAtActions(body) {
		name, desc := splitNameDesc(row.text)
		if name == "" {
			continue
		}
		out = append(out, swrn.ChangeRow{
			Name:        name,
			Description: strings.TrimSpace(collapseRe.ReplaceAllString(desc, " ")),
			Action:      row.action,
		})
	}
	return out
}

// parseAlarmTable reconstructs the alarm table: alarm ids, message text,
// and a severity cell when one is present.
func parseAlarmTable(text string) []swrn.ChangeRow {
	body := tableBody(text, "Alarm Changes", "New Alarms")
	if body == "" {
		return nil
	}
	matches := alarmIDRe.FindAllStringSubmatchIndex(body, -1)
	var out []swrn.ChangeRow
	for i, m := range matches {
		end := len(body)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		desc := body[m[1]:end]
		cr := swrn.ChangeRow{Name: body[m[2]:m[3]], Action: "added"}
		if rows := splitRowsAtActions(desc); len(rows) == 1 && rows[0].action != "" {
			cr.Action = rows[0].action
			desc = rows[0].text
		}
		if sm := sevRe.FindStringSubmatch(desc); sm != nil {
			cr.NewValue = strings.ToLower(sm[1])
			desc = sevRe.ReplaceAllString(desc, "")
		}
		cr.Description = strings.Trim(collapseRe.ReplaceAllString(desc, " "), " ,;")
		out = append(out, cr)
	}
	return out
}
