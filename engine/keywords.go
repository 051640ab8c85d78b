package engine

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Keyword extraction for similar-PR search. A problem title is split into
// WHERE terms (which equipment, page, or module) and WHAT terms (symptom,
// action, target). A WHERE term alone matches far too much, so combos of
// WHERE+WHAT rank first, then WHAT compounds, then WHAT singles, then
// bare WHERE terms.

// Keyword is one ranked search term.
type Keyword struct {
	Text string
	Kind string // "combo", "compound", "what", "where"
}

// wherePatterns name the place a problem lives: tool families, UI pages
// and editors, subsystem acronyms.
var wherePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:Kiyo(?:\s+[A-Z]{1,3}\b)?|Sensei|Akara|Vantex|Versys|Striker|Flex|2300)\b`),
	regexp.MustCompile(`(?i)\b(?:Recipe\s+(?:Page|Editor)|Tempo\s+Editor|Alarm\s+(?:Page|Summary)|Maintenance\s+Page|Wafer\s+Flow|Lot\s+Page|System\s+Page)\b`),
	regexp.MustCompile(`(?i)\b(?:GUI|HMI|OBEM|EPD|ESC|TCU|MFC|RF\s+Generator|Gas\s+Box)\b`),
}

var (
	whatSymptoms = wordSet("crash crashes crashed hang hangs freeze frozen stuck " +
		"terminate terminated fail fails failed failure error timeout mismatch " +
		"incorrect wrong missing stale leak slow corrupt")
	whatActions = wordSet("display displayed update updated load loaded save saved " +
		"purge clean transfer abort start stop paste copy readback acknowledge")
	whatTargets = wordSet("recipe wafer chamber pressure gas valve sensor alarm " +
		"endpoint parameter cv lot cache editor")
)

// whatPhrases match multi-word targets and actions the single-word sets
// cannot: compound terms the notes treat as one concept.
var whatPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bprocess\s+(?:time|parameter|data)\b`),
	regexp.MustCompile(`(?i)\bsudden\s+termination\b`),
	regexp.MustCompile(`(?i)\b(?:cancel|start|stop|apply|save|ok)\s+button\b`),
	regexp.MustCompile(`(?i)\b(?:wafer|lot)\s+(?:transfer|processing)\b`),
	regexp.MustCompile(`(?i)\bdata\s+collection\b`),
	regexp.MustCompile(`(?i)\b(?:recipe|parameter)\s+(?:download|upload|validation)\b`),
	regexp.MustCompile(`(?i)\bendpoint\s+detection\b`),
}

var (
	quotedRe  = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
	allcapsRe = regexp.MustCompile(`\b[A-Z][A-Z0-9_]{2,}\b`)
	camelRe   = regexp.MustCompile(`\b[A-Z][a-z0-9]+(?:[A-Z][a-z0-9]+)+\b`)
)

func wordSet(words string) map[string]bool {
	m := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		m[w] = true
	}
	return m
}

// ExtractKeywords derives up to limit ranked search terms from a problem
// title.
func ExtractKeywords(title string, limit int) []Keyword {
	if limit <= 0 {
		limit = 10
	}
	title = strings.TrimSpace(norm.NFC.String(title))

	var wheres []string
	for _, re := range wherePatterns {
		for _, m := range re.FindAllString(title, -1) {
			wheres = appendUnique(wheres, strings.Join(strings.Fields(m), " "))
		}
	}

	var whats []string
	for _, re := range whatPhrases {
		for _, m := range re.FindAllString(title, -1) {
			whats = appendUnique(whats, strings.Join(strings.Fields(m), " "))
		}
	}
	for _, w := range tokenize(title) {
		if whatSymptoms[w] || whatActions[w] || whatTargets[w] {
			whats = appendUnique(whats, w)
		}
	}

	// literal identifiers: quoted strings, ALLCAPS codes, CamelCase names
	var idents []string
	for _, m := range quotedRe.FindAllStringSubmatch(title, -1) {
		q := m[1]
		if q == "" {
			q = m[2]
		}
		idents = appendUnique(idents, strings.TrimSpace(q))
	}
	for _, m := range camelRe.FindAllString(title, -1) {
		idents = appendUnique(idents, m)
	}
	for _, m := range allcapsRe.FindAllString(title, -1) {
		idents = appendUnique(idents, m)
	}

	var out []Keyword
	seen := make(map[string]bool)
	add := func(text, kind string) {
		key := strings.ToLower(text)
		if text == "" || seen[key] || len(out) >= limit {
			return
		}
		seen[key] = true
		out = append(out, Keyword{Text: text, Kind: kind})
	}

	for _, w := range wheres {
		for _, t := range whats {
			add(w+" "+t, "combo")
		}
	}
	for i := 0; i+1 < len(whats); i++ {
		add(whats[i]+" "+whats[i+1], "compound")
	}
	for _, id := range idents {
		add(id, "what")
	}
	for _, t := range whats {
		add(t, "what")
	}
	for _, w := range wheres {
		add(w, "where")
	}
	return out
}

func appendUnique(list []string, s string) []string {
	for _, have := range list {
		if strings.EqualFold(have, s) {
			return list
		}
	}
	return append(list, s)
}
