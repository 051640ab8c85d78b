package engine

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	swrn "github.com/nevindra/swrn"
)

// Intent is the query kind the engine dispatches to.
type Intent int

const (
	IntentSimilar Intent = iota // free-text problem report, the fallback
	IntentPRLookup
	IntentDelta
	IntentKeyword
)

func (i Intent) String() string {
	switch i {
	case IntentPRLookup:
		return "pr_lookup"
	case IntentDelta:
		return "delta"
	case IntentKeyword:
		return "keyword"
	}
	return "similar"
}

// Query is a classified user question.
type Query struct {
	Intent Intent
	Text   string // topic for keyword search, title for similar search
	PR     string // bare six-digit number
	From   string // delta window bounds, canonical version strings
	To     string
}

// intentRule is one entry in the ordered dispatch table. First match wins.
type intentRule struct {
	name  string
	match func(text, base string) (Query, bool)
}

// Precedence: a version range outranks a PR number outranks an explicit
// keyword trigger; anything else is a similar-PR search.
var intentRules = []intentRule{
	{"version-range", matchVersionRange},
	{"pr-lookup", matchPRLookup},
	{"keyword-search", matchKeywordSearch},
}

// Classify maps a free-text question to a Query. base is the release the
// corpus belongs to ("1.8.4"), used to complete short version tokens like
// "SP33".
func Classify(text, base string) Query {
	text = strings.TrimSpace(norm.NFC.String(text))
	for _, r := range intentRules {
		if q, ok := r.match(text, base); ok {
			return q
		}
	}
	return Query{Intent: IntentSimilar, Text: text}
}

var (
	// common typos in version tokens: P33 for SP33, HG2 for HF2
	typoPRe  = regexp.MustCompile(`(?i)\bP(\d{1,3})\b`)
	typoHGRe = regexp.MustCompile(`(?i)\bHG(\d+)\b`)

	versionTokRe = regexp.MustCompile(`(?i)\b(?:\d+\.\d+\.\d+[-_])?SP\d+(?:[-_](?:HF\d+[a-z]?|B\d+|Release))?\b`)
	rangeWordRe  = regexp.MustCompile(`(?i)\b(?:between|from|delta|difference|changes|changed|what'?s new|new in|since)\b`)

	prRefRe   = regexp.MustCompile(`(?i)\bPR[-\s_]?(\d{6})\b`)
	bareNumRe = regexp.MustCompile(`\b(\d{6})\b`)

	keywordTrigRe = regexp.MustCompile(`(?i)\b(?:find|search|show|list)\b[^.?!]*?\b(?:prs?|issues?|fixes|bugs?|problems)\b\s*(?:about|for|on|with|related\s+to|mentioning)\s+(.+)`)
	relatedTrigRe = regexp.MustCompile(`(?i)^(.+?)\s+related\s+prs?\b`)
)

// prKeywordRe guards bare six-digit numbers: without PR wording in the
// question a number is not treated as a PR reference.
var prKeywordRe = regexp.MustCompile(`(?i)\b(?:prs?|problem\s+reports?|fix(?:es)?|bugs?|issues?|defects?)\b`)

// matchVersionRange fires on two version tokens, or one version token
// next to range wording (a single version implies "since its previous
// version").
func matchVersionRange(text, base string) (Query, bool) {
	t := typoPRe.ReplaceAllString(text, "SP$1")
	t = typoHGRe.ReplaceAllString(t, "HF$1")

	toks := versionTokRe.FindAllString(t, -1)
	switch {
	case len(toks) >= 2:
		return Query{
			Intent: IntentDelta,
			From:   canonicalVersion(toks[0], base),
			To:     canonicalVersion(toks[1], base),
		}, true
	case len(toks) == 1 && rangeWordRe.MatchString(t):
		to := canonicalVersion(toks[0], base)
		return Query{
			Intent: IntentDelta,
			From:   swrn.PreviousVersion(to),
			To:     to,
		}, true
	}
	return Query{}, false
}

// canonicalVersion uppercases a token, fixes separators, and completes
// short forms ("SP33-HF2") with the base release.
func canonicalVersion(tok, base string) string {
	tok = strings.ToUpper(strings.ReplaceAll(tok, "_", "-"))
	tok = strings.TrimSuffix(tok, "-RELEASE")
	if !strings.Contains(tok, ".") {
		tok = base + "-" + tok
	}
	return tok
}

func matchPRLookup(text, _ string) (Query, bool) {
	if m := prRefRe.FindStringSubmatch(text); m != nil {
		return Query{Intent: IntentPRLookup, PR: m[1]}, true
	}
	if m := bareNumRe.FindStringSubmatch(text); m != nil && prKeywordRe.MatchString(text) {
		return Query{Intent: IntentPRLookup, PR: m[1]}, true
	}
	return Query{}, false
}

func matchKeywordSearch(text, _ string) (Query, bool) {
	if m := keywordTrigRe.FindStringSubmatch(text); m != nil {
		return Query{Intent: IntentKeyword, Text: strings.Trim(m[1], " ?.!")}, true
	}
	if m := relatedTrigRe.FindStringSubmatch(text); m != nil {
		return Query{Intent: IntentKeyword, Text: strings.TrimSpace(m[1])}, true
	}
	return Query{}, false
}
