// Package detail parses the detail page of a single PR out of a SWRN PDF:
// the labeled narrative sections (component, issue description, root cause,
// solution, ...) and the structured change tables (CVs, factory automation
// ids, recipe parameters, UI, alarms).
//
// Parsing always re-opens the document; nothing is cached between calls.
package detail

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	swrn "github.com/nevindra/swrn"
	"github.com/nevindra/swrn/extract"
)

// maxDetailPages caps how many consecutive pages one PR's detail text may
// span.
const maxDetailPages = 5

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithLogger sets a structured logger for the parser.
func WithLogger(l *slog.Logger) ParserOption {
	return func(p *Parser) { p.logger = l }
}

// Parser locates and parses PR detail pages.
type Parser struct {
	extractor swrn.Extractor
	logger    *slog.Logger
}

var nopLogger = slog.New(discardHandler{})

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// NewParser creates a Parser reading PDFs through the given extractor.
func NewParser(e swrn.Extractor, opts ...ParserOption) *Parser {
	p := &Parser{extractor: e, logger: nopLogger}
	for _, o := range opts {
		o(p)
	}
	return p
}

// detailIndicators mark a page as carrying a PR's detail block rather
// than a summary table or an index listing.
var detailIndicators = []string{
	"component:", "module", "benefits", "description", "history",
}

var (
	// header/footer noise stripped before parsing
	pageFooterRe   = regexp.MustCompile(`(?i)Page\s+\d+\s+of\s+\d+`)
	bannerRe       = regexp.MustCompile(`(?im)^.*Release Notes (?:Summary|for).*$`)
	confidentialRe = regexp.MustCompile(`(?im)^.*CONFIDENTIAL.*$`)

	// a dotted section header opening some PR's detail block
	sectionStartRe = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+\.\d+\.?\s*PR[-\s]?(\d{6})`)
)

// Parse extracts the detail of one PR from the document at path. hintPage
// is where the index recorded the PR (1-based); the scan starts there and
// falls back to the whole document. The returned Detail has Found=false
// when no page cites the PR at all; partial pages yield whatever fields
// could be read.
func (p *Parser) Parse(path, pr string, hintPage int) (swrn.Detail, error) {
	pr = swrn.NormalizePR(pr)
	d := swrn.Detail{PR: pr, Type: swrn.PRUnknown, SourceFile: path}

	doc, err := p.extractor.Extract(path)
	if err != nil {
		return d, fmt.Errorf("detail %s: %w", pr, err)
	}

	idx := p.locate(doc, pr, hintPage)
	if idx < 0 {
		p.logger.Debug("detail: pr not found", "pr", pr, "path", path)
		return d, nil
	}
	d.Found = true
	d.SourcePage = doc.Pages[idx].Num

	text := focus(p.accumulate(doc, idx), pr)

	applySections(&d, text)
	if title := extractTitle(text, pr); title != "" {
		d.Title = title
	}
	affected, solution := parseSummaryRow(text, pr)
	if d.AffectedFunction == "" {
		d.AffectedFunction = affected
	}
	if d.Solution == "" {
		d.Solution = solution
	}

	d.Type = extract.DetectType(text)

	d.CVChanges = parseCVTable(text, pr)
	d.FAChanges = parseFATable(text)
	d.RecipeChanges = parseRecipeTable(text)
	d.UIChanges = parseUITable(text)
	d.AlarmChanges = parseAlarmTable(text)

	p.logger.Debug("detail: parsed",
		"pr", pr,
		"page", d.SourcePage,
		"type", string(d.Type),
		"cv_rows", len(d.CVChanges))
	return d, nil
}

// locate returns the index into doc.Pages of the PR's detail page, or -1.
// The hint page and the few pages after it are tried first, then the whole
// document.
func (p *Parser) locate(doc swrn.Document, pr string, hintPage int) int {
	hintIdx := -1
	for i, page := range doc.Pages {
		if page.Num == hintPage {
			hintIdx = i
			break
		}
	}
	if hintIdx >= 0 {
		end := hintIdx + maxDetailPages
		if end > len(doc.Pages) {
			end = len(doc.Pages)
		}
		for i := hintIdx; i < end; i++ {
			if isDetailPage(doc.Pages[i].Text, pr) {
				return i
			}
		}
	}
	for i, page := range doc.Pages {
		if isDetailPage(page.Text, pr) {
			return i
		}
	}
	// fall back to any page citing the PR
	cite := citationRe(pr)
	for i, page := range doc.Pages {
		if cite.MatchString(page.Text) {
			return i
		}
	}
	return -1
}

// accumulate joins up to maxDetailPages pages of cleaned text starting at
// idx.
func (p *Parser) accumulate(doc swrn.Document, idx int) string {
	var parts []string
	for i := idx; i < len(doc.Pages) && i < idx+maxDetailPages; i++ {
		parts = append(parts, clean(doc.Pages[i].Text))
	}
	return strings.Join(parts, "\n")
}

// focus trims the accumulated text to the PR's own span: it starts at the
// first citation of the PR and ends where the next PR's section header
// begins.
func focus(text, pr string) string {
	if loc := citationRe(pr).FindStringIndex(text); loc != nil {
		text = text[loc[0]:]
	}
	if cut, stop := cutAtNextPR(text, pr); stop {
		return cut
	}
	return text
}

// clean strips page footers and repeated banner lines.
func clean(text string) string {
	text = pageFooterRe.ReplaceAllString(text, "")
	text = bannerRe.ReplaceAllString(text, "")
	text = confidentialRe.ReplaceAllString(text, "")
	return text
}

// cutAtNextPR truncates text at the first section header opening a
// different PR. stop is true when such a header was found.
func cutAtNextPR(text, pr string) (string, bool) {
	for _, m := range sectionStartRe.FindAllStringSubmatchIndex(text, -1) {
		if text[m[2]:m[3]] != pr {
			return strings.TrimSpace(text[:m[0]]), true
		}
	}
	return text, false
}

func citationRe(pr string) *regexp.Regexp {
	return regexp.MustCompile(`PR[-\s]?` + regexp.QuoteMeta(pr))
}

func isDetailPage(text, pr string) bool {
	if !citationRe(pr).MatchString(text) {
		return false
	}
	low := strings.ToLower(text)
	for _, ind := range detailIndicators {
		if strings.Contains(low, ind) {
			return true
		}
	}
	return false
}

// extractTitle takes the text after the PR citation up to end of line.
func extractTitle(text, pr string) string {
	re := regexp.MustCompile(`PR[-\s]?` + regexp.QuoteMeta(pr) + `\s*[:\-][ \t]*([^\n]+)`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
