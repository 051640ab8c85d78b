// Package format renders engine answers as Markdown, and optionally as
// HTML for embedding in a dashboard. Markdown is the primary surface:
// every answer type renders to a compact report with GFM tables for the
// structured change rows.
package format

import (
	"fmt"
	"sort"
	"strings"

	swrn "github.com/nevindra/swrn"
	"github.com/nevindra/swrn/engine"
)

// Answer renders a dispatched answer to Markdown.
func Answer(a engine.Answer) string {
	switch a.Intent {
	case engine.IntentPRLookup:
		if a.PR != nil {
			return PRAnswer(*a.PR)
		}
	case engine.IntentDelta:
		if a.Delta != nil {
			return Delta(*a.Delta)
		}
	case engine.IntentKeyword:
		return KeywordHits(a.Query.Text, a.Keyword)
	default:
		return SimilarHits(a.Query.Text, a.Similar)
	}
	return ""
}

// PRAnswer renders an exact PR lookup: the hydrated detail first, then
// every file the PR appears in.
func PRAnswer(a engine.PRAnswer) string {
	var b strings.Builder
	if a.Detail.Found {
		b.WriteString(Detail(a.Detail))
	} else {
		fmt.Fprintf(&b, "## PR-%s\n\n", a.PR)
	}
	b.WriteString("\n### Appears in\n\n")
	for _, h := range a.Hits {
		fmt.Fprintf(&b, "- %s (page %d)", h.Filename, h.Page)
		if h.Version != "" {
			fmt.Fprintf(&b, " — version %s", h.Version)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Detail renders one PR's parsed detail.
func Detail(d swrn.Detail) string {
	var b strings.Builder
	if d.Title != "" {
		fmt.Fprintf(&b, "## PR-%s: %s\n\n", d.PR, d.Title)
	} else {
		fmt.Fprintf(&b, "## PR-%s\n\n", d.PR)
	}
	if d.Type != swrn.PRUnknown {
		fmt.Fprintf(&b, "**Type:** %s\n\n", typeLabel(d.Type))
	}

	field(&b, "Component", d.Component)
	field(&b, "Module", d.Module)
	field(&b, "Affected Function", d.AffectedFunction)

	section(&b, "Issue Description", d.IssueOrDescription())
	section(&b, "Root Cause", d.RootCause)
	section(&b, "Solution", d.SolutionOrBenefit())
	section(&b, "History", d.History)

	changeTable(&b, "CV Changes", d.CVChanges)
	changeTable(&b, "Factory Automation Changes", d.FAChanges)
	changeTable(&b, "Recipe Parameter Changes", d.RecipeChanges)
	changeTable(&b, "UI Changes", d.UIChanges)
	changeTable(&b, "Alarm Changes", d.AlarmChanges)

	if d.SourceFile != "" {
		fmt.Fprintf(&b, "*Source: %s, page %d*\n", d.SourceFile, d.SourcePage)
	}
	return b.String()
}

// KeywordHits renders a keyword search result list.
func KeywordHits(topic string, hits []swrn.KeywordHit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## PRs matching %q\n\n", topic)
	if len(hits) == 0 {
		b.WriteString("No matching PRs found.\n")
		return b.String()
	}
	for _, h := range hits {
		fmt.Fprintf(&b, "- **PR-%s** — %s, page %d", h.PR, h.Filename, h.Page)
		if h.Version != "" {
			fmt.Fprintf(&b, " (version %s)", h.Version)
		}
		b.WriteString("\n")
		if h.Snippet != "" {
			fmt.Fprintf(&b, "  %s\n", h.Snippet)
		}
	}
	return b.String()
}

// SimilarHits renders a similar-PR search result list with scores.
func SimilarHits(title string, hits []swrn.SimilarHit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## PRs similar to %q\n\n", title)
	if len(hits) == 0 {
		b.WriteString("No similar PRs found. Try lowering the strictness or rephrasing the symptom.\n")
		return b.String()
	}
	for i, h := range hits {
		fmt.Fprintf(&b, "%d. **PR-%s**", i+1, h.PR)
		if h.Title != "" {
			fmt.Fprintf(&b, ": %s", h.Title)
		}
		fmt.Fprintf(&b, " (score %.1f)\n", h.Score)
		fmt.Fprintf(&b, "   %s, page %d", h.Filename, h.Page)
		if h.Version != "" {
			fmt.Fprintf(&b, ", version %s", h.Version)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Delta renders a version-range report: the summary rollups, then one
// line per PR grouped by the version it entered.
func Delta(d swrn.Delta) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Changes from %s to %s\n\n", d.From, d.To)
	if len(d.Entries) == 0 {
		b.WriteString("No PRs recorded in this version window.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d PRs across %d release(s): %d feature(s), %d bug fix(es)",
		len(d.Entries), len(d.Versions), d.Summary.Features, d.Summary.Bugs)
	if d.Summary.Unknown > 0 {
		fmt.Fprintf(&b, ", %d unclassified", d.Summary.Unknown)
	}
	b.WriteString("\n\n")

	rollup(&b, "By component", d.Summary.ByComponent)
	rollup(&b, "By module", d.Summary.ByModule)

	for _, v := range d.Versions {
		fmt.Fprintf(&b, "### %s\n\n", v)
		for _, en := range d.Entries {
			if en.Version != v {
				continue
			}
			fmt.Fprintf(&b, "- **PR-%s**", en.PR)
			if en.Title != "" {
				fmt.Fprintf(&b, ": %s", en.Title)
			}
			fmt.Fprintf(&b, " [%s]", typeLabel(en.Type))
			if !en.IsNew {
				b.WriteString(" (carried forward)")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Stats renders the index status report.
func Stats(st swrn.Stats) string {
	var b strings.Builder
	b.WriteString("## Index status\n\n")
	if !st.Indexed {
		b.WriteString("The index has not been built yet.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "- Files: %d\n", st.FileCount)
	fmt.Fprintf(&b, "- Pages: %d\n", st.TotalPages)
	fmt.Fprintf(&b, "- PR entries: %d (%d unique PRs)\n", st.PREntries, st.UniquePRs)
	fmt.Fprintf(&b, "- Database size: %.2f MB\n\n", st.DBSizeMB)
	if len(st.Files) > 0 {
		b.WriteString("| File | Version | Pages |\n|---|---|---|\n")
		for _, f := range st.Files {
			fmt.Fprintf(&b, "| %s | %s | %d |\n", f.Filename, f.Version, f.Pages)
		}
	}
	return b.String()
}

// BuildResult renders an indexing run report.
func BuildResult(res swrn.BuildResult) string {
	var b strings.Builder
	b.WriteString("## Indexing run\n\n")
	fmt.Fprintf(&b, "- Indexed: %d file(s)\n", res.Indexed)
	fmt.Fprintf(&b, "- Skipped: %d file(s) already indexed\n", res.Skipped)
	fmt.Fprintf(&b, "- Pages: %d, PR entries: %d\n", res.Pages, res.PRs)
	if len(res.Errors) > 0 {
		b.WriteString("\n### Errors\n\n")
		for _, e := range res.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}
	return b.String()
}

func field(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "**%s:** %s\n\n", label, value)
}

func section(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "### %s\n\n%s\n\n", label, value)
}

func changeTable(b *strings.Builder, label string, rows []swrn.ChangeRow) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", label)
	b.WriteString("| Name | Description | Old | New | Action |\n|---|---|---|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
			cell(r.Name), cell(r.Description), cell(r.OldValue), cell(r.NewValue), cell(r.Action))
	}
	b.WriteString("\n")
}

// cell escapes pipes so a value cannot break the table row.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func typeLabel(t swrn.PRType) string {
	switch t {
	case swrn.PRFeature:
		return "feature"
	case swrn.PRBugFix:
		return "bug fix"
	}
	return "unclassified"
}

func rollup(b *strings.Builder, label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(b, "**%s:** ", label)
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s (%d)", k, counts[k])
	}
	b.WriteString("\n\n")
}
