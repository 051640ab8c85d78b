package format

import (
	"strings"
	"testing"

	swrn "github.com/nevindra/swrn"
	"github.com/nevindra/swrn/engine"
)

func testDetail() swrn.Detail {
	return swrn.Detail{
		PR:               "654321",
		Found:            true,
		Title:            "Chamber pressure readback stuck after purge",
		Component:        "Process Control",
		Module:           "PressureMonitor",
		IssueDescription: "The pressure readback froze.",
		RootCause:        "Stale sensor cache.",
		Solution:         "The cache is flushed after purge.",
		Type:             swrn.PRBugFix,
		CVChanges: []swrn.ChangeRow{
			{Name: "PressureCacheTimeout", Description: "Cache timeout in seconds", NewValue: "min=1, max=600, default=30", Action: "modified"},
		},
		SourceFile: "SWRN_Version_1.8.4-SP33.pdf",
		SourcePage: 42,
	}
}

func TestDetailMarkdown(t *testing.T) {
	md := Detail(testDetail())
	for _, want := range []string{
		"## PR-654321: Chamber pressure readback stuck after purge",
		"**Type:** bug fix",
		"**Component:** Process Control",
		"### Root Cause",
		"### CV Changes",
		"| PressureCacheTimeout |",
		"page 42",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("detail markdown missing %q:\n%s", want, md)
		}
	}
}

func TestDetailPipeEscaped(t *testing.T) {
	d := testDetail()
	d.CVChanges[0].Description = "a|b"
	md := Detail(d)
	if !strings.Contains(md, `a\|b`) {
		t.Error("pipe in a table cell not escaped")
	}
}

func TestPRAnswerListsFiles(t *testing.T) {
	md := PRAnswer(engine.PRAnswer{
		PR:     "654321",
		Detail: testDetail(),
		Hits: []swrn.PRHit{
			{PR: "654321", Filename: "SWRN_Version_1.8.4-SP33-HF1.pdf", Version: "1.8.4-SP33-HF1", Page: 12},
			{PR: "654321", Filename: "SWRN_Version_1.8.4-SP33.pdf", Version: "1.8.4-SP33", Page: 42},
		},
	})
	if !strings.Contains(md, "### Appears in") {
		t.Error("missing file listing")
	}
	if !strings.Contains(md, "SWRN_Version_1.8.4-SP33-HF1.pdf (page 12)") {
		t.Errorf("missing hotfix provenance:\n%s", md)
	}
}

func TestDeltaMarkdown(t *testing.T) {
	md := Delta(swrn.Delta{
		From:     "1.8.4-SP32",
		To:       "1.8.4-SP33",
		Versions: []string{"1.8.4-SP33"},
		Entries: []swrn.DeltaEntry{
			{PR: "222333", Version: "1.8.4-SP33", Type: swrn.PRBugFix, IsNew: true, Title: "Recipe editor crashes"},
			{PR: "654321", Version: "1.8.4-SP33", Type: swrn.PRBugFix, IsNew: false},
		},
		Summary: swrn.DeltaSummary{
			Bugs:        2,
			ByVersion:   map[string]int{"1.8.4-SP33": 2},
			ByComponent: map[string]int{"Recipe Management": 1},
		},
	})
	for _, want := range []string{
		"## Changes from 1.8.4-SP32 to 1.8.4-SP33",
		"2 bug fix(es)",
		"**By component:** Recipe Management (1)",
		"### 1.8.4-SP33",
		"**PR-222333**: Recipe editor crashes [bug fix]",
		"**PR-654321** [bug fix] (carried forward)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("delta markdown missing %q:\n%s", want, md)
		}
	}
}

func TestDeltaEmptyWindow(t *testing.T) {
	md := Delta(swrn.Delta{From: "1.8.4-SP32", To: "1.8.4-SP33"})
	if !strings.Contains(md, "No PRs recorded") {
		t.Errorf("empty window report:\n%s", md)
	}
}

func TestSimilarHitsMarkdown(t *testing.T) {
	md := SimilarHits("editor crash", []swrn.SimilarHit{
		{PR: "222333", Title: "Recipe editor crashes", Filename: "SWRN_Version_1.8.4-SP33.pdf", Version: "1.8.4-SP33", Page: 2, Score: 87.5},
	})
	if !strings.Contains(md, "1. **PR-222333**: Recipe editor crashes (score 87.5)") {
		t.Errorf("similar markdown:\n%s", md)
	}
}

func TestKeywordHitsEmpty(t *testing.T) {
	md := KeywordHits("magnetron", nil)
	if !strings.Contains(md, "No matching PRs found") {
		t.Errorf("empty keyword report:\n%s", md)
	}
}

func TestStatsMarkdown(t *testing.T) {
	md := Stats(swrn.Stats{
		Indexed:   true,
		FileCount: 2, TotalPages: 4, PREntries: 4, UniquePRs: 3, DBSizeMB: 0.5,
		Files: []swrn.FileStat{{Filename: "SWRN_Version_1.8.4-SP33.pdf", Version: "1.8.4-SP33", Pages: 2}},
	})
	if !strings.Contains(md, "| SWRN_Version_1.8.4-SP33.pdf | 1.8.4-SP33 | 2 |") {
		t.Errorf("stats table:\n%s", md)
	}
	if !strings.Contains(Stats(swrn.Stats{}), "not been built") {
		t.Error("unbuilt index report")
	}
}

func TestHTML(t *testing.T) {
	html := HTML("## PR-654321\n\nSome **bold** text.")
	if !strings.Contains(html, "<h2>") || !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("html output:\n%s", html)
	}
}

func TestHTMLTable(t *testing.T) {
	html := HTML(Detail(testDetail()))
	if !strings.Contains(html, "<table>") {
		t.Error("change table did not render as an HTML table")
	}
}
