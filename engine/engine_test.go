package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	swrn "github.com/nevindra/swrn"
	"github.com/nevindra/swrn/detail"
	"github.com/nevindra/swrn/index"
)

// fakeExtractor serves canned documents keyed by filename, so engine tests
// run without real PDFs.
type fakeExtractor struct {
	docs map[string]swrn.Document
}

func (f fakeExtractor) Extract(path string) (swrn.Document, error) {
	doc, ok := f.docs[filepath.Base(path)]
	if !ok {
		return swrn.Document{}, fmt.Errorf("unreadable pdf: %s", filepath.Base(path))
	}
	doc.Path = path
	return doc, nil
}

const (
	fileSP32 = "SWRN_Version_1.8.4-SP32.pdf"
	fileSP33 = "SWRN_Version_1.8.4-SP33.pdf"
	fileHF1  = "SWRN_Version_1.8.4-SP33-HF1.pdf"
)

func testDocs() map[string]swrn.Document {
	pressureDetail := "6.1.1.1.1. PR-654321: Chamber pressure readback stuck after purge\n" +
		"Component: Process Control\n" +
		"Module: PressureMonitor\n" +
		"Issue Description\nThe chamber pressure readback froze after a purge cycle completed.\n" +
		"Root Cause\nStale sensor cache was not invalidated.\n" +
		"Solution\nThe sensor cache is now flushed when the purge cycle ends.\n"
	return map[string]swrn.Document{
		fileSP32: {
			PageCount: 1,
			Pages: []swrn.Page{
				{Num: 1, Text: "5.1.2.3.4. PR-111111: Endpoint detection tuning page added\n" +
					"Component: Endpoint\n" +
					"Module: EPDTuning\n" +
					"Benefits\nFaster endpoint tuning on Kiyo chambers.\n" +
					"Description\nA tuning page was added for endpoint detection setup.\n"},
			},
		},
		fileSP33: {
			PageCount: 2,
			Pages: []swrn.Page{
				{Num: 1, Text: pressureDetail},
				{Num: 2, Text: "6.2.1.1.3. PR-222333: Recipe editor crashes when pasting parameters\n" +
					"Component: Recipe Management\n" +
					"Module: RecipeEditor\n" +
					"Issue Description\nThe recipe editor crashes when a parameter block is pasted.\n" +
					"Root Cause\nPasted values bypassed bounds validation.\n" +
					"Solution\nPasted parameters are validated before the editor applies them.\n"},
			},
		},
		fileHF1: {
			PageCount: 2,
			Pages: []swrn.Page{
				{Num: 1, Text: pressureDetail},
				{Num: 2, Text: "6.3.1.1.2. PR-777888: Wafer transfer timeout during unload\n" +
					"Component: Wafer Handling\n" +
					"Module: TransferControl\n" +
					"Issue Description\nThe wafer transfer timed out while unloading.\n" +
					"Root Cause\nThe unload handshake waited on a retired signal.\n" +
					"Solution\nThe handshake now tracks the current signal.\n"},
			},
		},
	}
}

func testCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name := range testDocs() {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// testEngine wires a real store and parser over the fake extractor. built
// controls whether the corpus is indexed.
func testEngine(t *testing.T, built bool) *Engine {
	t.Helper()
	fx := fakeExtractor{docs: testDocs()}
	s := index.New(filepath.Join(t.TempDir(), "test.db"), index.WithExtractor(fx))
	t.Cleanup(func() { s.Close() })
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	e := New(s, detail.NewParser(fx), WithCorpus(testCorpus(t)))
	if built {
		if _, err := e.Build(context.Background(), false); err != nil {
			t.Fatalf("build: %v", err)
		}
	}
	return e
}

func TestBuildAndUpdate(t *testing.T) {
	e := testEngine(t, false)
	ctx := context.Background()

	res, err := e.Build(ctx, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if res.Indexed != 3 {
		t.Errorf("indexed = %d, want 3", res.Indexed)
	}

	res, err = e.Update(ctx)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Indexed != 0 || res.Skipped != 3 {
		t.Errorf("update: indexed %d skipped %d, want 0/3", res.Indexed, res.Skipped)
	}
}

func TestBuildWithoutCorpusFolder(t *testing.T) {
	e := New(nil, nil)
	if _, err := e.Build(context.Background(), false); err == nil {
		t.Error("build without a corpus folder should fail")
	}
}

func TestQueryBeforeBuild(t *testing.T) {
	e := testEngine(t, false)
	if _, err := e.Query(context.Background(), "PR-654321"); !errors.Is(err, swrn.ErrNotIndexed) {
		t.Errorf("err = %v, want ErrNotIndexed", err)
	}
}

func TestLookupPR(t *testing.T) {
	e := testEngine(t, true)
	ans, err := e.LookupPR(context.Background(), "PR-654321")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(ans.Hits) != 2 {
		t.Fatalf("got %d hits, want 2 (one per file)", len(ans.Hits))
	}
	if ans.Hits[0].Version != "1.8.4-SP33-HF1" {
		t.Errorf("first hit version = %s, want the hotfix (newest)", ans.Hits[0].Version)
	}
	if !ans.Detail.Found {
		t.Fatal("detail not hydrated")
	}
	if ans.Detail.Component != "Process Control" || ans.Detail.Module != "PressureMonitor" {
		t.Errorf("detail component/module = %q/%q", ans.Detail.Component, ans.Detail.Module)
	}
	if ans.Detail.Type != swrn.PRBugFix {
		t.Errorf("detail type = %v, want bug_fix", ans.Detail.Type)
	}
}

func TestLookupPRNotFound(t *testing.T) {
	e := testEngine(t, true)
	var notFound *swrn.ErrPRNotFound
	if _, err := e.LookupPR(context.Background(), "999999"); !errors.As(err, &notFound) {
		t.Errorf("err = %v, want ErrPRNotFound", err)
	}
}

func TestQueryDispatchKeyword(t *testing.T) {
	e := testEngine(t, true)
	ans, err := e.Query(context.Background(), "find PRs about recipe editor")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if ans.Intent != IntentKeyword {
		t.Fatalf("intent = %v, want keyword", ans.Intent)
	}
	if len(ans.Keyword) != 1 || ans.Keyword[0].PR != "222333" {
		t.Errorf("keyword hits = %+v, want single PR 222333", ans.Keyword)
	}
}

func TestQueryDispatchSimilar(t *testing.T) {
	e := testEngine(t, true)
	ans, err := e.Query(context.Background(), "Recipe editor crashes when pasting a parameter")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if ans.Intent != IntentSimilar {
		t.Fatalf("intent = %v, want similar", ans.Intent)
	}
	if len(ans.Similar) == 0 || ans.Similar[0].PR != "222333" {
		t.Fatalf("similar hits = %+v, want PR 222333 first", ans.Similar)
	}
	if ans.Similar[0].Detail == nil || ans.Similar[0].Detail.Component != "Recipe Management" {
		t.Error("top hit not hydrated with its detail")
	}
}

func TestSimilarPRsStrictRetry(t *testing.T) {
	e := testEngine(t, true)
	// a moderate match: scores land between the strictness 3 cutoff and
	// zero, so the strict query retries unfiltered
	hits, err := e.SimilarPRs(context.Background(), "stale pressure cache", "", 3)
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("strict search with a plausible match returned nothing")
	}
	if hits[0].PR != "654321" {
		t.Errorf("top hit = %s, want 654321", hits[0].PR)
	}
	if hits[0].Score >= cutoff(3) {
		t.Errorf("score %v passed the strict cutoff outright; fixture no longer exercises the retry", hits[0].Score)
	}
}

func TestSimilarPRsNoMatch(t *testing.T) {
	e := testEngine(t, true)
	hits, err := e.SimilarPRs(context.Background(), "magnetron sputter drift", "", 0)
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %+v, want none", hits)
	}
}

func TestSimilarPRsExcludesQueryingPR(t *testing.T) {
	e := testEngine(t, true)
	ctx := context.Background()

	// searching with a PR's own title reports that PR back by default
	hits, err := e.SimilarPRs(ctx, "Chamber pressure readback stuck after purge", "", 0)
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if len(hits) == 0 || hits[0].PR != "654321" {
		t.Fatalf("hits = %+v, want 654321 first without an exclusion", hits)
	}

	hits, err = e.SimilarPRs(ctx, "Chamber pressure readback stuck after purge", "PR-654321", 0)
	if err != nil {
		t.Fatalf("similar with exclude: %v", err)
	}
	for _, h := range hits {
		if h.PR == "654321" {
			t.Errorf("excluded PR 654321 came back: %+v", h)
		}
	}
}

func TestDeltaWindow(t *testing.T) {
	e := testEngine(t, true)
	ans, err := e.Query(context.Background(), "changes between SP32 and SP33")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if ans.Intent != IntentDelta {
		t.Fatalf("intent = %v, want delta", ans.Intent)
	}
	d := ans.Delta
	if d.From != "1.8.4-SP32" || d.To != "1.8.4-SP33" {
		t.Errorf("window = %s..%s", d.From, d.To)
	}
	if len(d.Versions) != 1 || d.Versions[0] != "1.8.4-SP33" {
		t.Errorf("versions = %v, want [1.8.4-SP33]", d.Versions)
	}
	if len(d.Entries) != 2 {
		t.Fatalf("entries = %+v, want PRs 222333 and 654321", d.Entries)
	}
	for _, en := range d.Entries {
		if !en.IsNew {
			t.Errorf("PR %s IsNew = false, want true (absent below the window)", en.PR)
		}
	}
	if d.Summary.Bugs != 2 || d.Summary.Features != 0 {
		t.Errorf("summary = %+v, want 2 bugs", d.Summary)
	}
	if d.Summary.ByComponent["Recipe Management"] != 1 || d.Summary.ByComponent["Process Control"] != 1 {
		t.Errorf("by component = %v", d.Summary.ByComponent)
	}
}

func TestDeltaRelisted(t *testing.T) {
	e := testEngine(t, true)
	d, err := e.Delta(context.Background(), "1.8.4-SP33", "1.8.4-SP33-HF1")
	if err != nil {
		t.Fatalf("delta: %v", err)
	}
	isNew := make(map[string]bool)
	for _, en := range d.Entries {
		isNew[en.PR] = en.IsNew
	}
	if len(d.Entries) != 2 {
		t.Fatalf("entries = %+v, want 654321 and 777888", d.Entries)
	}
	if isNew["654321"] {
		t.Error("654321 already shipped in SP33, should not be marked new in the hotfix")
	}
	if !isNew["777888"] {
		t.Error("777888 first appears in the hotfix, should be marked new")
	}
}

func TestDeltaDefaultsFromToPrevious(t *testing.T) {
	e := testEngine(t, true)
	d, err := e.Delta(context.Background(), "", "1.8.4-SP33")
	if err != nil {
		t.Fatalf("delta: %v", err)
	}
	if d.From != "1.8.4-SP32" {
		t.Errorf("from = %s, want the version preceding SP33", d.From)
	}
	if len(d.Entries) != 2 {
		t.Fatalf("entries = %+v, want only the SP33 PRs, not the whole history", d.Entries)
	}
	got := map[string]bool{}
	for _, en := range d.Entries {
		got[en.PR] = true
	}
	if !got["222333"] || !got["654321"] {
		t.Errorf("entries = %+v, want 222333 and 654321", d.Entries)
	}
}

func TestDeltaReversedBounds(t *testing.T) {
	e := testEngine(t, true)
	d, err := e.Delta(context.Background(), "1.8.4-SP33", "1.8.4-SP32")
	if err != nil {
		t.Fatalf("delta: %v", err)
	}
	if d.From != "1.8.4-SP32" || d.To != "1.8.4-SP33" {
		t.Errorf("window = %s..%s, want bounds swapped into order", d.From, d.To)
	}
}

func TestStatus(t *testing.T) {
	e := testEngine(t, true)
	st, err := e.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !st.Indexed || st.FileCount != 3 {
		t.Errorf("status = %+v, want 3 indexed files", st)
	}
}

// recordedMetrics counts what the engine reports to its metrics sink.
type recordedMetrics struct {
	queries []string
	builds  int
	parses  int
}

func (m *recordedMetrics) RecordQuery(_ context.Context, intent string, _ time.Duration, _ bool) {
	m.queries = append(m.queries, intent)
}

func (m *recordedMetrics) RecordBuild(_ context.Context, _ time.Duration, _ swrn.BuildResult) {
	m.builds++
}

func (m *recordedMetrics) RecordDetailParse(_ context.Context, _ time.Duration) {
	m.parses++
}

func TestMetricsRecorded(t *testing.T) {
	fx := fakeExtractor{docs: testDocs()}
	s := index.New(filepath.Join(t.TempDir(), "test.db"), index.WithExtractor(fx))
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()
	if err := s.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	rec := &recordedMetrics{}
	e := New(s, detail.NewParser(fx), WithCorpus(testCorpus(t)), WithMetrics(rec))

	if _, err := e.Build(ctx, false); err != nil {
		t.Fatalf("build: %v", err)
	}
	if rec.builds != 1 {
		t.Errorf("builds recorded = %d, want 1", rec.builds)
	}

	if _, err := e.Query(ctx, "PR-654321"); err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(rec.queries) != 1 || rec.queries[0] != "pr_lookup" {
		t.Errorf("queries recorded = %v, want [pr_lookup]", rec.queries)
	}
	if rec.parses == 0 {
		t.Error("detail hydration was not recorded")
	}
}
