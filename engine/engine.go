// Package engine is the SWRN retrieval engine. It classifies free-text
// questions into one of four intents (exact PR lookup, version-range
// delta, keyword search, similar-PR search) and answers each from the
// persistent index, hydrating PR details from the PDFs on demand.
//
// An Engine is a long-lived service object: construct it once at startup
// with its store and parser and share it across requests.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	swrn "github.com/nevindra/swrn"
)

// Store is the index surface the engine needs.
type Store interface {
	SearchText(ctx context.Context, query string, limit int) ([]swrn.TextHit, error)
	KeywordPRs(ctx context.Context, query string, limit int) ([]swrn.KeywordHit, error)
	SearchPR(ctx context.Context, pr string) ([]swrn.PRHit, error)
	AllPRs(ctx context.Context) ([]swrn.PRHit, error)
	Stats(ctx context.Context) (swrn.Stats, error)
	Build(ctx context.Context, folder string, force bool) (swrn.BuildResult, error)
}

// DetailParser hydrates one PR's detail page from a PDF on disk.
type DetailParser interface {
	Parse(path, pr string, hintPage int) (swrn.Detail, error)
}

// Limits bound the work one query may do.
type Limits struct {
	Results    int // hits returned per query
	Candidates int // candidate PRs considered in similar search
	Hydrate    int // details parsed per query
	Keywords   int // extracted keywords cap
}

func defaultLimits() Limits {
	return Limits{Results: 10, Candidates: 30, Hydrate: 10, Keywords: 10}
}

// defaultBase completes short version tokens like "SP33" in questions.
const defaultBase = "1.8.4"

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a structured logger for the engine.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithTracer sets a span tracer. Without one, span creation is skipped.
func WithTracer(t swrn.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// WithMetrics sets a metrics sink. Without one, nothing is recorded.
func WithMetrics(m swrn.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLimits overrides the per-query work bounds. Zero fields keep their
// defaults.
func WithLimits(l Limits) Option {
	return func(e *Engine) {
		if l.Results > 0 {
			e.limits.Results = l.Results
		}
		if l.Candidates > 0 {
			e.limits.Candidates = l.Candidates
		}
		if l.Hydrate > 0 {
			e.limits.Hydrate = l.Hydrate
		}
		if l.Keywords > 0 {
			e.limits.Keywords = l.Keywords
		}
	}
}

// WithBaseVersion sets the release base used to complete short version
// tokens ("SP33" -> "1.8.4-SP33").
func WithBaseVersion(base string) Option {
	return func(e *Engine) { e.base = base }
}

// WithCorpus sets the release-notes folder used by Build and Update.
func WithCorpus(folder string) Option {
	return func(e *Engine) { e.folder = folder }
}

// Engine answers questions about the indexed release notes.
type Engine struct {
	store   Store
	parser  DetailParser
	logger  *slog.Logger
	tracer  swrn.Tracer
	metrics swrn.Metrics
	base    string
	folder  string
	limits  Limits
}

var nopLogger = slog.New(discardHandler{})

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// New creates an Engine over a store and detail parser.
func New(store Store, parser DetailParser, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		parser: parser,
		logger: nopLogger,
		base:   defaultBase,
		limits: defaultLimits(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Answer is the result of a dispatched query. Exactly one of the payload
// fields is populated, matching Intent.
type Answer struct {
	Intent  Intent
	Query   Query
	PR      *PRAnswer
	Keyword []swrn.KeywordHit
	Similar []swrn.SimilarHit
	Delta   *swrn.Delta
}

// PRAnswer is an exact PR lookup result: every file the PR appears in
// (newest version first) plus the hydrated detail from the newest one.
type PRAnswer struct {
	PR     string       `json:"pr"`
	Hits   []swrn.PRHit `json:"hits"`
	Detail swrn.Detail  `json:"detail"`
}

// Query classifies text and dispatches to the matching operation.
func (e *Engine) Query(ctx context.Context, text string) (Answer, error) {
	start := time.Now()
	q := Classify(text, e.base)
	ctx, span := e.startSpan(ctx, "engine.query",
		swrn.StringAttr("intent", q.Intent.String()))

	a := Answer{Intent: q.Intent, Query: q}
	var err error
	switch q.Intent {
	case IntentPRLookup:
		a.PR, err = e.LookupPR(ctx, q.PR)
	case IntentDelta:
		a.Delta, err = e.Delta(ctx, q.From, q.To)
	case IntentKeyword:
		a.Keyword, err = e.SearchKeyword(ctx, q.Text, e.limits.Results)
	default:
		a.Similar, err = e.SimilarPRs(ctx, q.Text, "", 1)
	}

	e.endSpan(span, err)
	if e.metrics != nil {
		e.metrics.RecordQuery(ctx, q.Intent.String(), time.Since(start), err != nil)
	}
	e.logger.Debug("engine: query",
		"intent", q.Intent.String(),
		"error", err != nil,
		"duration", time.Since(start))
	return a, err
}

// LookupPR returns every file a PR appears in plus its hydrated detail.
// A PR absent from the index yields swrn.ErrPRNotFound.
func (e *Engine) LookupPR(ctx context.Context, pr string) (*PRAnswer, error) {
	start := time.Now()
	pr = swrn.NormalizePR(pr)
	ctx, span := e.startSpan(ctx, "engine.lookup_pr", swrn.StringAttr("pr", pr))
	defer func() { e.endSpan(span, nil) }()

	hits, err := e.store.SearchPR(ctx, pr)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, &swrn.ErrPRNotFound{PR: pr}
	}

	ans := &PRAnswer{PR: pr, Hits: hits}
	// hydrate from the newest file; degrade gracefully if the PDF has
	// gone unreadable since indexing
	d, err := e.parseDetail(ctx, hits[0].Filepath, pr, hits[0].Page)
	if err != nil {
		e.logger.Debug("engine: detail hydration failed", "pr", pr, "error", err)
	} else {
		ans.Detail = d
	}

	e.logger.Debug("engine: pr lookup",
		"pr", pr, "files", len(hits), "duration", time.Since(start))
	return ans, nil
}

// SearchKeyword finds PRs whose pages match all words of the topic.
func (e *Engine) SearchKeyword(ctx context.Context, topic string, limit int) ([]swrn.KeywordHit, error) {
	if limit <= 0 {
		limit = e.limits.Results
	}
	ctx, span := e.startSpan(ctx, "engine.search_keyword", swrn.StringAttr("topic", topic))
	hits, err := e.store.KeywordPRs(ctx, topic, limit)
	e.endSpan(span, err)
	if err != nil {
		return nil, err
	}
	return hits, nil
}

// SearchText runs a raw full-text search over page content.
func (e *Engine) SearchText(ctx context.Context, query string, limit int) ([]swrn.TextHit, error) {
	if limit <= 0 {
		limit = e.limits.Results
	}
	return e.store.SearchText(ctx, query, limit)
}

// Status reports the index state.
func (e *Engine) Status(ctx context.Context) (swrn.Stats, error) {
	return e.store.Stats(ctx)
}

// Build indexes the configured corpus folder from scratch when force is
// set, incrementally otherwise.
func (e *Engine) Build(ctx context.Context, force bool) (swrn.BuildResult, error) {
	if e.folder == "" {
		return swrn.BuildResult{}, errors.New("engine: no corpus folder configured")
	}
	start := time.Now()
	ctx, span := e.startSpan(ctx, "engine.build", swrn.BoolAttr("force", force))
	res, err := e.store.Build(ctx, e.folder, force)
	e.endSpan(span, err)
	if err != nil {
		return res, fmt.Errorf("build corpus: %w", err)
	}
	if e.metrics != nil {
		e.metrics.RecordBuild(ctx, time.Since(start), res)
	}
	return res, nil
}

// Update picks up PDFs added to the corpus since the last build.
func (e *Engine) Update(ctx context.Context) (swrn.BuildResult, error) {
	return e.Build(ctx, false)
}

// parseDetail times one detail hydration for the metrics sink.
func (e *Engine) parseDetail(ctx context.Context, path, pr string, hintPage int) (swrn.Detail, error) {
	start := time.Now()
	d, err := e.parser.Parse(path, pr, hintPage)
	if e.metrics != nil {
		e.metrics.RecordDetailParse(ctx, time.Since(start))
	}
	return d, err
}

func (e *Engine) startSpan(ctx context.Context, name string, attrs ...swrn.SpanAttr) (context.Context, swrn.Span) {
	if e.tracer == nil {
		return ctx, nil
	}
	return e.tracer.Start(ctx, name, attrs...)
}

func (e *Engine) endSpan(span swrn.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.Error(err)
	}
	span.End()
}
