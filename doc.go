// Package swrn indexes Software Release Notes (SWRN) PDF documents and
// answers questions about the Problem Reports (PRs) they describe.
//
// It provides modular, interface-driven building blocks: a PDF structural
// extractor, a persistent full-text index store, a PR detail-page parser,
// and a retrieval engine that dispatches free-text queries to exact PR
// lookup, keyword search, similar-PR search, or version-range delta.
//
// # Quick Start
//
//	store := index.New("swrn.db", index.WithExtractor(extract.PDF{}))
//	if err := store.Init(ctx); err != nil { ... }
//	if _, err := store.Build(ctx, "/path/to/swrn", false); err != nil { ... }
//
//	eng := engine.New(store, detail.NewParser(extract.PDF{}))
//	answer, err := eng.Query(ctx, "PR-123456")
//
// # Core Interfaces
//
// The root package defines the contracts that all components implement:
//
//   - [Extractor] — page-wise PDF text extraction
//   - [Tracer] — optional span tracing (observe provides an OTEL backend)
//
// It also holds the domain types ([Occurrence], [Detail], [Delta], ...)
// and the software version comparator ([ParseVersion], [PreviousVersion]).
//
// See the cmd/swrn directory for the command-line reference application.
package swrn
