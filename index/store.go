// Package index implements the persistent SWRN index using pure-Go SQLite
// with FTS5 full-text search over page content. Zero CGO required.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	swrn "github.com/nevindra/swrn"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets a structured logger for the store.
// When set, the store emits debug logs for every operation including
// timing, row counts, and key parameters. If not set, no logs are emitted.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// WithExtractor sets the PDF extractor used by Build. Without one, Build
// fails; queries do not need it.
func WithExtractor(e swrn.Extractor) StoreOption {
	return func(s *Store) { s.extractor = e }
}

// Store is the SWRN index backed by a local SQLite file. Page text lives
// in an FTS5 table; PR occurrences and file metadata in plain tables.
// The store never opens a PDF during queries; only Build touches the
// corpus, through the injected Extractor.
type Store struct {
	db        *sql.DB
	path      string
	logger    *slog.Logger
	extractor swrn.Extractor
}

// nopLogger is a logger that discards all output.
var nopLogger = slog.New(discardHandler{})

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// New creates a Store using a local SQLite file at dbPath.
// It opens a single shared connection pool with SetMaxOpenConns(1) so that
// all goroutines serialize through one connection, eliminating SQLITE_BUSY
// errors caused by concurrent writers opening independent connections.
func New(dbPath string, opts ...StoreOption) *Store {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		// sql.Open only fails when the driver is not registered; with the
		// blank import above that never happens.
		panic(fmt.Sprintf("index: open driver: %v", err))
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db, path: dbPath, logger: nopLogger}
	for _, o := range opts {
		o(s)
	}
	s.logger.Debug("index: store opened", "path", dbPath)
	return s
}

// Init creates all required tables and applies additive migrations.
func (s *Store) Init(ctx context.Context) error {
	start := time.Now()
	s.logger.Debug("index: init started")
	tables := []string{
		`CREATE TABLE IF NOT EXISTS pdf_files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT NOT NULL UNIQUE,
			filepath TEXT NOT NULL,
			sw_version TEXT NOT NULL DEFAULT '',
			file_size INTEGER NOT NULL DEFAULT 0,
			page_count INTEGER NOT NULL DEFAULT 0,
			indexed_at TEXT NOT NULL
		)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS page_content USING fts5(
			file_id UNINDEXED,
			page_num UNINDEXED,
			content,
			tokenize='unicode61'
		)`,
		`CREATE TABLE IF NOT EXISTS pr_index (
			pr_number TEXT NOT NULL,
			file_id INTEGER NOT NULL,
			page_num INTEGER NOT NULL,
			context TEXT NOT NULL DEFAULT '',
			pr_type TEXT NOT NULL DEFAULT 'unknown',
			PRIMARY KEY (pr_number, file_id, page_num)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pr_number ON pr_index(pr_number)`,
	}
	for _, ddl := range tables {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	// Migration for stores created before pr_type existed. Errors are
	// ignored: the column already exists on anything newer.
	_, _ = s.db.ExecContext(ctx, `ALTER TABLE pr_index ADD COLUMN pr_type TEXT NOT NULL DEFAULT 'unknown'`)

	s.logger.Debug("index: init finished", "duration", time.Since(start))
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ready reports swrn.ErrNotIndexed until at least one file has been
// indexed. Queries call it first so a missing or empty index surfaces as
// a typed condition instead of a bare SQL error.
func (s *Store) ready(ctx context.Context) error {
	var tables int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='pdf_files'`).Scan(&tables)
	if err != nil {
		return fmt.Errorf("index readiness: %w", err)
	}
	if tables == 0 {
		return swrn.ErrNotIndexed
	}
	var files int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM pdf_files`).Scan(&files); err != nil {
		return fmt.Errorf("index readiness: %w", err)
	}
	if files == 0 {
		return swrn.ErrNotIndexed
	}
	return nil
}

var ftsTokenRe = regexp.MustCompile(`[\pL\pN_]+`)

// ftsQuery turns free text into a safe FTS5 MATCH expression: each token
// quoted, tokens AND-joined. Empty when the text holds no tokens.
func ftsQuery(text string) string {
	tokens := ftsTokenRe.FindAllString(text, -1)
	if len(tokens) == 0 {
		return ""
	}
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = `"` + t + `"`
	}
	return strings.Join(quoted, " AND ")
}
