package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	swrn "github.com/nevindra/swrn"
	"github.com/nevindra/swrn/extract"
)

// Build indexes every PDF in folder. Files already present in the index
// are matched by filename and skipped unless force is set; force wipes the
// index first. A changed file that kept its name is therefore not
// re-indexed without force.
//
// Per-file extraction failures are collected into the result and do not
// abort the run.
func (s *Store) Build(ctx context.Context, folder string, force bool) (swrn.BuildResult, error) {
	start := time.Now()
	result := swrn.BuildResult{RunID: swrn.NewID()}
	s.logger.Debug("index: build started", "run_id", result.RunID, "folder", folder, "force", force)

	if s.extractor == nil {
		return result, fmt.Errorf("build: no extractor configured")
	}
	if err := s.Init(ctx); err != nil {
		return result, fmt.Errorf("build: %w", err)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return result, &swrn.ErrCorpus{Folder: folder, Reason: "cannot read folder"}
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return result, &swrn.ErrCorpus{Folder: folder, Reason: "no PDF files"}
	}
	sort.Strings(names)

	if force {
		for _, table := range []string{"pr_index", "page_content", "pdf_files"} {
			if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return result, fmt.Errorf("build: wipe %s: %w", table, err)
			}
		}
	}

	indexed, err := s.indexedFilenames(ctx)
	if err != nil {
		return result, fmt.Errorf("build: %w", err)
	}

	for _, name := range names {
		if indexed[name] {
			result.Skipped++
			continue
		}
		path := filepath.Join(folder, name)
		pages, prs, err := s.indexFile(ctx, path, name)
		if err != nil {
			s.logger.Debug("index: file failed", "file", name, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		result.Indexed++
		result.Pages += pages
		result.PRs += prs
	}

	s.logger.Debug("index: build finished",
		"run_id", result.RunID,
		"indexed", result.Indexed,
		"skipped", result.Skipped,
		"pages", result.Pages,
		"prs", result.PRs,
		"errors", len(result.Errors),
		"duration", time.Since(start))
	return result, nil
}

func (s *Store) indexedFilenames(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT filename FROM pdf_files`)
	if err != nil {
		return nil, fmt.Errorf("list indexed files: %w", err)
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan filename: %w", err)
		}
		out[name] = true
	}
	return out, rows.Err()
}

// indexFile extracts one PDF and writes its pages and PR occurrences in a
// single transaction.
func (s *Store) indexFile(ctx context.Context, path, name string) (pages, prs int, err error) {
	start := time.Now()

	doc, err := s.extractor.Extract(path)
	if err != nil {
		return 0, 0, fmt.Errorf("extract: %w", err)
	}

	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO pdf_files (filename, filepath, sw_version, file_size, page_count, indexed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		name, path, swrn.FromFilename(name), size, doc.PageCount,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, 0, fmt.Errorf("insert file: %w", err)
	}
	fileID, err := res.LastInsertId()
	if err != nil {
		return 0, 0, fmt.Errorf("file id: %w", err)
	}

	for _, page := range doc.Pages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO page_content (file_id, page_num, content) VALUES (?, ?, ?)`,
			fileID, page.Num, page.Text); err != nil {
			return 0, 0, fmt.Errorf("insert page %d: %w", page.Num, err)
		}
		for _, occ := range extract.FindOccurrences(page.Text) {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO pr_index (pr_number, file_id, page_num, context, pr_type)
				 VALUES (?, ?, ?, ?, ?)`,
				occ.PR, fileID, page.Num, occ.Context, string(occ.Type)); err != nil {
				return 0, 0, fmt.Errorf("insert pr %s: %w", occ.PR, err)
			}
			prs++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit: %w", err)
	}

	s.logger.Debug("index: file indexed",
		"file", name,
		"pages", len(doc.Pages),
		"prs", prs,
		"duration", time.Since(start))
	return len(doc.Pages), prs, nil
}
