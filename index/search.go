package index

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	swrn "github.com/nevindra/swrn"
)

const defaultLimit = 20

// SearchText runs an FTS5 full-text search over page content. Results are
// sorted by relevance (FTS5 rank is negative, closer to 0 = better; -rank
// is reported as the score).
func (s *Store) SearchText(ctx context.Context, query string, limit int) ([]swrn.TextHit, error) {
	start := time.Now()
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT f.filename, f.sw_version,
		       CAST(page_content.page_num AS INTEGER),
		       snippet(page_content, 2, '<b>', '</b>', ' … ', 24),
		       page_content.rank
		FROM page_content
		JOIN pdf_files f ON f.id = CAST(page_content.file_id AS INTEGER)
		WHERE page_content MATCH ?
		ORDER BY rank
		LIMIT ?`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("search text: %w", err)
	}
	defer rows.Close()

	var hits []swrn.TextHit
	for rows.Next() {
		var h swrn.TextHit
		var rank float64
		if err := rows.Scan(&h.Filename, &h.Version, &h.Page, &h.Snippet, &rank); err != nil {
			return nil, fmt.Errorf("scan text hit: %w", err)
		}
		if score := -rank; score > 0 {
			h.Score = score
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search text rows: %w", err)
	}
	s.logger.Debug("index: text search", "query", query, "hits", len(hits), "duration", time.Since(start))
	return hits, nil
}

// KeywordPRs finds PRs recorded on pages matching the query. Each PR is
// reported once, at its best-ranked page.
func (s *Store) KeywordPRs(ctx context.Context, query string, limit int) ([]swrn.KeywordHit, error) {
	start := time.Now()
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.pr_number, f.filename, f.filepath, f.sw_version,
		       CAST(page_content.page_num AS INTEGER),
		       snippet(page_content, 2, '', '', ' … ', 24)
		FROM page_content
		JOIN pdf_files f ON f.id = CAST(page_content.file_id AS INTEGER)
		JOIN pr_index p ON p.file_id = CAST(page_content.file_id AS INTEGER)
		                AND p.page_num = CAST(page_content.page_num AS INTEGER)
		WHERE page_content MATCH ?
		ORDER BY rank
		LIMIT 100`, match)
	if err != nil {
		return nil, fmt.Errorf("keyword prs: %w", err)
	}
	defer rows.Close()

	var hits []swrn.KeywordHit
	seen := make(map[string]bool)
	for rows.Next() {
		var h swrn.KeywordHit
		if err := rows.Scan(&h.PR, &h.Filename, &h.Filepath, &h.Version, &h.Page, &h.Snippet); err != nil {
			return nil, fmt.Errorf("scan keyword hit: %w", err)
		}
		if seen[h.PR] {
			continue
		}
		seen[h.PR] = true
		hits = append(hits, h)
		if len(hits) >= limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("keyword prs rows: %w", err)
	}
	s.logger.Debug("index: keyword prs", "query", query, "hits", len(hits), "duration", time.Since(start))
	return hits, nil
}

// SearchPR returns the files a PR appears in, one hit per file at the
// highest page number, sorted newest software version first.
func (s *Store) SearchPR(ctx context.Context, pr string) ([]swrn.PRHit, error) {
	start := time.Now()
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	pr = swrn.NormalizePR(pr)

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.pr_number, f.filename, f.filepath, f.sw_version,
		       MAX(p.page_num), p.context, p.pr_type
		FROM pr_index p
		JOIN pdf_files f ON f.id = p.file_id
		WHERE p.pr_number = ?
		GROUP BY f.id`, pr)
	if err != nil {
		return nil, fmt.Errorf("search pr: %w", err)
	}
	defer rows.Close()

	var hits []swrn.PRHit
	for rows.Next() {
		var h swrn.PRHit
		var typ string
		if err := rows.Scan(&h.PR, &h.Filename, &h.Filepath, &h.Version, &h.Page, &h.Context, &typ); err != nil {
			return nil, fmt.Errorf("scan pr hit: %w", err)
		}
		h.Type = swrn.PRType(typ)
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search pr rows: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return swrn.ParseVersion(hits[j].Version).Less(swrn.ParseVersion(hits[i].Version))
	})

	s.logger.Debug("index: pr search", "pr", pr, "files", len(hits), "duration", time.Since(start))
	return hits, nil
}

// PRsOnPage lists the PR numbers recorded on one page of one file.
func (s *Store) PRsOnPage(ctx context.Context, fileID int64, page int) ([]string, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT pr_number FROM pr_index WHERE file_id = ? AND page_num = ? ORDER BY pr_number`,
		fileID, page)
	if err != nil {
		return nil, fmt.Errorf("prs on page: %w", err)
	}
	defer rows.Close()
	var prs []string
	for rows.Next() {
		var pr string
		if err := rows.Scan(&pr); err != nil {
			return nil, fmt.Errorf("scan pr: %w", err)
		}
		prs = append(prs, pr)
	}
	return prs, rows.Err()
}

// AllPRs returns every recorded occurrence row with its file provenance,
// for delta computation.
func (s *Store) AllPRs(ctx context.Context) ([]swrn.PRHit, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.pr_number, f.filename, f.filepath, f.sw_version, p.page_num, p.context, p.pr_type
		FROM pr_index p
		JOIN pdf_files f ON f.id = p.file_id
		ORDER BY p.pr_number, f.sw_version`)
	if err != nil {
		return nil, fmt.Errorf("all prs: %w", err)
	}
	defer rows.Close()

	var hits []swrn.PRHit
	for rows.Next() {
		var h swrn.PRHit
		var typ string
		if err := rows.Scan(&h.PR, &h.Filename, &h.Filepath, &h.Version, &h.Page, &h.Context, &typ); err != nil {
			return nil, fmt.Errorf("scan pr row: %w", err)
		}
		h.Type = swrn.PRType(typ)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Stats describes the index state. An unbuilt index reports
// Indexed=false rather than an error.
func (s *Store) Stats(ctx context.Context) (swrn.Stats, error) {
	var st swrn.Stats
	if err := s.ready(ctx); err != nil {
		if err == swrn.ErrNotIndexed {
			return st, nil
		}
		return st, err
	}
	st.Indexed = true

	row := s.db.QueryRowContext(ctx, `
		SELECT count(*), COALESCE(sum(page_count), 0) FROM pdf_files`)
	if err := row.Scan(&st.FileCount, &st.TotalPages); err != nil {
		return st, fmt.Errorf("stats files: %w", err)
	}
	row = s.db.QueryRowContext(ctx, `
		SELECT count(*), count(DISTINCT pr_number) FROM pr_index`)
	if err := row.Scan(&st.PREntries, &st.UniquePRs); err != nil {
		return st, fmt.Errorf("stats prs: %w", err)
	}
	if info, err := os.Stat(s.path); err == nil {
		st.DBSizeMB = float64(info.Size()) / (1024 * 1024)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT filename, sw_version, page_count FROM pdf_files ORDER BY filename`)
	if err != nil {
		return st, fmt.Errorf("stats listing: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var f swrn.FileStat
		if err := rows.Scan(&f.Filename, &f.Version, &f.Pages); err != nil {
			return st, fmt.Errorf("scan file stat: %w", err)
		}
		st.Files = append(st.Files, f)
	}
	return st, rows.Err()
}
