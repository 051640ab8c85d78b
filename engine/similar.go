package engine

import (
	"context"
	"sort"
	"strings"
	"time"

	swrn "github.com/nevindra/swrn"
)

// candidate is one PR under consideration during similar-PR search.
type candidate struct {
	hit      swrn.KeywordHit
	surfaced int // how many keyword queries returned it
	detail   swrn.Detail
	title    string
	content  string
}

// SimilarPRs finds previously reported PRs resembling a free-text problem
// title. Candidates come from FTS queries over extracted WHERE/WHAT
// keywords; each is scored by a blend of exact keyword matching, TF-IDF
// cosine similarity against its detail text, and how many keyword queries
// surfaced it. exclude, when set, names a PR dropped from the results:
// searching with a PR's own title must not report that PR back.
// Strictness 0-3 sets the score cutoff; when a strict query comes back
// empty it retries once at strictness 0.
func (e *Engine) SimilarPRs(ctx context.Context, title, exclude string, strictness int) ([]swrn.SimilarHit, error) {
	start := time.Now()
	ctx, span := e.startSpan(ctx, "engine.similar_prs",
		swrn.StringAttr("title", title),
		swrn.StringAttr("exclude", exclude),
		swrn.IntAttr("strictness", strictness))

	hits, err := e.similarPRs(ctx, title, exclude, strictness)
	e.endSpan(span, err)
	e.logger.Debug("engine: similar prs",
		"title", title,
		"strictness", strictness,
		"hits", len(hits),
		"duration", time.Since(start))
	return hits, err
}

func (e *Engine) similarPRs(ctx context.Context, title, exclude string, strictness int) ([]swrn.SimilarHit, error) {
	if exclude != "" {
		exclude = swrn.NormalizePR(exclude)
	}
	kws := ExtractKeywords(title, e.limits.Keywords)
	if len(kws) == 0 {
		// no recognized vocabulary: fall back to the title's plain tokens
		for _, t := range tokenize(title) {
			kws = append(kws, Keyword{Text: t, Kind: "what"})
			if len(kws) >= e.limits.Keywords {
				break
			}
		}
	}
	kws = e.expandWithSynonyms(kws)
	if len(kws) == 0 {
		return nil, nil
	}

	cands, order, err := e.gatherCandidates(ctx, kws, exclude)
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		return nil, nil
	}

	e.hydrateCandidates(ctx, cands, order)

	// dense similarity over the candidate corpus
	docs := make([]string, 0, len(order))
	for _, pr := range order {
		c := cands[pr]
		docs = append(docs, c.title+" "+c.content)
	}
	model := newTFIDF(docs)
	qv := model.vector(title)

	var scored []swrn.SimilarHit
	for i, pr := range order {
		c := cands[pr]
		dense := cosine(qv, model.vector(docs[i]))
		sparse := float64(c.surfaced) / float64(len(kws))
		score := keywordScore(kws, c.title, c.content) + denseWeight*dense + sparseWeight*sparse

		hit := swrn.SimilarHit{
			PR:       pr,
			Title:    c.title,
			Filename: c.hit.Filename,
			Version:  c.hit.Version,
			Page:     c.hit.Page,
			Score:    score,
		}
		if c.detail.Found {
			d := c.detail
			hit.Detail = &d
		}
		scored = append(scored, hit)
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	out := filterByScore(scored, cutoff(strictness))
	if len(out) == 0 && strictness > 0 {
		out = filterByScore(scored, cutoff(0))
	}
	if len(out) > e.limits.Results {
		out = out[:e.limits.Results]
	}
	return out, nil
}

// expandWithSynonyms appends synonym variants of single-word WHAT
// keywords while the cap allows.
func (e *Engine) expandWithSynonyms(kws []Keyword) []Keyword {
	var singles []string
	for _, k := range kws {
		if k.Kind == "what" && !strings.Contains(k.Text, " ") {
			singles = append(singles, strings.ToLower(k.Text))
		}
	}
	for _, syn := range expandSynonyms(singles) {
		if len(kws) >= e.limits.Keywords {
			break
		}
		kws = append(kws, Keyword{Text: syn, Kind: "what"})
	}
	return kws
}

// gatherCandidates runs one FTS query per keyword and merges the PRs,
// skipping the excluded one. Candidate order follows keyword rank, so the
// strongest query fills the pool first.
func (e *Engine) gatherCandidates(ctx context.Context, kws []Keyword, exclude string) (map[string]*candidate, []string, error) {
	cands := make(map[string]*candidate)
	var order []string
	for _, k := range kws {
		hits, err := e.store.KeywordPRs(ctx, k.Text, e.limits.Candidates)
		if err != nil {
			return nil, nil, err
		}
		for _, h := range hits {
			if h.PR == exclude {
				continue
			}
			if c, ok := cands[h.PR]; ok {
				c.surfaced++
				continue
			}
			if len(order) >= e.limits.Candidates {
				continue
			}
			cands[h.PR] = &candidate{hit: h, surfaced: 1}
			order = append(order, h.PR)
		}
	}
	return cands, order, nil
}

// hydrateCandidates parses details for the leading candidates and fills
// title/content for scoring; past the hydration cap the page snippet
// stands in.
func (e *Engine) hydrateCandidates(ctx context.Context, cands map[string]*candidate, order []string) {
	for i, pr := range order {
		c := cands[pr]
		if i < e.limits.Hydrate {
			d, err := e.parseDetail(ctx, c.hit.Filepath, pr, c.hit.Page)
			if err != nil {
				e.logger.Debug("engine: candidate hydration failed", "pr", pr, "error", err)
			} else if d.Found {
				c.detail = d
			}
		}
		if c.detail.Found {
			c.title = c.detail.Title
			c.content = strings.Join([]string{
				c.detail.IssueOrDescription(),
				c.detail.SolutionOrBenefit(),
				c.detail.RootCause,
				c.detail.Component,
				c.detail.Module,
			}, " ")
		} else {
			c.title = c.hit.Snippet
			c.content = c.hit.Snippet
		}
	}
}

func filterByScore(hits []swrn.SimilarHit, min float64) []swrn.SimilarHit {
	if min <= 0 {
		return hits
	}
	var out []swrn.SimilarHit
	for _, h := range hits {
		if h.Score >= min {
			out = append(out, h)
		}
	}
	return out
}
