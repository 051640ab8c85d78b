package engine

import (
	"context"
	"sort"
	"time"

	swrn "github.com/nevindra/swrn"
)

// Delta lists the PRs that entered the corpus in the (from, to] version
// window. An empty from means "since the version preceding to"; reversed
// operands are swapped. A PR already recorded at a version at or below
// the lower bound keeps IsNew=false: it is re-listed, not introduced. The
// leading entries are hydrated for title, component, and module, bounded
// by the hydrate limit.
func (e *Engine) Delta(ctx context.Context, from, to string) (*swrn.Delta, error) {
	start := time.Now()
	ctx, span := e.startSpan(ctx, "engine.delta",
		swrn.StringAttr("from", from), swrn.StringAttr("to", to))

	d, err := e.delta(ctx, from, to)
	e.endSpan(span, err)
	if err == nil {
		e.logger.Debug("engine: delta",
			"from", d.From, "to", d.To,
			"entries", len(d.Entries),
			"duration", time.Since(start))
	}
	return d, err
}

func (e *Engine) delta(ctx context.Context, from, to string) (*swrn.Delta, error) {
	if from == "" {
		from = swrn.PreviousVersion(to)
	}
	fv, tv := swrn.ParseVersion(from), swrn.ParseVersion(to)
	if tv.Less(fv) {
		from, to = to, from
		fv, tv = tv, fv
	}

	rows, err := e.store.AllPRs(ctx)
	if err != nil {
		return nil, err
	}

	inWindow := func(v swrn.Version) bool { return fv.Less(v) && !tv.Less(v) }

	// PRs already present at or below the lower bound
	base := make(map[string]bool)
	for _, r := range rows {
		if !fv.Less(swrn.ParseVersion(r.Version)) {
			base[r.PR] = true
		}
	}

	// one entry per PR, at its earliest version inside the window
	perPR := make(map[string]swrn.PRHit)
	versionSet := make(map[string]bool)
	for _, r := range rows {
		rv := swrn.ParseVersion(r.Version)
		if !inWindow(rv) {
			continue
		}
		versionSet[r.Version] = true
		cur, ok := perPR[r.PR]
		if !ok || rv.Less(swrn.ParseVersion(cur.Version)) {
			perPR[r.PR] = r
		}
	}

	d := &swrn.Delta{
		From: from,
		To:   to,
		Summary: swrn.DeltaSummary{
			ByVersion:   make(map[string]int),
			ByComponent: make(map[string]int),
			ByModule:    make(map[string]int),
		},
	}

	for v := range versionSet {
		d.Versions = append(d.Versions, v)
	}
	sort.Slice(d.Versions, func(i, j int) bool {
		return swrn.ParseVersion(d.Versions[i]).Less(swrn.ParseVersion(d.Versions[j]))
	})

	for pr, r := range perPR {
		d.Entries = append(d.Entries, swrn.DeltaEntry{
			PR:      pr,
			Version: r.Version,
			Type:    r.Type,
			Context: r.Context,
			IsNew:   !base[pr],
		})
	}
	sort.Slice(d.Entries, func(i, j int) bool {
		vi, vj := swrn.ParseVersion(d.Entries[i].Version), swrn.ParseVersion(d.Entries[j].Version)
		if c := vi.Compare(vj); c != 0 {
			return c < 0
		}
		return d.Entries[i].PR < d.Entries[j].PR
	})

	for i := range d.Entries {
		en := &d.Entries[i]
		d.Summary.ByVersion[en.Version]++
		switch en.Type {
		case swrn.PRFeature:
			d.Summary.Features++
		case swrn.PRBugFix:
			d.Summary.Bugs++
		default:
			d.Summary.Unknown++
		}
	}

	// hydrate the leading entries for component/module rollups
	for i := range d.Entries {
		if i >= e.limits.Hydrate {
			break
		}
		en := &d.Entries[i]
		r := perPR[en.PR]
		det, err := e.parseDetail(ctx, r.Filepath, en.PR, r.Page)
		if err != nil || !det.Found {
			continue
		}
		en.Title = det.Title
		en.Component = det.Component
		en.Module = det.Module
		if det.Component != "" {
			d.Summary.ByComponent[det.Component]++
		}
		if det.Module != "" {
			d.Summary.ByModule[det.Module]++
		}
	}
	return d, nil
}
