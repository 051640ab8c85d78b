package observe

import (
	"context"
	"time"

	swrn "github.com/nevindra/swrn"

	"go.opentelemetry.io/otel/metric"
)

// RecordQuery counts one query and records its duration, labeled by intent.
func (i *Instruments) RecordQuery(ctx context.Context, intent string, elapsed time.Duration, failed bool) {
	attrs := metric.WithAttributes(AttrIntent.String(intent), AttrFailed.Bool(failed))
	i.Queries.Add(ctx, 1, attrs)
	i.QueryDuration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
}

// RecordBuild records one indexing run's duration and volume.
func (i *Instruments) RecordBuild(ctx context.Context, elapsed time.Duration, res swrn.BuildResult) {
	i.BuildDuration.Record(ctx, float64(elapsed)/float64(time.Millisecond),
		metric.WithAttributes(
			AttrBuildIndexed.Int(res.Indexed),
			AttrBuildSkipped.Int(res.Skipped)))
	i.PagesIndexed.Add(ctx, int64(res.Pages))
	i.PRsIndexed.Add(ctx, int64(res.PRs))
}

// RecordDetailParse records one detail page parse.
func (i *Instruments) RecordDetailParse(ctx context.Context, elapsed time.Duration) {
	i.DetailParses.Record(ctx, float64(elapsed)/float64(time.Millisecond))
}

var _ swrn.Metrics = (*Instruments)(nil)
