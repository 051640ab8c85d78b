package swrn

import (
	"context"
	"time"
)

// Metrics receives operation measurements from the engine. Implementations
// must be safe for concurrent use. Components treat a nil Metrics as "record
// nothing".
type Metrics interface {
	// RecordQuery counts one dispatched query with its intent and duration.
	RecordQuery(ctx context.Context, intent string, elapsed time.Duration, failed bool)
	// RecordBuild records one indexing run.
	RecordBuild(ctx context.Context, elapsed time.Duration, result BuildResult)
	// RecordDetailParse records one detail page hydration.
	RecordDetailParse(ctx context.Context, elapsed time.Duration)
}
