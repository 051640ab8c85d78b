package observe

import "go.opentelemetry.io/otel/attribute"

// Attribute keys for SWRN metrics.
var (
	AttrIntent = attribute.Key("swrn.intent")
	AttrFailed = attribute.Key("swrn.failed")

	AttrBuildIndexed = attribute.Key("swrn.build.indexed")
	AttrBuildSkipped = attribute.Key("swrn.build.skipped")
)
