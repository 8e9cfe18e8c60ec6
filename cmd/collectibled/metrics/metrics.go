package metrics

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
)

// Prefix is prepended to every collectibled metric name.
const Prefix = "collectibled"

// Meter is the collectibled meter.
var Meter = metric.Must(global.Meter(Prefix))
