package chain

import (
	"github.com/textileio/collectibles/cmd/collectibled/metrics"
)

func (c *Client) initMetrics() {
	c.metricReads = metrics.Meter.NewInt64Counter(metrics.Prefix + ".chain.reads_total")
	c.metricWrites = metrics.Meter.NewInt64Counter(metrics.Prefix + ".chain.writes_total")
	c.metricWriteDurationMil = metrics.Meter.NewInt64Histogram(metrics.Prefix + ".chain.write_duration_millis")
}
