package metric

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CountFunc returns the number of stored sessions.
type CountFunc func(ctx context.Context) (int, error)

// Collector reports the live session count at scrape time, so the value
// follows store-level changes like the idle sweep without bookkeeping.
type Collector struct {
	count   CountFunc
	timeout time.Duration
	desc    *prometheus.Desc
}

// NewCollector creates a Collector over count.
func NewCollector(count CountFunc) *Collector {
	return &Collector{
		count:   count,
		timeout: 2 * time.Second,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "sessions_active"),
			"Number of sessions currently held in the registry.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector. A failing store reports an
// invalid metric rather than a stale value.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	n, err := c.count(ctx)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.desc, err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(n))
}
