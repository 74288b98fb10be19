package dataspace

import (
	"fmt"
	"io"

	"github.com/VictoriaMetrics/metrics"
)

// clientMetrics groups the counters of one Client. Each client owns its own set so
// independent clients (e.g. in tests) never share counts.
type clientMetrics struct {
	set             *metrics.Set
	retries         *metrics.Counter
	failures        *metrics.Counter
	connects        *metrics.Counter
	connectFailures *metrics.Counter
	duration        *metrics.Histogram
}

func newClientMetrics(set *metrics.Set) *clientMetrics {
	if set == nil {
		set = metrics.NewSet()
	}
	return &clientMetrics{
		set:             set,
		retries:         set.GetOrCreateCounter("redisds_command_retries_total"),
		failures:        set.GetOrCreateCounter("redisds_command_failures_total"),
		connects:        set.GetOrCreateCounter("redisds_connects_total"),
		connectFailures: set.GetOrCreateCounter("redisds_connect_failures_total"),
		duration:        set.GetOrCreateHistogram("redisds_command_duration_seconds"),
	}
}

// command returns the per-command counter, e.g. redisds_commands_total{cmd="GET"}
func (m *clientMetrics) command(cmd string) *metrics.Counter {
	return m.set.GetOrCreateCounter(fmt.Sprintf("redisds_commands_total{cmd=%q}", cmd))
}

// WriteMetrics writes the client's metrics in Prometheus text format.
func (c *Client) WriteMetrics(w io.Writer) {
	c.metrics.set.WritePrometheus(w)
}
