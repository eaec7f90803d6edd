package gousset

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MetricName is the name of the summary exported by Collector.
const MetricName = "gousset_call_duration_seconds"

var summaryQuantiles = []float64{0.5, 0.9, 0.99}

// Collector exposes a Recorder as a Prometheus summary per identity,
// labelled with namespace and function.
type Collector struct {
	rec  *Recorder
	desc *prometheus.Desc
}

// NewCollector returns a prometheus.Collector reading from r at scrape time.
func NewCollector(r *Recorder) *Collector {
	return &Collector{
		rec: r,
		desc: prometheus.NewDesc(
			MetricName,
			"Wall-clock duration of instrumented calls.",
			[]string{"namespace", "function"},
			nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, e := range c.rec.List() {
		samples, ok := c.rec.Samples(e.Namespace, e.Name)
		if !ok || len(samples) == 0 {
			continue
		}
		sorted := sortedCopy(samples)
		quantiles := make(map[float64]float64, len(summaryQuantiles))
		for _, q := range summaryQuantiles {
			quantiles[q] = stat.Quantile(q, stat.Empirical, sorted, nil)
		}

		m, err := prometheus.NewConstSummary(
			c.desc,
			uint64(len(samples)),
			floats.Sum(samples),
			quantiles,
			e.Namespace,
			e.Name,
		)
		if err != nil {
			ch <- prometheus.NewInvalidMetric(c.desc, err)
			continue
		}
		ch <- m
	}
}

// WritePrometheus writes r in the Prometheus text exposition format.
func WritePrometheus(w io.Writer, r *Recorder) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector(r)); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
