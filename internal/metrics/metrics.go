package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"lilt/pkg/domain"
)

// Collector turns run results into Prometheus metrics
type Collector struct {
	// Counters
	runsTotal prometheus.Counter

	// Histograms
	caseDuration prometheus.Histogram

	// Gauges
	lastRunTimestamp prometheus.Gauge
	lastRunDuration  prometheus.Gauge
	lastRunFailed    prometheus.Gauge

	// Labels
	setsTotal   *prometheus.CounterVec
	casesTotal  *prometheus.CounterVec
	growthTotal *prometheus.CounterVec

	registry *prometheus.Registry
	mutex    sync.Mutex
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
	}

	c.initMetrics()
	c.registerMetrics()

	return c
}

func (c *Collector) initMetrics() {
	c.runsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lilt_runs_total",
		Help: "Total number of harness runs recorded",
	})

	c.caseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "lilt_case_duration_seconds",
		Help:    "Time spent running a single test case",
		Buckets: prometheus.ExponentialBuckets(0.00001, 10, 7),
	})

	c.lastRunTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lilt_last_run_timestamp_seconds",
		Help: "Start time of the last recorded run",
	})

	c.lastRunDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lilt_last_run_duration_seconds",
		Help: "Duration of the last recorded run",
	})

	c.lastRunFailed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lilt_last_run_failed_cases",
		Help: "Number of failing cases in the last recorded run",
	})

	c.setsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lilt_sets_total",
		Help: "Test sets run, by result",
	}, []string{"result"})

	c.casesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lilt_cases_total",
		Help: "Test cases run, by set and result",
	}, []string{"set", "result"})

	c.growthTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lilt_registry_growths_total",
		Help: "Case arena growth events, by set",
	}, []string{"set"})
}

func (c *Collector) registerMetrics() {
	c.registry.MustRegister(
		c.runsTotal,
		c.caseDuration,
		c.lastRunTimestamp,
		c.lastRunDuration,
		c.lastRunFailed,
		c.setsTotal,
		c.casesTotal,
		c.growthTotal,
	)
}

// Registry returns the collector's registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordRun adds one run to the metrics
func (c *Collector) RecordRun(run domain.RunResult) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.runsTotal.Inc()
	for _, set := range run.Sets {
		if set.Failed() > 0 {
			c.setsTotal.WithLabelValues("failed").Inc()
		} else {
			c.setsTotal.WithLabelValues("passed").Inc()
		}

		c.casesTotal.WithLabelValues(set.Name, "passed").Add(float64(set.Passed))
		c.casesTotal.WithLabelValues(set.Name, "failed").Add(float64(set.Failed()))
		c.growthTotal.WithLabelValues(set.Name).Add(float64(set.Growths))

		for _, cr := range set.Cases {
			c.caseDuration.Observe(cr.Duration.Seconds())
		}
	}

	passed, total := run.Totals()
	if !run.Started.IsZero() {
		c.lastRunTimestamp.Set(float64(run.Started.UnixNano()) / 1e9)
	}
	c.lastRunDuration.Set(run.Duration.Seconds())
	c.lastRunFailed.Set(float64(total - passed))
}

// WriteTextfile writes the metrics in the text exposition format, for the
// node_exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
