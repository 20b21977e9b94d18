package sinks

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/althingi-data/umbodsmadur-crawler/internal/progress"
)

// PrometheusSink exports scan progress via Prometheus. It owns all collectors
// for scans started/completed, probes by outcome, and collected cases.
type PrometheusSink struct {
	scansStarted   prometheus.Counter
	scansCompleted *prometheus.CounterVec
	scanRuntime    *prometheus.HistogramVec
	probes         *prometheus.CounterVec
	probeDuration  *prometheus.HistogramVec
	casesFound     prometheus.Counter
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		scansStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "casescan_runs_started_total",
			Help: "Total scan runs that have started.",
		}),
		scansCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casescan_runs_completed_total",
			Help: "Total scan runs completed partitioned by terminal status.",
		}, []string{"status"}),
		scanRuntime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "casescan_run_runtime_seconds",
			Help:    "Wall time per completed scan run.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}, []string{"status"}),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casescan_probes_total",
			Help: "Candidate probes partitioned by fetch outcome.",
		}, []string{"outcome"}),
		probeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "casescan_probe_duration_seconds",
			Help:    "Probe duration (full attempt sequence) by outcome.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"outcome"}),
		casesFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "casescan_cases_found_total",
			Help: "Valid case records collected.",
		}),
	}
	for _, collector := range []prometheus.Collector{
		s.scansStarted,
		s.scansCompleted,
		s.scanRuntime,
		s.probes,
		s.probeDuration,
		s.casesFound,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates the collectors from one event.
func (s *PrometheusSink) Consume(_ context.Context, evt progress.Event) error {
	switch evt.Stage {
	case progress.StageScanStart:
		s.scansStarted.Inc()
	case progress.StageScanDone:
		status := evt.Outcome
		if status == "" {
			status = "unknown"
		}
		s.scansCompleted.WithLabelValues(status).Inc()
		if evt.Dur > 0 {
			s.scanRuntime.WithLabelValues(status).Observe(evt.Dur.Seconds())
		}
	case progress.StageProbeDone:
		s.probes.WithLabelValues(evt.Outcome).Inc()
		if evt.Dur > 0 {
			s.probeDuration.WithLabelValues(evt.Outcome).Observe(evt.Dur.Seconds())
		}
	case progress.StageCaseFound:
		s.casesFound.Inc()
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}
