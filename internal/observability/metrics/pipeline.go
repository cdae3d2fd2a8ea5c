package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

// PipelineMetrics records run and candidate outcomes of the prospecting
// pipeline.
type PipelineMetrics struct {
	service string

	runsTotal         *prometheus.CounterVec
	runDuration       *prometheus.HistogramVec
	prospectsProduced *prometheus.CounterVec
	skippedTotal      *prometheus.CounterVec
	candidatesTotal   *prometheus.CounterVec
	clustersTotal     *prometheus.CounterVec
	adsTotal          *prometheus.CounterVec
}

func NewPipelineMetrics(service string, registerer prometheus.Registerer) *PipelineMetrics {
	runsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total runs by mode and terminal state.",
		},
		[]string{"service", "mode", "state"},
	)
	runDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Run duration in seconds by mode.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"service", "mode"},
	)
	prospectsProduced := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "prospects_produced_total",
			Help:      "Total prospects persisted by runs.",
		},
		[]string{"service", "mode"},
	)
	skippedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "candidates_skipped_total",
			Help:      "Total candidates skipped by runs, summed at run end.",
		},
		[]string{"service", "mode"},
	)
	candidatesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "candidate_outcomes_total",
			Help:      "Candidate outcomes as they happen.",
		},
		[]string{"service", "outcome"},
	)
	clustersTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "clusters_total",
			Help:      "Total clusters persisted.",
		},
		[]string{"service"},
	)
	adsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "ads_total",
			Help:      "Total ads persisted.",
		},
		[]string{"service"},
	)

	registerer.MustRegister(runsTotal, runDuration, prospectsProduced, skippedTotal, candidatesTotal, clustersTotal, adsTotal)

	return &PipelineMetrics{
		service:           service,
		runsTotal:         runsTotal,
		runDuration:       runDuration,
		prospectsProduced: prospectsProduced,
		skippedTotal:      skippedTotal,
		candidatesTotal:   candidatesTotal,
		clustersTotal:     clustersTotal,
		adsTotal:          adsTotal,
	}
}

func (m *PipelineMetrics) RecordRun(mode domain.RunMode, state domain.RunState, summary domain.RunSummary, seconds float64) {
	modeLabel := string(mode)
	if modeLabel == "" {
		modeLabel = "unknown"
	}
	m.runsTotal.WithLabelValues(m.service, modeLabel, string(state)).Inc()
	m.runDuration.WithLabelValues(m.service, modeLabel).Observe(seconds)
	if summary.Produced > 0 {
		m.prospectsProduced.WithLabelValues(m.service, modeLabel).Add(float64(summary.Produced))
	}
	if summary.Skipped > 0 {
		m.skippedTotal.WithLabelValues(m.service, modeLabel).Add(float64(summary.Skipped))
	}
}

func (m *PipelineMetrics) RecordCandidate(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.candidatesTotal.WithLabelValues(m.service, outcome).Inc()
}

func (m *PipelineMetrics) RecordClusters(clusters, ads int) {
	if clusters > 0 {
		m.clustersTotal.WithLabelValues(m.service).Add(float64(clusters))
	}
	if ads > 0 {
		m.adsTotal.WithLabelValues(m.service).Add(float64(ads))
	}
}
