// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration   *prom.HistogramVec
	compileDuration *prom.HistogramVec
	compiledFiles   *prom.CounterVec
	publishOutcomes *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "menupress",
			Name:      "compile_stage_duration_seconds",
			Help:      "Duration of individual compile stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		compileDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "menupress",
			Name:      "compile_duration_seconds",
			Help:      "Total site compile duration",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"result"}),
		compiledFiles: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "menupress",
			Name:      "compiled_files_total",
			Help:      "Files written by successful compiles, by category",
		}, []string{"category"}),
		publishOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "menupress",
			Name:      "publish_operations_total",
			Help:      "Publishing operations by operation and outcome",
		}, []string{"operation", "outcome"}),
	}
	reg.MustRegister(pr.stageDuration, pr.compileDuration, pr.compiledFiles, pr.publishOutcomes)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveCompileDuration(d time.Duration, success bool) {
	if p == nil {
		return
	}
	p.compileDuration.WithLabelValues(resultLabel(success)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddCompiledFiles(category string, n int) {
	if p == nil {
		return
	}
	p.compiledFiles.WithLabelValues(category).Add(float64(n))
}

func (p *PrometheusRecorder) IncPublishOutcome(op, outcome string) {
	if p == nil {
		return
	}
	p.publishOutcomes.WithLabelValues(op, outcome).Inc()
}

func resultLabel(success bool) string {
	if success {
		return OutcomeSuccess
	}
	return OutcomeFailed
}

// Handler serves the metrics of reg.
func Handler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
