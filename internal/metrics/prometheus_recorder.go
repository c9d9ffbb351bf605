package metrics

import (
	"fmt"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry      *prom.Registry
	stageDuration *prom.HistogramVec
	stageResults  *prom.CounterVec
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	pipeDuration  *prom.HistogramVec
	pagesBuilt    prom.Counter
	bytesWritten  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the pagebuilder metrics on reg
// (a fresh registry when reg is nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "pagebuilder",
		Name:      "stage_duration_seconds",
		Help:      "Duration of individual build stages",
		Buckets:   prom.DefBuckets,
	}, []string{"stage"})
	pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "pagebuilder",
		Name:      "stage_results_total",
		Help:      "Stage result counts by outcome",
	}, []string{"stage", "result"})
	pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "pagebuilder",
		Name:      "build_duration_seconds",
		Help:      "Total build duration",
		Buckets:   prom.DefBuckets,
	})
	pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "pagebuilder",
		Name:      "build_outcomes_total",
		Help:      "Build outcomes by final status",
	}, []string{"outcome"})
	pr.pipeDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "pagebuilder",
		Name:      "pipe_duration_seconds",
		Help:      "Duration of external program invocations (filter, sed)",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5},
	}, []string{"command", "result"})
	pr.pagesBuilt = prom.NewCounter(prom.CounterOpts{
		Namespace: "pagebuilder",
		Name:      "pages_built_total",
		Help:      "Pages written during the build",
	})
	pr.bytesWritten = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "pagebuilder",
		Name:      "bytes_written_total",
		Help:      "Bytes written per artifact kind (page, archive, news, feed)",
	}, []string{"artifact"})
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.buildDuration, pr.buildOutcome, pr.pipeDuration, pr.pagesBuilt, pr.bytesWritten)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

// ObservePipeDuration records one external program run. The command label is
// reduced to its base name to keep cardinality bounded.
func (p *PrometheusRecorder) ObservePipeDuration(command string, d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.pipeDuration.WithLabelValues(filepath.Base(command), res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPagesBuilt() {
	if p == nil {
		return
	}
	p.pagesBuilt.Inc()
}

func (p *PrometheusRecorder) AddBytesWritten(artifact string, n int) {
	if p == nil {
		return
	}
	p.bytesWritten.WithLabelValues(artifact).Add(float64(n))
}

// WriteTextfile writes the current metric values in the Prometheus text
// format, suitable for the node_exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
