package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// BuildOutcomeLabel is the final status of a build run.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for build, stage and external
// program metrics. Implementations may forward to Prometheus.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	ObservePipeDuration(command string, d time.Duration, success bool)
	IncPagesBuilt()
	AddBytesWritten(artifact string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)     {}
func (NoopRecorder) IncStageResult(string, ResultLabel)             {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)             {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)              {}
func (NoopRecorder) ObservePipeDuration(string, time.Duration, bool) {}
func (NoopRecorder) IncPagesBuilt()                                 {}
func (NoopRecorder) AddBytesWritten(string, int)                    {}
