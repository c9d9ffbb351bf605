package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/pagebuilder/internal/config"
	"git.home.luguber.info/inful/pagebuilder/internal/generate"
)

// BuildService executes site builds.
type BuildService interface {
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest contains all inputs required to execute a build.
type BuildRequest struct {
	// Config is the validated build context.
	Config *config.Config
}

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	Status  BuildStatus
	BuildID string

	// Pages is the number of pages generated from source files.
	Pages int

	// Artifacts are the aggregate pages written, in the order produced.
	Artifacts []generate.Artifact

	// FailedStage names the stage that aborted the build, if any.
	FailedStage string

	OutputPath string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	BuildStatusSuccess   BuildStatus = "success"
	BuildStatusFailed    BuildStatus = "failed"
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsSuccess returns true if the build completed successfully.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess
}
