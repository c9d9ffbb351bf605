package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/pagebuilder/internal/config"
	dberrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/eventstore"
	"git.home.luguber.info/inful/pagebuilder/internal/generate"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
	"git.home.luguber.info/inful/pagebuilder/internal/observability"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
	"git.home.luguber.info/inful/pagebuilder/internal/pipe"
	"git.home.luguber.info/inful/pagebuilder/internal/site"
	"git.home.luguber.info/inful/pagebuilder/internal/templates"
)

// DefaultBuildService is the standard implementation of BuildService.
type DefaultBuildService struct {
	runner      pipe.Runner
	recorder    metrics.Recorder
	store       eventstore.Store
	progress    io.Writer
	now         func() time.Time
	ownerLookup page.OwnerLookup
	newBuildID  func() string
}

// NewBuildService creates a service that runs external programs for real,
// records nothing and prints no progress lines.
func NewBuildService() *DefaultBuildService {
	return &DefaultBuildService{
		recorder:   metrics.NoopRecorder{},
		progress:   io.Discard,
		now:        time.Now,
		newBuildID: uuid.NewString,
	}
}

// WithRunner replaces the external program runner (filter and sed).
func (s *DefaultBuildService) WithRunner(r pipe.Runner) *DefaultBuildService {
	s.runner = r
	return s
}

func (s *DefaultBuildService) WithRecorder(r metrics.Recorder) *DefaultBuildService {
	if r != nil {
		s.recorder = r
	}
	return s
}

// WithEventStore records build history in store.
func (s *DefaultBuildService) WithEventStore(store eventstore.Store) *DefaultBuildService {
	s.store = store
	return s
}

// WithProgress prints one line per directory, page and aggregate stage to w.
func (s *DefaultBuildService) WithProgress(w io.Writer) *DefaultBuildService {
	if w != nil {
		s.progress = w
	}
	return s
}

func (s *DefaultBuildService) WithClock(now func() time.Time) *DefaultBuildService {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *DefaultBuildService) WithOwnerLookup(lookup page.OwnerLookup) *DefaultBuildService {
	s.ownerLookup = lookup
	return s
}

// Run executes the complete build pipeline.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	startTime := time.Now()
	result := &BuildResult{
		BuildID:   s.newBuildID(),
		StartTime: startTime,
	}
	ctx = observability.WithBuildID(ctx, result.BuildID)

	if req.Config == nil {
		return s.finish(ctx, result, nil, &StageError{Stage: StagePrepare, Err: dberrors.ConfigError("config required").Build()})
	}
	cfg := req.Config
	result.OutputPath = cfg.Paths.Output

	emitter := eventstore.NewEmitter(s.store, result.BuildID)
	if err := emitter.BuildStarted(ctx, eventstore.BuildStarted{
		Source:   cfg.Paths.Source,
		Output:   cfg.Paths.Output,
		Filter:   cfg.Filter.Command,
		Engine:   string(cfg.Templates.Engine),
		Features: features(cfg),
	}); err != nil {
		observability.WarnContext(ctx, "Failed to record build start", logfields.Error(err))
	}

	var (
		builder   *site.Builder
		generator *generate.Generator
	)
	err := s.stage(ctx, StagePrepare, func(ctx context.Context) error {
		if err := config.Validate(cfg); err != nil {
			return err
		}
		builder, generator = s.components(cfg, emitter)
		return nil
	})
	if err != nil {
		return s.finish(ctx, result, emitter, err)
	}

	var pages *page.Collection
	err = s.stage(ctx, StageTraverse, func(ctx context.Context) error {
		observability.InfoContext(ctx, "Building pages", logfields.Path(cfg.Paths.Source))
		var err error
		pages, err = builder.Build(ctx)
		return err
	})
	if err != nil {
		return s.finish(ctx, result, emitter, err)
	}
	result.Pages = pages.Len()

	// Every aggregate page expects newest first.
	_ = s.stage(ctx, StageSort, func(context.Context) error {
		pages.SortByCreated()
		return nil
	})

	type aggregate struct {
		stage    string
		enabled  bool
		progress string
		run      func(context.Context, *page.Collection) (generate.Artifact, error)
	}
	aggregates := []aggregate{
		{StageArchive, cfg.Archive.Enabled, "Building archive...", generator.Archive},
		{StageFeed, cfg.Feed.Enabled, "Building feed...", generator.Feed},
		{StageNews, cfg.News.Mode.Enabled(), "Building news...", generator.News},
	}
	for _, agg := range aggregates {
		if !agg.enabled {
			continue
		}
		err := s.stage(ctx, agg.stage, func(ctx context.Context) error {
			_, _ = fmt.Fprintln(s.progress, agg.progress)
			art, err := agg.run(ctx, pages)
			if err != nil {
				return err
			}
			result.Artifacts = append(result.Artifacts, art)
			if err := emitter.ArtifactWritten(ctx, eventstore.ArtifactWritten{
				Kind: art.Kind, Path: art.Path, Pages: art.Pages, Bytes: art.Bytes,
			}); err != nil {
				observability.WarnContext(ctx, "Failed to record artifact", logfields.Error(err))
			}
			return nil
		})
		if err != nil {
			return s.finish(ctx, result, emitter, err)
		}
	}

	return s.finish(ctx, result, emitter, nil)
}

func (s *DefaultBuildService) components(cfg *config.Config, emitter *eventstore.Emitter) (*site.Builder, *generate.Generator) {
	runner := s.runner
	if runner == nil {
		runner = pipe.NewExecRunner().WithRecorder(s.recorder)
	}

	resolver := page.NewResolver(cfg.Paths.Source, page.NewFilter(cfg.Filter.Command, runner), page.NewMarkerStore(s.now))
	if s.ownerLookup != nil {
		resolver.WithOwnerLookup(s.ownerLookup)
	}
	renderer := templates.NewRendererFromConfig(cfg, runner)

	builder := site.NewBuilder(cfg, resolver, renderer).
		WithRecorder(s.recorder).
		WithClock(s.now).
		WithProgress(s.progress).
		WithObserver(func(ctx context.Context, p *page.Page, n int64) {
			if err := emitter.PageBuilt(ctx, eventstore.PageBuilt{
				SourcePath: p.SourcePath, OutputPath: p.OutputPath, Title: p.Title, Bytes: n,
			}); err != nil {
				observability.WarnContext(ctx, "Failed to record page", logfields.Error(err))
			}
		})
	generator := generate.New(cfg, renderer).WithRecorder(s.recorder).WithClock(s.now)
	return builder, generator
}

// stage runs fn under a stage-scoped context, timing it and recording its
// result. Errors come back as *StageError.
func (s *DefaultBuildService) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	ctx = observability.WithStage(ctx, name)
	observability.DebugContext(ctx, "Stage started")

	err := fn(ctx)
	s.recorder.ObserveStageDuration(name, time.Since(start))
	switch {
	case err == nil:
		s.recorder.IncStageResult(name, metrics.ResultSuccess)
		observability.DebugContext(ctx, "Stage completed", logfields.Duration(time.Since(start)))
		return nil
	case canceled(ctx, err):
		s.recorder.IncStageResult(name, metrics.ResultCanceled)
	default:
		s.recorder.IncStageResult(name, metrics.ResultFatal)
	}
	return &StageError{Stage: name, Err: err}
}

func (s *DefaultBuildService) finish(ctx context.Context, result *BuildResult, emitter *eventstore.Emitter, err error) (*BuildResult, error) {
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	s.recorder.ObserveBuildDuration(result.Duration)

	if err == nil {
		result.Status = BuildStatusSuccess
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
		artifacts := make(map[string]string, len(result.Artifacts))
		for _, a := range result.Artifacts {
			artifacts[a.Kind] = a.Path
		}
		if eerr := emitter.BuildCompleted(ctx, result.Pages, result.Duration, artifacts); eerr != nil {
			observability.WarnContext(ctx, "Failed to record build completion", logfields.Error(eerr))
		}
		observability.InfoContext(ctx, "Build finished",
			logfields.Pages(result.Pages),
			logfields.Duration(result.Duration))
		return result, nil
	}

	var stageErr *StageError
	if errors.As(err, &stageErr) {
		result.FailedStage = stageErr.Stage
	}
	if canceled(ctx, err) {
		result.Status = BuildStatusCancelled
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
	} else {
		result.Status = BuildStatusFailed
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
	}
	if eerr := emitter.BuildFailed(context.WithoutCancel(ctx), result.FailedStage, err.Error()); eerr != nil {
		observability.WarnContext(ctx, "Failed to record build failure", logfields.Error(eerr))
	}
	return result, err
}

// canceled reports whether err ended the run because ctx was canceled. A
// child killed on cancellation may surface as an exit error, so ctx itself
// is consulted too.
func canceled(ctx context.Context, err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil
}

func features(cfg *config.Config) []string {
	var out []string
	if cfg.Archive.Enabled {
		out = append(out, StageArchive)
	}
	if cfg.Feed.Enabled {
		out = append(out, StageFeed)
	}
	if cfg.News.Mode.Enabled() {
		out = append(out, StageNews+":"+string(cfg.News.Mode))
	}
	return out
}
