package eventstore

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// BuildSummary is the read model of one build.
type BuildSummary struct {
	BuildID      string            `json:"build_id"`
	Status       string            `json:"status"`
	StartedAt    time.Time         `json:"started_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
	Duration     time.Duration     `json:"duration,omitempty"`
	Source       string            `json:"source,omitempty"`
	Output       string            `json:"output,omitempty"`
	Pages        int               `json:"pages"`
	ErrorStage   string            `json:"error_stage,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Artifacts    map[string]string `json:"artifacts,omitempty"`
}

// BuildHistoryProjection folds stored events into build summaries.
type BuildHistoryProjection struct {
	mu      sync.RWMutex
	store   Store
	builds  map[string]*BuildSummary
	history []*BuildSummary // newest first
	maxSize int
}

func NewBuildHistoryProjection(store Store, maxHistorySize int) *BuildHistoryProjection {
	if maxHistorySize <= 0 {
		maxHistorySize = 100
	}
	return &BuildHistoryProjection{
		store:   store,
		builds:  make(map[string]*BuildSummary),
		maxSize: maxHistorySize,
	}
}

// Rebuild reconstructs the projection from every stored event.
func (p *BuildHistoryProjection) Rebuild(ctx context.Context) error {
	events, err := p.store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.builds = make(map[string]*BuildSummary)
	for _, event := range events {
		p.applyEventLocked(event)
	}
	p.reindexLocked()
	return nil
}

// Apply folds a single event into the projection.
func (p *BuildHistoryProjection) Apply(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyEventLocked(event)
	p.reindexLocked()
}

func (p *BuildHistoryProjection) applyEventLocked(event Event) {
	buildID := event.BuildID()
	if buildID == "" {
		return
	}

	summary, exists := p.builds[buildID]
	if !exists {
		summary = &BuildSummary{
			BuildID:   buildID,
			Status:    StatusRunning,
			StartedAt: event.Timestamp(),
		}
		p.builds[buildID] = summary
	}

	switch event.Type() {
	case TypeBuildStarted:
		summary.StartedAt = event.Timestamp()
		summary.Status = StatusRunning
		var payload BuildStarted
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.Source = payload.Source
			summary.Output = payload.Output
		}

	case TypePageBuilt:
		summary.Pages++

	case TypeArtifactWritten:
		var payload ArtifactWritten
		if err := json.Unmarshal(event.Payload(), &payload); err == nil && payload.Kind != "" {
			if summary.Artifacts == nil {
				summary.Artifacts = make(map[string]string)
			}
			summary.Artifacts[payload.Kind] = payload.Path
		}

	case TypeBuildCompleted:
		p.finishLocked(summary, event.Timestamp(), StatusCompleted)
		var payload BuildCompleted
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.Pages = payload.Pages
			for k, v := range payload.Artifacts {
				if summary.Artifacts == nil {
					summary.Artifacts = make(map[string]string)
				}
				summary.Artifacts[k] = v
			}
		}

	case TypeBuildFailed:
		p.finishLocked(summary, event.Timestamp(), StatusFailed)
		var payload BuildFailed
		if err := json.Unmarshal(event.Payload(), &payload); err == nil {
			summary.ErrorStage = payload.Stage
			summary.ErrorMessage = payload.Error
		}
	}
}

func (p *BuildHistoryProjection) finishLocked(summary *BuildSummary, at time.Time, status string) {
	summary.CompletedAt = &at
	summary.Duration = at.Sub(summary.StartedAt)
	summary.Status = status
}

// reindexLocked orders history newest first and drops the oldest builds
// beyond maxSize.
func (p *BuildHistoryProjection) reindexLocked() {
	history := make([]*BuildSummary, 0, len(p.builds))
	for _, s := range p.builds {
		history = append(history, s)
	}
	sort.SliceStable(history, func(i, j int) bool {
		if history[i].StartedAt.Equal(history[j].StartedAt) {
			return history[i].BuildID < history[j].BuildID
		}
		return history[i].StartedAt.After(history[j].StartedAt)
	})
	if len(history) > p.maxSize {
		for _, s := range history[p.maxSize:] {
			delete(p.builds, s.BuildID)
		}
		history = history[:p.maxSize]
	}
	p.history = history
}

// GetHistory returns copies of the build summaries, newest first.
func (p *BuildHistoryProjection) GetHistory() []BuildSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]BuildSummary, len(p.history))
	for i, s := range p.history {
		result[i] = *s
	}
	return result
}

// GetBuild returns the summary for a specific build.
func (p *BuildHistoryProjection) GetBuild(buildID string) (*BuildSummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	summary, exists := p.builds[buildID]
	if !exists {
		return nil, false
	}
	cp := *summary
	return &cp, true
}

// GetLastCompletedBuild returns the most recent build that finished, successfully or not.
func (p *BuildHistoryProjection) GetLastCompletedBuild() *BuildSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, s := range p.history {
		if s.Status != StatusRunning {
			cp := *s
			return &cp
		}
	}
	return nil
}
