package eventstore

import (
	"context"
	"time"
)

// Emitter persists build lifecycle events for one build. A nil store makes
// every method a no-op, so callers need no history checks.
type Emitter struct {
	store   Store
	buildID string
}

func NewEmitter(store Store, buildID string) *Emitter {
	return &Emitter{store: store, buildID: buildID}
}

func (e *Emitter) BuildID() string { return e.buildID }

// Emit persists event.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if e == nil || e.store == nil {
		return nil
	}
	return e.store.Append(ctx, event.BuildID(), event.Type(), event.Payload(), event.Metadata())
}

func (e *Emitter) emit(ctx context.Context, event *BaseEvent, err error) error {
	if err != nil {
		return err
	}
	return e.Emit(ctx, event)
}

func (e *Emitter) BuildStarted(ctx context.Context, body BuildStarted) error {
	if e == nil || e.store == nil {
		return nil
	}
	event, err := NewBuildStarted(e.buildID, body)
	return e.emit(ctx, event, err)
}

func (e *Emitter) PageBuilt(ctx context.Context, body PageBuilt) error {
	if e == nil || e.store == nil {
		return nil
	}
	event, err := NewPageBuilt(e.buildID, body)
	return e.emit(ctx, event, err)
}

func (e *Emitter) ArtifactWritten(ctx context.Context, body ArtifactWritten) error {
	if e == nil || e.store == nil {
		return nil
	}
	event, err := NewArtifactWritten(e.buildID, body)
	return e.emit(ctx, event, err)
}

func (e *Emitter) BuildCompleted(ctx context.Context, pages int, duration time.Duration, artifacts map[string]string) error {
	if e == nil || e.store == nil {
		return nil
	}
	event, err := NewBuildCompleted(e.buildID, pages, duration, artifacts)
	return e.emit(ctx, event, err)
}

func (e *Emitter) BuildFailed(ctx context.Context, stage, errorMsg string) error {
	if e == nil || e.store == nil {
		return nil
	}
	event, err := NewBuildFailed(e.buildID, stage, errorMsg)
	return e.emit(ctx, event, err)
}
