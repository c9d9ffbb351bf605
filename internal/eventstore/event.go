package eventstore

import "time"

// Event types written by a build.
const (
	TypeBuildStarted    = "BuildStarted"
	TypePageBuilt       = "PageBuilt"
	TypeArtifactWritten = "ArtifactWritten"
	TypeBuildCompleted  = "BuildCompleted"
	TypeBuildFailed     = "BuildFailed"
)

// Event is one recorded step of a build.
type Event interface {
	ID() int64
	BuildID() string
	Type() string
	Timestamp() time.Time
	// Payload is the JSON encoding of the event body.
	Payload() []byte
	Metadata() map[string]string
}

// BaseEvent is the stored form of every event.
type BaseEvent struct {
	EventID        int64
	EventBuildID   string
	EventType      string
	EventTimestamp time.Time
	EventPayload   []byte
	EventMetadata  map[string]string
}

func (e *BaseEvent) ID() int64                   { return e.EventID }
func (e *BaseEvent) BuildID() string             { return e.EventBuildID }
func (e *BaseEvent) Type() string                { return e.EventType }
func (e *BaseEvent) Timestamp() time.Time        { return e.EventTimestamp }
func (e *BaseEvent) Payload() []byte             { return e.EventPayload }
func (e *BaseEvent) Metadata() map[string]string { return e.EventMetadata }
