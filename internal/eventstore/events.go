package eventstore

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
)

// BuildStarted is emitted once before the source tree is walked.
type BuildStarted struct {
	Source   string   `json:"source"`
	Output   string   `json:"output"`
	Filter   string   `json:"filter"`
	Engine   string   `json:"engine"`
	Features []string `json:"features,omitempty"`
}

// PageBuilt is emitted after each page file is written.
type PageBuilt struct {
	SourcePath string `json:"source_path"`
	OutputPath string `json:"output_path"`
	Title      string `json:"title"`
	Bytes      int64  `json:"bytes"`
}

// ArtifactWritten is emitted for each aggregate page.
type ArtifactWritten struct {
	Kind  string `json:"kind"`
	Path  string `json:"path"`
	Pages int    `json:"pages"`
	Bytes int64  `json:"bytes"`
}

// BuildCompleted closes a successful build.
type BuildCompleted struct {
	Pages      int               `json:"pages"`
	DurationMS int64             `json:"duration_ms"`
	Artifacts  map[string]string `json:"artifacts,omitempty"`
}

// BuildFailed closes a failed build.
type BuildFailed struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
}

func newEvent(buildID, eventType string, body any) (*BaseEvent, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.EventStoreError("failed to marshal "+eventType+" payload").
			WithCause(err).
			WithContext("build_id", buildID).
			Build()
	}
	return &BaseEvent{
		EventBuildID:   buildID,
		EventType:      eventType,
		EventTimestamp: time.Now(),
		EventPayload:   payload,
	}, nil
}

func NewBuildStarted(buildID string, body BuildStarted) (*BaseEvent, error) {
	return newEvent(buildID, TypeBuildStarted, body)
}

func NewPageBuilt(buildID string, body PageBuilt) (*BaseEvent, error) {
	return newEvent(buildID, TypePageBuilt, body)
}

func NewArtifactWritten(buildID string, body ArtifactWritten) (*BaseEvent, error) {
	return newEvent(buildID, TypeArtifactWritten, body)
}

func NewBuildCompleted(buildID string, pages int, duration time.Duration, artifacts map[string]string) (*BaseEvent, error) {
	return newEvent(buildID, TypeBuildCompleted, BuildCompleted{
		Pages:      pages,
		DurationMS: duration.Milliseconds(),
		Artifacts:  artifacts,
	})
}

func NewBuildFailed(buildID, stage, errorMsg string) (*BaseEvent, error) {
	return newEvent(buildID, TypeBuildFailed, BuildFailed{Stage: stage, Error: errorMsg})
}
