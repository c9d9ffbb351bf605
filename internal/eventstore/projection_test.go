package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(MemoryDatabase)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestEmitterAndProjection(t *testing.T) {
	store := newMemoryStore(t)
	ctx := t.Context()

	ok := NewEmitter(store, "build-ok")
	require.NoError(t, ok.BuildStarted(ctx, BuildStarted{Source: "./src", Output: "./build", Filter: "cat", Engine: "builtin"}))
	require.NoError(t, ok.PageBuilt(ctx, PageBuilt{SourcePath: "a.md", OutputPath: "/a.html", Title: "a", Bytes: 10}))
	require.NoError(t, ok.PageBuilt(ctx, PageBuilt{SourcePath: "index.md", OutputPath: "/index.html", Title: "Home", Bytes: 12}))
	require.NoError(t, ok.ArtifactWritten(ctx, ArtifactWritten{Kind: "archive", Path: "archive.html", Pages: 2}))
	require.NoError(t, ok.BuildCompleted(ctx, 2, 1500*time.Millisecond, map[string]string{"feed": "atom.xml"}))

	bad := NewEmitter(store, "build-bad")
	require.NoError(t, bad.BuildStarted(ctx, BuildStarted{Source: "./src"}))
	require.NoError(t, bad.BuildFailed(ctx, "traverse", "run cat: exit status 1"))

	projection := NewBuildHistoryProjection(store, 10)
	require.NoError(t, projection.Rebuild(ctx))

	history := projection.GetHistory()
	require.Len(t, history, 2)

	summary, found := projection.GetBuild("build-ok")
	require.True(t, found)
	assert.Equal(t, StatusCompleted, summary.Status)
	assert.Equal(t, 2, summary.Pages)
	assert.Equal(t, "./src", summary.Source)
	assert.Equal(t, map[string]string{"archive": "archive.html", "feed": "atom.xml"}, summary.Artifacts)
	require.NotNil(t, summary.CompletedAt)

	failed, found := projection.GetBuild("build-bad")
	require.True(t, found)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "traverse", failed.ErrorStage)
	assert.Equal(t, "run cat: exit status 1", failed.ErrorMessage)

	assert.NotNil(t, projection.GetLastCompletedBuild())
}

func TestProjectionApplyAndTrim(t *testing.T) {
	projection := NewBuildHistoryProjection(newMemoryStore(t), 2)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"b1", "b2", "b3"} {
		projection.Apply(&BaseEvent{
			EventBuildID:   id,
			EventType:      TypeBuildStarted,
			EventTimestamp: base.Add(time.Duration(i) * time.Minute),
			EventPayload:   []byte(`{}`),
		})
	}

	history := projection.GetHistory()
	require.Len(t, history, 2)
	assert.Equal(t, "b3", history[0].BuildID)
	assert.Equal(t, "b2", history[1].BuildID)
	assert.Nil(t, projection.GetLastCompletedBuild())

	_, found := projection.GetBuild("b1")
	assert.False(t, found)
}

func TestEmitterFeedsProjection(t *testing.T) {
	store := newMemoryStore(t)
	e := NewEmitter(store, "live")

	require.NoError(t, e.BuildStarted(t.Context(), BuildStarted{}))
	require.NoError(t, e.PageBuilt(t.Context(), PageBuilt{SourcePath: "a.md"}))

	projection := NewBuildHistoryProjection(store, 5)
	require.NoError(t, projection.Rebuild(t.Context()))
	summary, found := projection.GetBuild("live")
	require.True(t, found)
	assert.Equal(t, StatusRunning, summary.Status)
	assert.Equal(t, 1, summary.Pages)
}

func TestNilEmitterIsNoop(t *testing.T) {
	var e *Emitter
	require.NoError(t, e.BuildStarted(t.Context(), BuildStarted{}))
	require.NoError(t, NewEmitter(nil, "x").BuildFailed(t.Context(), "s", "e"))
}
