package page

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagebuilder/internal/pipe"
)

func TestResolver_Resolve(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "blog"), 0o750))
	src := filepath.Join(root, "blog", "index.md")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o600))
	mtime := time.Date(2022, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))
	info, err := os.Stat(src)
	require.NoError(t, err)

	var gotInv pipe.Invocation
	runner := pipe.RunnerFunc(func(_ context.Context, inv pipe.Invocation) ([]byte, error) {
		gotInv = inv
		return []byte("<p>hi\x00there</p>"), nil
	})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewResolver(root, NewFilter("cat", runner), NewMarkerStore(fixedClock(now))).
		WithOwnerLookup(func(string) (string, error) { return "alice", nil })

	p, err := r.Resolve(t.Context(), "blog/index.md", info)
	require.NoError(t, err)

	assert.Equal(t, "cat", gotInv.Name)
	assert.Equal(t, []string{src}, gotInv.Args)
	assert.Equal(t, "blog/index.md", p.SourcePath)
	assert.Equal(t, "blog", p.Title)
	assert.Equal(t, []byte("<p>hi\x00there</p>"), p.Body)
	assert.Equal(t, "2024-01-01T00:00:00Z", p.Created.ISO)
	assert.Equal(t, "2022-06-01T10:00:00Z", p.Modified.ISO)
	assert.Equal(t, "alice", p.User)
	assert.FileExists(t, src+MarkerSuffix)
}

func TestResolver_FilterFailure(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.md")
	require.NoError(t, os.WriteFile(src, nil, 0o600))
	info, err := os.Stat(src)
	require.NoError(t, err)

	boom := errors.New("boom")
	runner := pipe.RunnerFunc(func(context.Context, pipe.Invocation) ([]byte, error) { return nil, boom })
	_, err = NewResolver(root, NewFilter("x", runner), nil).Resolve(t.Context(), "a.md", info)
	require.ErrorIs(t, err, boom)
}

func TestResolveOwner_Fallback(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.md")
	require.NoError(t, os.WriteFile(src, nil, 0o600))
	info, err := os.Stat(src)
	require.NoError(t, err)

	failing := func(string) (string, error) { return "", errors.New("no such user") }
	assert.Equal(t, UnknownOwner, ResolveOwner(info, failing))
	assert.Equal(t, UnknownOwner, ResolveOwner(nil, LookupUsername))
}

func TestMarkdownFilter(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.md")
	require.NoError(t, os.WriteFile(src, []byte("# Title\n\nFirst *para*.\n"), 0o600))

	out, err := NewFilter(BuiltinMarkdown, nil).Convert(t.Context(), src)
	require.NoError(t, err)
	assert.Contains(t, string(out), "<h1>Title</h1>")
	assert.Contains(t, string(out), "<p>First <em>para</em>.</p>")

	_, err = NewMarkdownFilter().Convert(t.Context(), src+".missing")
	require.Error(t, err)
}
