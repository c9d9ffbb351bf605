// Package generate writes the aggregate pages built from the sorted page
// collection: the archive table, the news digest and the Atom feed.
package generate

import (
	"context"
	"time"

	"git.home.luguber.info/inful/pagebuilder/internal/config"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
	"git.home.luguber.info/inful/pagebuilder/internal/observability"
	"git.home.luguber.info/inful/pagebuilder/internal/output"
	"git.home.luguber.info/inful/pagebuilder/internal/templates"
)

const (
	// NewsLimit is the maximum number of previews in the news digest.
	NewsLimit = 10
	// FeedLimit is the maximum number of entries in the feed.
	FeedLimit = 20
)

// Artifact kinds.
const (
	KindArchive = "archive"
	KindNews    = "news"
	KindFeed    = "feed"
)

// Artifact describes one written aggregate file.
type Artifact struct {
	Kind  string
	Path  string // relative to the output root
	Pages int
	Bytes int64
}

// Generator holds what the aggregate pages share: the build context, the
// header/footer renderer and the clock used for "now".
type Generator struct {
	cfg      *config.Config
	renderer *templates.Renderer
	recorder metrics.Recorder
	now      func() time.Time
}

func New(cfg *config.Config, renderer *templates.Renderer) *Generator {
	return &Generator{
		cfg:      cfg,
		renderer: renderer,
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
}

func (g *Generator) WithRecorder(r metrics.Recorder) *Generator {
	if r != nil {
		g.recorder = r
	}
	return g
}

func (g *Generator) WithClock(now func() time.Time) *Generator {
	if now != nil {
		g.now = now
	}
	return g
}

// writeWrapped renders header and footer for a synthetic page titled title
// and writes header, body, footer to rel.
func (g *Generator) writeWrapped(ctx context.Context, kind, rel, title string, pages int, body []byte) (Artifact, error) {
	header, footer, err := g.renderer.RenderPair(ctx, templates.SyntheticValues(g.cfg, title, g.now()))
	if err != nil {
		return Artifact{}, err
	}
	return g.write(ctx, kind, rel, pages, header, body, footer)
}

func (g *Generator) write(ctx context.Context, kind, rel string, pages int, parts ...[]byte) (Artifact, error) {
	_, n, err := output.WriteFile(g.cfg.Paths.Output, rel, parts...)
	if err != nil {
		return Artifact{}, err
	}
	g.recorder.AddBytesWritten(kind, int(n))
	observability.DebugContext(ctx, "Wrote aggregate page",
		logfields.Artifact(kind),
		logfields.Output(rel),
		logfields.Pages(pages),
		logfields.Bytes(int(n)))
	return Artifact{Kind: kind, Path: rel, Pages: pages, Bytes: n}, nil
}

func (g *Generator) link(outputPath string) string {
	return g.cfg.Site.BaseURL + outputPath
}
