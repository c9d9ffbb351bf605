// Package site walks the source tree and writes one HTML page per source file.
package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagebuilder/internal/config"
	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
	"git.home.luguber.info/inful/pagebuilder/internal/observability"
	"git.home.luguber.info/inful/pagebuilder/internal/output"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
	"git.home.luguber.info/inful/pagebuilder/internal/templates"
)

// PageObserver is notified after each page has been written.
type PageObserver func(ctx context.Context, p *page.Page, bytesWritten int64)

// Builder is the traversal driver. It owns the page collection while the
// tree is walked.
type Builder struct {
	cfg      *config.Config
	resolver *page.Resolver
	renderer *templates.Renderer
	recorder metrics.Recorder
	observer PageObserver
	progress io.Writer
	now      func() time.Time
}

func NewBuilder(cfg *config.Config, resolver *page.Resolver, renderer *templates.Renderer) *Builder {
	return &Builder{
		cfg:      cfg,
		resolver: resolver,
		renderer: renderer,
		recorder: metrics.NoopRecorder{},
		progress: io.Discard,
		now:      time.Now,
	}
}

func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	if r != nil {
		b.recorder = r
	}
	return b
}

func (b *Builder) WithObserver(o PageObserver) *Builder {
	b.observer = o
	return b
}

// WithProgress prints one line per directory and per page to w, before
// the page is written.
func (b *Builder) WithProgress(w io.Writer) *Builder {
	if w != nil {
		b.progress = w
	}
	return b
}

func (b *Builder) WithClock(now func() time.Time) *Builder {
	if now != nil {
		b.now = now
	}
	return b
}

// Build creates the output root, walks the source root pre-order and
// returns the pages in traversal order. Symlinks are followed; a directory
// reached a second time (a link cycle or a second link to it) is skipped.
// The first failure stops the walk.
func (b *Builder) Build(ctx context.Context) (*page.Collection, error) {
	if _, err := output.MkdirMirror(b.cfg.Paths.Output, ""); err != nil {
		return nil, err
	}

	w := &walker{b: b, pages: page.NewCollection()}
	if err := w.walk(ctx, b.cfg.Paths.Source, ""); err != nil {
		return nil, err
	}
	return w.pages, nil
}

// walker carries the state of one traversal across followed symlinks.
type walker struct {
	b       *Builder
	pages   *page.Collection
	visited []fs.FileInfo
}

// walk visits the tree at dir. prefix is the source-relative path dir is
// reached through ("" for the source root).
func (w *walker) walk(ctx context.Context, dir, prefix string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return ferrors.WrapError(walkErr, ferrors.CategoryFileSystem, "walk source tree").
				Fatal().WithContext("path", p).Build()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryInternal, "relativize source path").
				Fatal().WithContext("path", p).Build()
		}
		rel = joinRel(prefix, filepath.ToSlash(rel))

		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return ferrors.WrapError(err, ferrors.CategoryFileSystem, "stat source directory").
					Fatal().WithContext("path", p).Build()
			}
			if w.seen(info) {
				observability.DebugContext(ctx, "Skipping directory already walked", logfields.Path(rel))
				return filepath.SkipDir
			}
			w.visited = append(w.visited, info)
			return w.b.mirrorDir(rel)
		}

		info, err := os.Stat(p)
		if err != nil {
			if d.Type()&fs.ModeSymlink != 0 && errors.Is(err, fs.ErrNotExist) {
				observability.DebugContext(ctx, "Skipping dangling symlink", logfields.Path(rel))
				return nil
			}
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "stat source file").
				Fatal().WithContext("path", p).Build()
		}
		if info.IsDir() {
			return w.followLink(ctx, p, rel, info)
		}
		if !info.Mode().IsRegular() {
			observability.DebugContext(ctx, "Skipping non-regular entry", logfields.Path(rel))
			return nil
		}
		if page.IsMarker(rel) {
			return nil
		}
		return w.b.buildPage(ctx, w.pages, rel, info)
	})
}

// followLink descends into the directory a symlink at p points to.
func (w *walker) followLink(ctx context.Context, p, rel string, info fs.FileInfo) error {
	if w.seen(info) {
		observability.DebugContext(ctx, "Skipping directory already walked", logfields.Path(rel))
		return nil
	}
	target, err := filepath.EvalSymlinks(p)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve symlink").
			Fatal().WithContext("path", p).Build()
	}
	return w.walk(ctx, target, rel)
}

func (w *walker) seen(info fs.FileInfo) bool {
	for _, v := range w.visited {
		if os.SameFile(v, info) {
			return true
		}
	}
	return false
}

func joinRel(prefix, rel string) string {
	switch {
	case prefix == "" || prefix == ".":
		return rel
	case rel == ".":
		return prefix
	default:
		return prefix + "/" + rel
	}
}

func (b *Builder) mirrorDir(rel string) error {
	if rel != "." {
		_, _ = fmt.Fprintln(b.progress, rel)
	}
	_, err := output.MkdirMirror(b.cfg.Paths.Output, rel)
	return err
}

func (b *Builder) buildPage(ctx context.Context, pages *page.Collection, rel string, info fs.FileInfo) error {
	ctx = observability.WithPage(ctx, rel)

	p, err := b.resolver.Resolve(ctx, rel, info)
	if err != nil {
		return pageError(err, rel)
	}

	outRel := OutputPath(rel)
	_, _ = fmt.Fprintf(b.progress, "%s -> %s (%s)\n", rel, p.Title, filepath.Join(b.cfg.Paths.Output, filepath.FromSlash(outRel)))

	header, footer, err := b.renderer.RenderPair(ctx, templates.ValuesForPage(b.cfg, p, b.now()))
	if err != nil {
		return pageError(err, rel)
	}

	_, n, err := output.WriteFile(b.cfg.Paths.Output, outRel, header, p.Body, footer)
	if err != nil {
		return pageError(err, rel)
	}
	p.OutputPath = "/" + outRel
	pages.Append(p)

	b.recorder.IncPagesBuilt()
	b.recorder.AddBytesWritten("page", int(n))
	observability.DebugContext(ctx, "Built page",
		logfields.Output(p.OutputPath),
		logfields.Title(p.Title),
		logfields.Bytes(int(n)))
	if b.observer != nil {
		b.observer(ctx, p, n)
	}
	return nil
}

// pageError names the source file in err, keeping its category.
func pageError(err error, rel string) error {
	return ferrors.WrapError(err, ferrors.GetCategory(err), "build "+rel).
		Fatal().WithContext("path", rel).Build()
}

// OutputPath maps a source path (relative, slash separated) to the relative
// path of its HTML page: the file name's last extension becomes .html. Names
// without an extension, and dot files, get .html appended.
func OutputPath(rel string) string {
	dir, file := path.Split(rel)
	if i := strings.LastIndexByte(file, '.'); i > 0 {
		file = file[:i]
	}
	return dir + file + ".html"
}
