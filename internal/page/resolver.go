package page

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Resolver builds a Page from one source file.
type Resolver struct {
	sourceRoot string
	filter     Filter
	markers    *MarkerStore
	owner      OwnerLookup
}

// NewResolver returns a resolver for files under sourceRoot.
func NewResolver(sourceRoot string, filter Filter, markers *MarkerStore) *Resolver {
	if markers == nil {
		markers = NewMarkerStore(nil)
	}
	return &Resolver{
		sourceRoot: sourceRoot,
		filter:     filter,
		markers:    markers,
		owner:      LookupUsername,
	}
}

// WithOwnerLookup replaces the system user database lookup.
func (r *Resolver) WithOwnerLookup(lookup OwnerLookup) *Resolver {
	r.owner = lookup
	return r
}

// SourcePath returns the on-disk path of rel.
func (r *Resolver) SourcePath(rel string) string {
	return filepath.Join(r.sourceRoot, filepath.FromSlash(rel))
}

// Resolve derives title, dates, owner and body for the source file rel
// (slash separated, relative to the source root). info describes the source
// file itself. OutputPath is left for the caller.
func (r *Resolver) Resolve(ctx context.Context, rel string, info fs.FileInfo) (*Page, error) {
	rel = path.Clean(strings.TrimPrefix(filepath.ToSlash(rel), "/"))
	src := r.SourcePath(rel)

	created, err := r.markers.Created(src)
	if err != nil {
		return nil, err
	}

	body, err := r.filter.Convert(ctx, src)
	if err != nil {
		return nil, err
	}

	var modified time.Time
	if info != nil {
		modified = info.ModTime()
	}

	return &Page{
		SourcePath: rel,
		Title:      DeriveTitle(rel),
		Body:       body,
		Created:    NewTimestamp(created),
		Modified:   NewTimestamp(modified),
		User:       ResolveOwner(info, r.owner),
	}, nil
}
