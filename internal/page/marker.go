package page

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
)

// MarkerSuffix is appended to a source file path to name its date marker.
const MarkerSuffix = ".date"

// MarkerStore remembers when each source file was first built.
//
// It is a key/value store keyed by source path whose value is a timestamp,
// kept in the filesystem metadata of an empty sidecar file (<source>.date):
// the marker's own modification time is the creation date. Its content is
// never read. Existing site trees rely on this layout, so it must not change.
type MarkerStore struct {
	now func() time.Time
}

// NewMarkerStore returns a store that uses now for first encounters.
func NewMarkerStore(now func() time.Time) *MarkerStore {
	if now == nil {
		now = time.Now
	}
	return &MarkerStore{now: now}
}

// MarkerPath returns the marker path for a source file.
func MarkerPath(sourcePath string) string {
	return sourcePath + MarkerSuffix
}

// IsMarker reports whether path names a date marker.
func IsMarker(path string) bool {
	return strings.HasSuffix(path, MarkerSuffix)
}

// Created returns the creation instant of sourcePath. On first encounter the
// marker is created, stamped with the current time, and that time returned.
func (s *MarkerStore) Created(sourcePath string) (time.Time, error) {
	markerPath := MarkerPath(sourcePath)

	info, err := os.Stat(markerPath)
	if err == nil {
		return info.ModTime().UTC().Truncate(time.Second), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "stat date marker").
			Fatal().WithContext("path", markerPath).Build()
	}

	now := s.now().UTC().Truncate(time.Second)

	f, err := os.OpenFile(markerPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o444)
	if err != nil {
		return time.Time{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "create date marker").
			Fatal().WithContext("path", markerPath).Build()
	}
	if err := f.Close(); err != nil {
		return time.Time{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "close date marker").
			Fatal().WithContext("path", markerPath).Build()
	}
	// Later runs read the marker's mtime; stamp it with the exact instant
	// returned now so the first and later runs agree.
	if err := os.Chtimes(markerPath, now, now); err != nil {
		return time.Time{}, ferrors.WrapError(err, ferrors.CategoryFileSystem, "stamp date marker").
			Fatal().WithContext("path", markerPath).Build()
	}
	return now, nil
}
