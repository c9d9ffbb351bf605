// Package page holds the page model and everything needed to derive a page
// from one source file: title rules, the creation-date marker store, owner
// lookup and the markup filter.
package page

import "time"

const (
	// ISOLayout is the machine-sortable UTC rendering of a timestamp.
	ISOLayout = "2006-01-02T15:04:05Z"
	// ReadableLayout is the human-readable UTC rendering of a timestamp.
	ReadableLayout = "2006-01-02 15:04 UTC"
)

// Timestamp is an instant with its two string renderings. Instants are UTC
// with second precision.
type Timestamp struct {
	Time     time.Time
	ISO      string
	Readable string
}

// NewTimestamp normalizes t to UTC seconds and renders it.
func NewTimestamp(t time.Time) Timestamp {
	u := t.UTC().Truncate(time.Second)
	return Timestamp{
		Time:     u,
		ISO:      u.Format(ISOLayout),
		Readable: u.Format(ReadableLayout),
	}
}

// Page is one generated HTML document built from one source file.
type Page struct {
	// SourcePath is relative to the source root, slash separated.
	SourcePath string
	// OutputPath is site-relative (e.g. /posts/foo.html). It is set by the
	// site builder once the output file path is known.
	OutputPath string
	Title      string
	// Body is the filter output, verbatim. It may contain NUL bytes; its
	// length is len(Body).
	Body     []byte
	Created  Timestamp
	Modified Timestamp
	User     string
}
