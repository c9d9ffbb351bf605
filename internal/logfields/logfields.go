package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeyTitle      = "title"
	KeyCommand    = "command"
	KeyTemplate   = "template"
	KeyArtifact   = "artifact"
	KeyPages      = "pages"
	KeyBytes      = "bytes"
	KeyDurationMS = "duration_ms"
	KeyExitCode   = "exit_code"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Output(p string) slog.Attr       { return slog.String(KeyOutput, p) }
func Title(t string) slog.Attr        { return slog.String(KeyTitle, t) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func Template(name string) slog.Attr  { return slog.String(KeyTemplate, name) }
func Artifact(kind string) slog.Attr  { return slog.String(KeyArtifact, kind) }
func Pages(n int) slog.Attr           { return slog.Int(KeyPages, n) }
func Bytes(n int) slog.Attr           { return slog.Int(KeyBytes, n) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Duration converts d to a millisecond attribute.
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
