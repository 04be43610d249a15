package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyProject    = "project"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeyBuildID    = "build_id"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Project(name string) slog.Attr { return slog.String(KeyProject, name) }
func Stage(name string) slog.Attr   { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func BuildID(id string) slog.Attr   { return slog.String(KeyBuildID, id) }
func Count(n int) slog.Attr         { return slog.Int(KeyCount, n) }

func DurationMS(d time.Duration) slog.Attr {
	return slog.Int64(KeyDurationMS, d.Milliseconds())
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
