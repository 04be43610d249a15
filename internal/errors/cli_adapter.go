package errors

import (
	"fmt"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if ge, ok := err.(*GalleryError); ok {
		return a.exitCodeFromGallery(ge)
	}

	return 1
}

// exitCodeFromGallery maps GalleryError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromGallery(err *GalleryError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid usage or failed validation
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryCatalog:
		return 3 // Catalog error
	case CategoryArtifact, CategoryAsset, CategoryRender, CategoryRedirect, CategoryFileSystem:
		return 11 // Build error
	case CategoryDaemon:
		return 12 // Runtime error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if ge, ok := err.(*GalleryError); ok {
		return a.formatGallery(ge)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatGallery formats a GalleryError for display.
func (a *CLIErrorAdapter) formatGallery(err *GalleryError) string {
	if a.verbose {
		return err.Error()
	}

	msg := err.Message
	if p, ok := err.Context["project"]; ok {
		msg = fmt.Sprintf("%s (project %v)", msg, p)
	}
	switch err.Category {
	case CategoryConfig, CategoryValidation, CategoryCatalog:
		return msg
	default:
		return fmt.Sprintf("%s: %s", err.Category, msg)
	}
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	if a.shouldLog(err) {
		a.logError(err)
	}

	fmt.Fprintf(os.Stderr, "%s\n", message)
	os.Exit(exitCode)
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	if ge, ok := err.(*GalleryError); ok {
		return ge.Category == CategoryInternal || ge.Severity == SeverityFatal
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if ge, ok := err.(*GalleryError); ok {
		level := a.slogLevelFromSeverity(ge.Severity)
		attrs := []slog.Attr{
			slog.String("category", string(ge.Category)),
		}
		for k, v := range ge.Context {
			attrs = append(attrs, slog.Any(k, v))
		}

		a.logger.LogAttrs(nil, level, ge.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

// slogLevelFromSeverity converts GalleryError severity to slog level.
func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	case SeverityFatal:
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
