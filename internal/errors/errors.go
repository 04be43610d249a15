// Package errors provides a lightweight structured error type (GalleryError)
// for category-based classification of fatal and recoverable build failures.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a gallery build error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryCatalog    ErrorCategory = "catalog"

	// Per-project resolution errors
	CategoryArtifact ErrorCategory = "artifact"
	CategoryAsset    ErrorCategory = "asset"

	// Output generation errors
	CategoryRender     ErrorCategory = "render"
	CategoryRedirect   ErrorCategory = "redirect"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Runtime and infrastructure errors
	CategoryDaemon   ErrorCategory = "daemon"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the run
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Run continues with degraded output
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// GalleryError is a structured error with category, severity, and context
type GalleryError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for GalleryError
type ContextFields map[string]any

// Error implements the error interface
func (e *GalleryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *GalleryError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *GalleryError) WithContext(key string, value any) *GalleryError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// IsFatal reports whether the error must abort the whole run.
func (e *GalleryError) IsFatal() bool {
	return e.Severity == SeverityFatal
}

// New creates a new GalleryError
func New(category ErrorCategory, severity ErrorSeverity, message string) *GalleryError {
	return &GalleryError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new GalleryError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *GalleryError {
	return &GalleryError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}
