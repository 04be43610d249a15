package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestGalleryError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *GalleryError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryCatalog, SeverityFatal, "failed to load catalog"),
			expected: "catalog (fatal): failed to load catalog: file not found",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestGalleryError_WithContext(t *testing.T) {
	err := New(CategoryAsset, SeverityWarning, "thumbnail missing").
		WithContext("project", "boids").
		WithContext("path", "boids/thumbnails/boids.png")

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}

	if err.Context["project"] != "boids" {
		t.Errorf("Context[project] = %v, want boids", err.Context["project"])
	}
}

func TestGalleryError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := Wrap(cause, CategoryRender, SeverityFatal, "render failed")

	if !stdErrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestGalleryError_IsFatal(t *testing.T) {
	if !NoDisplayableContent("boids").IsFatal() {
		t.Error("zero-artifact project must be fatal")
	}
	if MissingIndexArtifact("attractors").IsFatal() {
		t.Error("missing index artifact must be a recoverable warning")
	}
	if MissingThumbnail("boids", "boids/thumbnails/boids.png").IsFatal() {
		t.Error("missing thumbnail must be a recoverable warning")
	}
	if !MissingLabelIcon("math", "labels/math.svg").IsFatal() {
		t.Error("missing label icon must be fatal")
	}
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil error", nil, 0},
		{"config", ConfigNotFound("gallery.yaml"), 7},
		{"catalog", UnknownCategory("boids", "Unknown Category"), 3},
		{"build", DuplicateRedirect("/gallery/boids"), 11},
		{"plain error", fmt.Errorf("boom"), 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(test.err); got != test.code {
				t.Errorf("ExitCodeFor() = %d, want %d", got, test.code)
			}
		})
	}
}
