package markdown

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		title string
		ok    bool
	}{
		{"leading h1", "# Attractors\n\nBody text.\n", "Attractors", true},
		{"h2 first", "## Setup\n", "", false},
		{"paragraph first", "Intro text.\n\n# Late Title\n", "", false},
		{"empty document", "", "", false},
		{"h1 with emphasis", "# The *Attractors* Gallery\n", "The Attractors Gallery", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, ok := Title([]byte(tt.src))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.title, title)
		})
	}
}

func TestTitleFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.md")
	require.NoError(t, os.WriteFile(path, []byte("# Boids\n"), 0o644))

	title, ok, err := TitleFromFile(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Boids", title)

	_, _, err = TitleFromFile(filepath.Join(t.TempDir(), "absent.md"))
	assert.Error(t, err)
}
