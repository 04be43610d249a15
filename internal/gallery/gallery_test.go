package gallery

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gallerybuilder/internal/catalog"
	"git.home.luguber.info/inful/gallerybuilder/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Gallery: config.GalleryConfig{
			Title:           "Examples Gallery",
			Intro:           "Curated projects.",
			Root:            "doc/gallery",
			LabelsDir:       "doc/_static/labels",
			DocExtension:    ".md",
			OutputExtension: ".rst",
		},
		Categories: []config.Category{
			{Name: "Featured"},
			{Name: "Mathematics"},
			{Name: "Geospatial Data"},
		},
	}
}

func TestBuildIndexOrdering(t *testing.T) {
	cfg := testConfig()
	cat := &catalog.Catalog{Projects: []catalog.Project{
		{Path: "boids", Categories: []string{"Mathematics"}},
		{Path: "attractors", Categories: []string{"Mathematics", "Featured"}},
	}}

	buckets := BuildIndex(cfg, cat)
	require.Len(t, buckets, 3)

	// Vocabulary rank order across buckets, catalog order within.
	assert.Equal(t, "Featured", buckets[0].Category.Name)
	require.Len(t, buckets[0].Projects, 1)
	assert.Equal(t, "attractors", buckets[0].Projects[0].Path)

	assert.Equal(t, "Mathematics", buckets[1].Category.Name)
	require.Len(t, buckets[1].Projects, 2)
	assert.Equal(t, "boids", buckets[1].Projects[0].Path)
	assert.Equal(t, "attractors", buckets[1].Projects[1].Path)

	// Unreferenced categories keep an empty bucket.
	assert.Equal(t, "Geospatial Data", buckets[2].Category.Name)
	assert.Empty(t, buckets[2].Projects)
}

func TestCategoryPage(t *testing.T) {
	cfg := testConfig()
	r, err := NewRenderer(cfg)
	require.NoError(t, err)

	attractors := &catalog.Project{
		Path:        "attractors",
		Description: "Strange attractors,\nrendered at high resolution.",
		Labels:      []string{"datashader", "panel"},
	}
	page, err := r.CategoryPage(config.Category{Name: "Mathematics"}, []Entry{
		{Project: attractors, Main: "index"},
	})
	require.NoError(t, err)
	out := string(page)

	assert.True(t, strings.HasPrefix(out, "Mathematics\n___________\n"))
	assert.Contains(t, out, ".. grid-item-card:: :doc:`Attractors <attractors/index>`")
	assert.Contains(t, out, ".. image:: /doc/gallery/attractors/thumbnails/index.png")
	assert.Contains(t, out, ":target: attractors/index.html")
	assert.Contains(t, out, "Strange attractors, rendered at high resolution.")
	assert.Contains(t, out, ".. image:: /doc/_static/labels/datashader.svg")
	assert.Contains(t, out, ".. image:: /doc/_static/labels/panel.svg")
	assert.Contains(t, out, "   Attractors <attractors/index>")

	// Every card has a matching navigation entry and vice versa.
	assert.Equal(t,
		strings.Count(out, ".. grid-item-card::"),
		strings.Count(out, "\n   Attractors <"))
}

func TestCategoryPageEmpty(t *testing.T) {
	r, err := NewRenderer(testConfig())
	require.NoError(t, err)

	page, err := r.CategoryPage(config.Category{Name: "Geospatial Data"}, nil)
	require.NoError(t, err)
	out := string(page)

	assert.Contains(t, out, "No projects in this category yet.")
	assert.NotContains(t, out, ".. grid::")
	assert.NotContains(t, out, ".. toctree::")
}

func TestCategoryPageDescriptionSources(t *testing.T) {
	cfg := testConfig()
	cfg.Gallery.CategoryDescriptionsDir = t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.Gallery.CategoryDescriptionsDir, "mathematics.rst"),
		[]byte("Curated fragment.\n"), 0o644))

	r, err := NewRenderer(cfg)
	require.NoError(t, err)

	page, err := r.CategoryPage(config.Category{Name: "Mathematics", Description: "Inline."}, nil)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Curated fragment.")

	page, err = r.CategoryPage(config.Category{Name: "Geospatial Data", Description: "Inline."}, nil)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Inline.")

	page, err = r.CategoryPage(config.Category{Name: "Other"}, nil)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Other projects.")
}

func TestRootPage(t *testing.T) {
	cfg := testConfig()
	r, err := NewRenderer(cfg)
	require.NoError(t, err)

	attractors := &catalog.Project{Path: "attractors", Featured: true}
	buckets := BuildIndex(cfg, &catalog.Catalog{Projects: []catalog.Project{*attractors}})

	page, err := r.RootPage(buckets, map[string][]Entry{
		"Featured": {{Project: attractors, Main: "index"}},
	})
	require.NoError(t, err)
	out := string(page)

	assert.True(t, strings.HasPrefix(out, "Examples Gallery\n________________\n"))
	assert.Contains(t, out, "Curated projects.")

	heading := "`Featured <featured>`_"
	assert.Contains(t, out, heading+"\n"+strings.Repeat("-", len(heading)))
	assert.Contains(t, out, "`Geospatial Data <geospatial_data>`_")

	assert.Contains(t, out, ".. grid-item-card:: :doc:`Attractors <attractors/index>`")
	assert.Contains(t, out, ".. grid-item-card:: :doc:`See More <featured>`")
	assert.Contains(t, out, "All Featured projects")

	// Categories with no featured entries get a heading but no grid.
	mathIdx := strings.Index(out, "`Mathematics <mathematics>`_")
	geoIdx := strings.Index(out, "`Geospatial Data <geospatial_data>`_")
	require.True(t, mathIdx >= 0 && geoIdx > mathIdx)
	assert.NotContains(t, out[mathIdx:geoIdx], ".. grid::")

	assert.Contains(t, out, "   Featured <featured>")
	assert.Contains(t, out, "   Mathematics <mathematics>")
}

func TestFlattenDescription(t *testing.T) {
	assert.Equal(t, "a b c", FlattenDescription("a\nb\n\n  c\n"))
	assert.Equal(t, "", FlattenDescription("\n \n"))
}

func TestInjectNavTree(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "index.md")
	require.NoError(t, os.WriteFile(doc, []byte("# Attractors\n\nIntro.\n"), 0o644))

	require.NoError(t, InjectNavTree(doc, []string{"clifford", "fractal"}))
	first, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Contains(t, string(first), "```{eval-rst}\n.. toctree::\n   :hidden:\n\n   clifford\n   fractal\n```\n")

	// Re-injection replaces the block instead of stacking copies, and an
	// unchanged result leaves the file untouched on disk.
	info, err := os.Stat(doc)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, InjectNavTree(doc, []string{"clifford", "fractal"}))
	second, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
	after, err := os.Stat(doc)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), after.ModTime())

	require.NoError(t, InjectNavTree(doc, []string{"clifford"}))
	third, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(third), "fractal")
	assert.Equal(t, 1, strings.Count(string(third), ".. toctree::"))
}

func TestInjectNavTreeNoChildren(t *testing.T) {
	require.NoError(t, InjectNavTree(filepath.Join(t.TempDir(), "absent.md"), nil))
}
