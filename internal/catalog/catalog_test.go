package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gallerybuilder/internal/config"
	gerrors "git.home.luguber.info/inful/gallerybuilder/internal/errors"
)

func testConfig(t *testing.T, projects, tags string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	projPath := filepath.Join(dir, "projects.yaml")
	tagsPath := filepath.Join(dir, "tags.yml")
	require.NoError(t, os.WriteFile(projPath, []byte(projects), 0o644))
	require.NoError(t, os.WriteFile(tagsPath, []byte(tags), 0o644))
	return &config.Config{
		Catalog: config.CatalogConfig{Projects: projPath, Tags: tagsPath},
		Categories: []config.Category{
			{Name: "Featured"},
			{Name: "Geospatial"},
			{Name: "Mathematics"},
		},
	}
}

const sampleProjects = `
projects:
  - path: attractors
    title: Attractors
    description: |
      Strange attractors, rendered
      at high resolution.
    labels: [datashader, panel]
    created: 2019-03-04
  - path: boids
    labels: [holoviews]
    created: 2020-01-15
`

const sampleTags = `
attractors:
  category: [Mathematics]
  featured: true
boids:
  category: [Mathematics, Featured]
`

func TestLoad_JoinsProjectsAndTags(t *testing.T) {
	cfg := testConfig(t, sampleProjects, sampleTags)

	cat, err := Load(cfg)
	require.NoError(t, err)
	require.Len(t, cat.Projects, 2)

	attractors := cat.ByPath("attractors")
	require.NotNil(t, attractors)
	assert.Equal(t, []string{"Mathematics"}, attractors.Categories)
	assert.True(t, attractors.Featured)
	assert.Equal(t, "Attractors", attractors.DisplayTitle())

	boids := cat.ByPath("boids")
	require.NotNil(t, boids)
	assert.Equal(t, []string{"Mathematics", "Featured"}, boids.Categories)
	assert.False(t, boids.Featured)
}

func TestLoad_PreservesDeclarationOrder(t *testing.T) {
	cfg := testConfig(t, sampleProjects, sampleTags)
	cat, err := Load(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"attractors", "boids"}, cat.Paths())
}

func TestLoad_UnknownCategoryFatal(t *testing.T) {
	cfg := testConfig(t, sampleProjects, `
attractors:
  category: ["Unknown Category"]
`)
	_, err := Load(cfg)
	require.Error(t, err)
	ge, ok := err.(*gerrors.GalleryError)
	require.True(t, ok)
	assert.Equal(t, gerrors.CategoryCatalog, ge.Category)
	assert.True(t, ge.IsFatal())
	assert.Equal(t, "Unknown Category", ge.Context["category"])
}

func TestLoad_DuplicatePathFatal(t *testing.T) {
	cfg := testConfig(t, `
projects:
  - path: boids
  - path: boids
`, "")
	_, err := Load(cfg)
	require.Error(t, err)
}

func TestLoad_MissingProjectsFileFatal(t *testing.T) {
	cfg := testConfig(t, "", "")
	cfg.Catalog.Projects = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Load(cfg)
	require.Error(t, err)
}

func TestProject_DisplayTitleFallback(t *testing.T) {
	p := Project{Path: "portfolio_optimizer"}
	assert.Equal(t, "Portfolio Optimizer", p.DisplayTitle())
}

func TestProject_ServerName(t *testing.T) {
	p := Project{Path: "nyc_buildings"}
	assert.Equal(t, "nyc-buildings", p.ServerName())
}

func TestProject_SkipSet(t *testing.T) {
	p := Project{Path: "boids", Skip: []string{"appendix.md"}}
	assert.True(t, p.SkipSet().Has("appendix.md"))
	assert.False(t, p.SkipSet().Has("boids.md"))
}

func TestDeployment_ShouldAutoDeploy(t *testing.T) {
	f := false
	assert.True(t, Deployment{Command: "dashboard"}.ShouldAutoDeploy())
	assert.False(t, Deployment{Command: "dashboard", AutoDeploy: &f}.ShouldAutoDeploy())
}
