package daemon

import (
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/gallerybuilder/internal/config"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func fixture(t *testing.T) *config.Config {
	dir := t.TempDir()
	root := filepath.Join(dir, "gallery")

	write(t, filepath.Join(dir, "projects.yaml"), `projects:
  - path: attractors
    description: Strange attractors.
`)
	write(t, filepath.Join(dir, "tags.yml"), "attractors:\n  category: [Mathematics]\n")
	write(t, filepath.Join(root, "attractors", "index.md"), "# Attractors\n")

	thumb := filepath.Join(root, "attractors", "thumbnails", "index.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(thumb), 0o755))
	f, err := os.Create(thumb)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 10, 10))))
	require.NoError(t, f.Close())

	return &config.Config{
		Gallery: config.GalleryConfig{
			Title:           "Examples",
			Root:            root,
			LabelsDir:       filepath.Join(dir, "labels"),
			DocExtension:    ".md",
			OutputExtension: ".rst",
		},
		Categories: []config.Category{{Name: "Mathematics"}},
		Catalog: config.CatalogConfig{
			Projects: filepath.Join(dir, "projects.yaml"),
			Tags:     filepath.Join(dir, "tags.yml"),
		},
		Redirects: config.RedirectConfig{Output: filepath.Join(dir, "redirects.yml")},
		Daemon: config.DaemonConfig{
			Listen:    "127.0.0.1:0",
			Interval:  time.Hour,
			Debounce:  10 * time.Millisecond,
			HistoryDB: filepath.Join(dir, "history.db"),
		},
	}
}

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	d, err := New(fixture(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.store.Close() })
	return d
}

func TestRebuildRecordsHistory(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()

	d.rebuild(ctx, "test")

	records, err := d.store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ok", records[0].Status)
	assert.Equal(t, 1, records[0].Projects)
	assert.NotEmpty(t, records[0].ID)
}

func TestRebuildRecordsFailure(t *testing.T) {
	d := newTestDaemon(t)
	ctx := context.Background()
	// Break the catalog so the build fails.
	write(t, d.cfg.Catalog.Tags, "attractors:\n  category: [Unknown]\n")

	d.rebuild(ctx, "test")

	records, err := d.store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "failed", records[0].Status)
	assert.Contains(t, records[0].Report, "category")
}

func recordCount(t *testing.T, d *Daemon) int {
	t.Helper()
	records, err := d.store.Recent(context.Background(), 100)
	require.NoError(t, err)
	return len(records)
}

func TestWatcherDebouncesCatalogBurst(t *testing.T) {
	d := newTestDaemon(t)
	d.cfg.Daemon.Debounce = 50 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Build once so the gallery outputs exist before watching starts.
	d.rebuild(ctx, "initial")

	watcher, err := d.startWatcher(ctx)
	require.NoError(t, err)
	defer watcher.Close()

	base := recordCount(t, d)

	// A burst of writes to a catalog input collapses into one rebuild.
	for i := 0; i < 5; i++ {
		write(t, d.cfg.Catalog.Tags, "attractors:\n  category: [Mathematics]\n")
	}
	require.Eventually(t, func() bool {
		return recordCount(t, d) >= base+1
	}, 5*time.Second, 10*time.Millisecond)

	time.Sleep(10 * d.cfg.Daemon.Debounce)
	assert.Equal(t, base+1, recordCount(t, d))
}

func TestWatcherSeesGalleryTreeChanges(t *testing.T) {
	d := newTestDaemon(t)
	d.cfg.Daemon.Debounce = 50 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d.rebuild(ctx, "initial")

	watcher, err := d.startWatcher(ctx)
	require.NoError(t, err)
	defer watcher.Close()

	// Editing a project document triggers a rebuild.
	base := recordCount(t, d)
	write(t, filepath.Join(d.cfg.Gallery.Root, "attractors", "index.md"), "# Attractors, Revisited\n")
	require.Eventually(t, func() bool {
		return recordCount(t, d) >= base+1
	}, 5*time.Second, 10*time.Millisecond)

	// So does creating a whole new project directory.
	base = recordCount(t, d)
	write(t, filepath.Join(d.cfg.Gallery.Root, "penguins", "penguins.md"), "# Penguins\n")
	require.Eventually(t, func() bool {
		return recordCount(t, d) >= base+1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestHTTPEndpoints(t *testing.T) {
	d := newTestDaemon(t)
	d.rebuild(context.Background(), "test")

	srv := httptest.NewServer(d.mux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "gallerybuilder_builds_started_total")

	resp, err = http.Get(srv.URL + "/builds")
	require.NoError(t, err)
	var builds []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&builds))
	resp.Body.Close()
	require.Len(t, builds, 1)
	assert.Equal(t, "ok", builds[0]["status"])
}
