// Package daemon runs the pipeline continuously: periodic rebuilds, rebuild
// on catalog change, and a small HTTP surface for health, metrics and build
// history.
package daemon

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/gallerybuilder/internal/build"
	"git.home.luguber.info/inful/gallerybuilder/internal/config"
	gerrors "git.home.luguber.info/inful/gallerybuilder/internal/errors"
	"git.home.luguber.info/inful/gallerybuilder/internal/history"
	"git.home.luguber.info/inful/gallerybuilder/internal/logfields"
	"git.home.luguber.info/inful/gallerybuilder/internal/metrics"
)

// Daemon owns the long-running rebuild loop. Builds are serialized: a timer
// tick and a file change arriving together still produce one build at a
// time.
type Daemon struct {
	cfg      *config.Config
	log      *slog.Logger
	pipeline *build.Pipeline
	store    *history.Store
	registry *prometheus.Registry

	buildMu sync.Mutex
}

func New(cfg *config.Config, log *slog.Logger) (*Daemon, error) {
	store, err := history.Open(cfg.Daemon.HistoryDB)
	if err != nil {
		return nil, err
	}
	registry := prometheus.NewRegistry()
	rec := metrics.NewPrometheus(registry)
	return &Daemon{
		cfg:      cfg,
		log:      log,
		pipeline: build.New(cfg, log, rec),
		store:    store,
		registry: registry,
	}, nil
}

// Run blocks until ctx is cancelled. It performs one build immediately so a
// freshly started daemon serves current output.
func (d *Daemon) Run(ctx context.Context) error {
	defer d.store.Close()

	d.rebuild(ctx, "startup")

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return gerrors.Wrap(err, gerrors.CategoryDaemon, gerrors.SeverityFatal, "failed to create scheduler")
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(d.cfg.Daemon.Interval),
		gocron.NewTask(func() { d.rebuild(ctx, "interval") }),
	)
	if err != nil {
		return gerrors.Wrap(err, gerrors.CategoryDaemon, gerrors.SeverityFatal, "failed to schedule rebuild job")
	}
	scheduler.Start()
	defer func() { _ = scheduler.Shutdown() }()

	watcher, err := d.startWatcher(ctx)
	if err != nil {
		return err
	}
	defer watcher.Close()

	server := &http.Server{
		Addr:              d.cfg.Daemon.Listen,
		Handler:           d.mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		d.log.Info("daemon listening", logfields.Path(d.cfg.Daemon.Listen))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return gerrors.Wrap(err, gerrors.CategoryDaemon, gerrors.SeverityFatal, "http server failed")
	}
}

// startWatcher watches the catalog inputs and the gallery tree and triggers
// a debounced rebuild. Editors write files with several events in quick
// succession, so each event resets the timer instead of building
// immediately. The build skips rewriting unchanged output files, so the
// watcher does not observe a build's own output and the loop settles.
func (d *Daemon) startWatcher(ctx context.Context) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, gerrors.Wrap(err, gerrors.CategoryDaemon, gerrors.SeverityFatal, "failed to create file watcher")
	}

	catalogFiles := map[string]struct{}{
		filepath.Clean(d.cfg.Catalog.Projects): {},
		filepath.Clean(d.cfg.Catalog.Tags):     {},
	}
	dirs := map[string]struct{}{}
	for p := range catalogFiles {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, gerrors.Wrap(err, gerrors.CategoryDaemon, gerrors.SeverityFatal, "failed to watch catalog directory").
				WithContext("path", dir)
		}
	}

	// Watch every directory of the gallery tree: projects, their documents
	// and thumbnails. fsnotify watches are not recursive, so each directory
	// is added individually and new ones are picked up on create events.
	root := filepath.Clean(d.cfg.Gallery.Root)
	_ = filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil || !entry.IsDir() {
			return nil
		}
		if err := watcher.Add(p); err != nil {
			d.log.Warn("failed to watch gallery directory", logfields.Path(p), logfields.Error(err))
		}
		return nil
	})

	underRoot := func(name string) bool {
		return name == root || strings.HasPrefix(name, root+string(filepath.Separator))
	}

	go func() {
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				name := filepath.Clean(event.Name)
				_, isCatalogFile := catalogFiles[name]
				if !isCatalogFile && !underRoot(name) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if event.Op&fsnotify.Create != 0 && underRoot(name) {
					if info, statErr := os.Stat(name); statErr == nil && info.IsDir() {
						if err := watcher.Add(name); err != nil {
							d.log.Warn("failed to watch new directory", logfields.Path(name), logfields.Error(err))
						}
					}
				}
				d.log.Debug("change detected", logfields.Path(event.Name))
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(d.cfg.Daemon.Debounce, func() {
					d.rebuild(ctx, "watch")
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				d.log.Warn("file watcher error", logfields.Error(err))
			}
		}
	}()
	return watcher, nil
}

// rebuild runs one pipeline pass and records the outcome.
func (d *Daemon) rebuild(ctx context.Context, trigger string) {
	d.buildMu.Lock()
	defer d.buildMu.Unlock()
	if ctx.Err() != nil {
		return
	}

	log := d.log.With(slog.String("trigger", trigger))
	started := time.Now()
	report, err := d.pipeline.Run(ctx)

	rec := history.Record{
		ID:        "",
		StartedAt: started,
		Duration:  time.Since(started),
		Status:    "ok",
		Report:    "{}",
	}
	if err != nil {
		rec.Status = "failed"
		rec.Report = errorReport(err)
		log.Error("build failed", logfields.Error(err))
	} else {
		rec.ID = report.BuildID
		rec.Projects = report.Projects
		rec.Skipped = report.Skipped
		rec.Warnings = len(report.Warnings)
		if data, jsonErr := json.Marshal(report); jsonErr == nil {
			rec.Report = string(data)
		}
	}
	if rec.ID == "" {
		rec.ID = rec.StartedAt.UTC().Format(time.RFC3339Nano)
	}
	if err := d.store.Append(ctx, rec); err != nil {
		log.Error("failed to record build", logfields.Error(err))
	}
}

func errorReport(err error) string {
	data, jsonErr := json.Marshal(map[string]string{"error": err.Error()})
	if jsonErr != nil {
		return "{}"
	}
	return string(data)
}

// mux builds the HTTP surface: liveness, Prometheus metrics and recent
// build history.
func (d *Daemon) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/builds", func(w http.ResponseWriter, r *http.Request) {
		records, err := d.store.Recent(r.Context(), 20)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(buildsResponse(records))
	})
	return mux
}

type buildSummary struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Status     string    `json:"status"`
	Projects   int       `json:"projects"`
	Skipped    int       `json:"skipped"`
	Warnings   int       `json:"warnings"`
}

func buildsResponse(records []history.Record) []buildSummary {
	out := make([]buildSummary, 0, len(records))
	for _, r := range records {
		out = append(out, buildSummary{
			ID:         r.ID,
			StartedAt:  r.StartedAt,
			DurationMS: r.Duration.Milliseconds(),
			Status:     r.Status,
			Projects:   r.Projects,
			Skipped:    r.Skipped,
			Warnings:   r.Warnings,
		})
	}
	return out
}
