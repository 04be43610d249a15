// Package build runs the gallery assembly pipeline: catalog load, category
// indexing, artifact resolution, asset validation, page rendering and
// redirect generation.
package build

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/gallerybuilder/internal/artifacts"
	"git.home.luguber.info/inful/gallerybuilder/internal/assets"
	"git.home.luguber.info/inful/gallerybuilder/internal/catalog"
	"git.home.luguber.info/inful/gallerybuilder/internal/config"
	gerrors "git.home.luguber.info/inful/gallerybuilder/internal/errors"
	"git.home.luguber.info/inful/gallerybuilder/internal/gallery"
	"git.home.luguber.info/inful/gallerybuilder/internal/logfields"
	"git.home.luguber.info/inful/gallerybuilder/internal/metrics"
	"git.home.luguber.info/inful/gallerybuilder/internal/redirects"
)

// Report summarizes one pipeline run.
type Report struct {
	BuildID   string        `json:"build_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Projects  int           `json:"projects"`
	Skipped   int           `json:"skipped"`
	Warnings  []string      `json:"warnings,omitempty"`
	Documents []string      `json:"documents"`
}

// Pipeline wires the build stages together. One Pipeline can run many
// builds; each run is independent.
type Pipeline struct {
	cfg *config.Config
	log *slog.Logger
	rec metrics.Recorder
}

func New(cfg *config.Config, logger *slog.Logger, rec metrics.Recorder) *Pipeline {
	if rec == nil {
		rec = metrics.Noop{}
	}
	return &Pipeline{cfg: cfg, log: logger, rec: rec}
}

// Run executes the full pipeline. Recoverable findings (a missing thumbnail,
// a multi-document project without an index) exclude the affected project
// from the rendered views and continue; in strict mode the first such
// finding fails the build. Everything else is fatal.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	report := &Report{
		BuildID:   uuid.NewString(),
		StartedAt: started,
	}
	log := p.log.With(logfields.BuildID(report.BuildID))
	p.rec.BuildStarted()

	err := p.run(ctx, log, report)
	report.Duration = time.Since(started)

	status := "ok"
	if err != nil {
		status = "failed"
	}
	p.rec.BuildCompleted(status, report.Duration)
	p.rec.ProjectsResolved(report.Projects)
	p.rec.ProjectsSkipped(report.Skipped)
	p.rec.WarningsEmitted(len(report.Warnings))
	if err != nil {
		return nil, err
	}
	log.Info("build finished",
		logfields.DurationMS(report.Duration),
		logfields.Count(report.Projects))
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, log *slog.Logger, report *Report) error {
	cfg := p.cfg

	// Load and index.
	stage := p.stopwatch("load")
	cat, err := catalog.Load(cfg)
	if err != nil {
		return err
	}
	catalog.EnrichLastUpdated(cat, cfg.Gallery.Root)
	stage()
	log.Info("catalog loaded", logfields.Count(len(cat.Projects)))

	stage = p.stopwatch("index")
	buckets := gallery.BuildIndex(cfg, cat)
	stage()

	// Resolve artifact sets in parallel, reassembled in catalog order.
	stage = p.stopwatch("resolve")
	sets, err := p.resolveAll(ctx, cat, log, report)
	if err != nil {
		return err
	}
	stage()

	// Validate assets. Label icons are fatal, thumbnails recoverable.
	stage = p.stopwatch("assets")
	validator := assets.NewValidator(cfg.Gallery.Root, cfg.Gallery.LabelsDir)
	renderable := make(map[string]gallery.Entry, len(sets))
	for _, proj := range cat.Projects {
		set, ok := sets[proj.Path]
		if !ok {
			continue
		}
		if err := validator.CheckLabels(proj.Labels); err != nil {
			return err
		}
		if _, err := validator.CheckThumbnail(proj.Path, set.MainStem()); err != nil {
			if err := p.recover(log, report, err); err != nil {
				return err
			}
			continue
		}
		renderable[proj.Path] = gallery.Entry{
			Project: cat.ByPath(proj.Path),
			Main:    set.MainStem(),
		}
	}
	stage()

	// Render category pages, the root page and per-project navigation.
	stage = p.stopwatch("render")
	if err := p.render(cat, buckets, sets, renderable, report); err != nil {
		return err
	}
	stage()

	// Redirects cover every resolved project, carded or not.
	stage = p.stopwatch("redirects")
	mains := make(map[string]string, len(sets))
	for path, set := range sets {
		mains[path] = set.MainStem()
	}
	table, err := redirects.Generate(cfg, cat, mains)
	if err != nil {
		return err
	}
	if err := redirects.Write(cfg.Redirects.Output, table); err != nil {
		return err
	}
	report.Documents = append(report.Documents, cfg.Redirects.Output)
	stage()

	report.Projects = len(sets)
	report.Skipped = len(cat.Projects) - len(sets)
	sort.Strings(report.Documents)
	return nil
}

// resolveAll runs artifact resolution with a bounded worker pool. Results
// are indexed by project so the assembled map is independent of worker
// scheduling.
func (p *Pipeline) resolveAll(ctx context.Context, cat *catalog.Catalog, log *slog.Logger, report *Report) (map[string]*artifacts.Set, error) {
	resolver := artifacts.NewResolver(
		artifacts.NewFSLister(p.cfg.Gallery.Root, p.cfg.Gallery.DocExtension),
		p.cfg.Gallery.DocExtension)

	type result struct {
		set *artifacts.Set
		err error
	}
	results := make([]result, len(cat.Projects))

	workers := runtime.GOMAXPROCS(0)
	if workers > 8 {
		workers = 8
	}
	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				results[i].set, results[i].err = resolver.Resolve(&cat.Projects[i])
			}
		}()
	}
	for i := range cat.Projects {
		select {
		case indices <- i:
		case <-ctx.Done():
			close(indices)
			wg.Wait()
			return nil, gerrors.InternalError("build cancelled", ctx.Err())
		}
	}
	close(indices)
	wg.Wait()

	// Classify in catalog order so the first reported finding is stable.
	sets := make(map[string]*artifacts.Set, len(cat.Projects))
	for i, proj := range cat.Projects {
		switch {
		case results[i].err == nil:
			sets[proj.Path] = results[i].set
		case isRecoverable(results[i].err):
			if err := p.recover(log, report, results[i].err); err != nil {
				return nil, err
			}
		default:
			return nil, results[i].err
		}
	}
	return sets, nil
}

func (p *Pipeline) render(cat *catalog.Catalog, buckets []gallery.Bucket, sets map[string]*artifacts.Set, renderable map[string]gallery.Entry, report *Report) error {
	cfg := p.cfg
	renderer, err := gallery.NewRenderer(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Gallery.Root, 0o755); err != nil {
		return gerrors.WriteFailed(cfg.Gallery.Root, err)
	}

	featured := make(map[string][]gallery.Entry)
	for _, b := range buckets {
		var entries []gallery.Entry
		for _, proj := range b.Projects {
			entry, ok := renderable[proj.Path]
			if !ok {
				continue
			}
			entries = append(entries, entry)
			if proj.Featured {
				featured[b.Category.Name] = append(featured[b.Category.Name], entry)
			}
		}
		page, err := renderer.CategoryPage(b.Category, entries)
		if err != nil {
			return err
		}
		out := filepath.Join(cfg.Gallery.Root, b.Category.Slug()+cfg.Gallery.OutputExtension)
		if err := writeDocument(out, page); err != nil {
			return err
		}
		report.Documents = append(report.Documents, out)
	}

	page, err := renderer.RootPage(buckets, featured)
	if err != nil {
		return err
	}
	out := filepath.Join(cfg.Gallery.Root, "index"+cfg.Gallery.OutputExtension)
	if err := writeDocument(out, page); err != nil {
		return err
	}
	report.Documents = append(report.Documents, out)

	// Multi-document projects get a sibling menu in their main document.
	for _, proj := range cat.Projects {
		set, ok := sets[proj.Path]
		if !ok {
			continue
		}
		docPath := filepath.Join(cfg.Gallery.Root, proj.Path, set.Main)
		if err := gallery.InjectNavTree(docPath, set.Children()); err != nil {
			return err
		}
	}
	return nil
}

// recover logs a recoverable finding and records it, or promotes it to a
// build failure in strict mode.
func (p *Pipeline) recover(log *slog.Logger, report *Report, err error) error {
	if p.cfg.Strict {
		if gerr, ok := err.(*gerrors.GalleryError); ok {
			promoted := *gerr
			promoted.Severity = gerrors.SeverityFatal
			return &promoted
		}
		return err
	}
	log.Warn("project excluded", logfields.Error(err))
	report.Warnings = append(report.Warnings, err.Error())
	return nil
}

func isRecoverable(err error) bool {
	gerr, ok := err.(*gerrors.GalleryError)
	return ok && gerr.Severity == gerrors.SeverityWarning
}

// writeDocument writes a rendered document, leaving an already identical
// file untouched so the daemon's file watcher never sees the build's own
// output as a change.
func writeDocument(path string, data []byte) error {
	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, data) {
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return gerrors.WriteFailed(path, err)
	}
	return nil
}

// stopwatch starts timing a stage and returns the stop function.
func (p *Pipeline) stopwatch(stage string) func() {
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		p.rec.StageDuration(stage, elapsed)
		p.log.Debug("stage finished", logfields.Stage(stage), logfields.DurationMS(elapsed))
	}
}
