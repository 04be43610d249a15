// Package check implements the preflight validation run: it inspects the
// whole gallery tree and reports every finding instead of stopping at the
// first, so contributors can fix a batch of problems in one pass.
package check

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/gallerybuilder/internal/artifacts"
	"git.home.luguber.info/inful/gallerybuilder/internal/assets"
	"git.home.luguber.info/inful/gallerybuilder/internal/catalog"
	"git.home.luguber.info/inful/gallerybuilder/internal/config"
	gerrors "git.home.luguber.info/inful/gallerybuilder/internal/errors"
	"git.home.luguber.info/inful/gallerybuilder/internal/logfields"
	"git.home.luguber.info/inful/gallerybuilder/internal/markdown"
)

// Finding is one problem detected during validation.
type Finding struct {
	Project string
	Kind    string
	Detail  string
}

func (f Finding) String() string {
	if f.Project == "" {
		return fmt.Sprintf("[%s] %s", f.Kind, f.Detail)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Kind, f.Project, f.Detail)
}

// Run validates the catalog and the gallery tree. Catalog-level failures
// (unreadable or inconsistent inputs) are returned as an error; everything
// else accumulates as findings, in catalog order.
func Run(cfg *config.Config, log *slog.Logger) ([]Finding, error) {
	cat, err := catalog.Load(cfg)
	if err != nil {
		return nil, err
	}

	resolver := artifacts.NewResolver(
		artifacts.NewFSLister(cfg.Gallery.Root, cfg.Gallery.DocExtension),
		cfg.Gallery.DocExtension)
	validator := assets.NewValidator(cfg.Gallery.Root, cfg.Gallery.LabelsDir)

	var findings []Finding
	add := func(project, kind, detail string) {
		findings = append(findings, Finding{Project: project, Kind: kind, Detail: detail})
		log.Warn("validation finding",
			logfields.Project(project),
			slog.String("kind", kind),
			slog.String("detail", detail))
	}

	for i := range cat.Projects {
		p := &cat.Projects[i]

		if p.Description == "" {
			add(p.Path, "metadata", "missing description")
		}
		if len(p.Categories) == 0 {
			add(p.Path, "metadata", "no categories assigned")
		}

		for _, label := range p.Labels {
			if _, statErr := os.Stat(validator.LabelIconPath(label)); statErr != nil {
				add(p.Path, "label", fmt.Sprintf("no icon for label %q", label))
			}
		}

		set, err := resolver.Resolve(p)
		if err != nil {
			var gerr *gerrors.GalleryError
			if errors.As(err, &gerr) {
				add(p.Path, "artifact", gerr.Message)
			} else {
				add(p.Path, "artifact", err.Error())
			}
			continue
		}

		thumb := validator.ThumbnailPath(p.Path, set.MainStem())
		if _, statErr := os.Stat(thumb); statErr != nil {
			add(p.Path, "thumbnail", "missing "+filepath.Base(thumb))
		} else {
			for _, problem := range assets.CheckThumbnailQuality(thumb) {
				add(p.Path, "thumbnail", problem)
			}
		}

		if cfg.Gallery.DocExtension == ".md" {
			for _, doc := range set.Documents {
				docPath := filepath.Join(cfg.Gallery.Root, p.Path, doc)
				_, ok, readErr := markdown.TitleFromFile(docPath)
				switch {
				case readErr != nil:
					add(p.Path, "heading", "unreadable document "+doc)
				case !ok:
					add(p.Path, "heading", doc+" does not start with a level-1 heading")
				}
			}
		}
	}
	return findings, nil
}
