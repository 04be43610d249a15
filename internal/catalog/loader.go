package catalog

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/gallerybuilder/internal/config"
	gerrors "git.home.luguber.info/inful/gallerybuilder/internal/errors"
	"git.home.luguber.info/inful/gallerybuilder/internal/logfields"
)

// projectsFile mirrors the on-disk projects declaration.
type projectsFile struct {
	Projects []Project `yaml:"projects"`
}

// tagEntry mirrors one entry of the tags input, keyed by project path.
type tagEntry struct {
	Category []string `yaml:"category,omitempty"`
	Featured bool     `yaml:"featured,omitempty"`
}

// Load reads the two catalog inputs (project declarations and the
// path to category mapping), joins them by path and validates the result
// against the configured category vocabulary. Validation failures here are
// fatal: categories drive navigation, so a silently dropped project would
// corrupt every downstream view.
func Load(cfg *config.Config) (*Catalog, error) {
	projects, err := loadProjects(cfg.Catalog.Projects)
	if err != nil {
		return nil, err
	}
	tags, err := loadTags(cfg.Catalog.Tags)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(projects))
	for i := range projects {
		p := &projects[i]
		if p.Path == "" {
			return nil, gerrors.New(gerrors.CategoryCatalog, gerrors.SeverityFatal, "project entry missing path")
		}
		if _, dup := seen[p.Path]; dup {
			return nil, gerrors.DuplicateProject(p.Path)
		}
		seen[p.Path] = struct{}{}

		if entry, ok := tags[p.Path]; ok {
			p.Categories = entry.Category
			p.Featured = entry.Featured
		}
		for _, cat := range p.Categories {
			if !cfg.HasCategory(cat) {
				return nil, gerrors.UnknownCategory(p.Path, cat)
			}
		}
	}

	for path := range tags {
		if _, ok := seen[path]; !ok {
			slog.Warn("Tags entry references a project not in the catalog", logfields.Project(path))
		}
	}

	slog.Info("Catalog loaded", logfields.Count(len(projects)))
	return &Catalog{Projects: projects}, nil
}

func loadProjects(path string) ([]Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, gerrors.CatalogNotFound(path)
		}
		return nil, gerrors.Wrap(err, gerrors.CategoryCatalog, gerrors.SeverityFatal, "failed to read projects file")
	}
	var pf projectsFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, gerrors.Wrap(err, gerrors.CategoryCatalog, gerrors.SeverityFatal, "malformed projects file").
			WithContext("path", path)
	}
	return pf.Projects, nil
}

func loadTags(path string) (map[string]tagEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, gerrors.CatalogNotFound(path)
		}
		return nil, gerrors.Wrap(err, gerrors.CategoryCatalog, gerrors.SeverityFatal, "failed to read tags file")
	}
	tags := make(map[string]tagEntry)
	if err := yaml.Unmarshal(data, &tags); err != nil {
		return nil, gerrors.Wrap(err, gerrors.CategoryCatalog, gerrors.SeverityFatal, "malformed tags file").
			WithContext("path", path)
	}
	return tags, nil
}
