// Package gallery derives the category index from the catalog and renders
// the navigation documents (category pages and the root page).
package gallery

import (
	"git.home.luguber.info/inful/gallerybuilder/internal/catalog"
	"git.home.luguber.info/inful/gallerybuilder/internal/config"
)

// Bucket groups the projects of one category, in catalog declaration order.
type Bucket struct {
	Category config.Category
	Projects []*catalog.Project
}

// BuildIndex inverts the project to category mapping into category buckets.
//
// Buckets come out in vocabulary rank order and projects keep catalog
// iteration order within each bucket; both orderings are stability
// guarantees, not conveniences. Categories no project references still get
// an (empty) bucket so the rendered site always shows the full curated
// taxonomy.
func BuildIndex(cfg *config.Config, cat *catalog.Catalog) []Bucket {
	buckets := make([]Bucket, len(cfg.Categories))
	for i, c := range cfg.Categories {
		buckets[i] = Bucket{Category: c}
	}

	for i := range cat.Projects {
		p := &cat.Projects[i]
		for _, name := range p.Categories {
			// Unknown categories were rejected at catalog load.
			if rank := cfg.CategoryRank(name); rank >= 0 {
				buckets[rank].Projects = append(buckets[rank].Projects, p)
			}
		}
	}
	return buckets
}
