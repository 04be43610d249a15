// Package artifacts decides, per project, which documents are displayed and
// which single document represents the project in card grids and links.
package artifacts

import (
	"sort"
	"strings"

	"git.home.luguber.info/inful/gallerybuilder/internal/catalog"
	gerrors "git.home.luguber.info/inful/gallerybuilder/internal/errors"
)

// Set is the resolved artifact set of a project. Documents is ordered main
// artifact first, then the remaining documents in ascending lexicographic
// order. The ordering is load-bearing: it determines the first page a reader
// sees and the menu order of sibling pages.
type Set struct {
	Project   string
	Main      string   // filename of the main artifact
	Documents []string // all displayed filenames, main first
	ext       string
}

// MainStem returns the main artifact filename without its extension.
func (s *Set) MainStem() string {
	return strings.TrimSuffix(s.Main, s.ext)
}

// Stems returns all displayed document stems, main first.
func (s *Set) Stems() []string {
	out := make([]string, len(s.Documents))
	for i, d := range s.Documents {
		out[i] = strings.TrimSuffix(d, s.ext)
	}
	return out
}

// Children returns the stems of the non-main documents in display order.
func (s *Set) Children() []string {
	return s.Stems()[1:]
}

// Resolver applies the artifact selection rules on top of a DocLister.
type Resolver struct {
	lister DocLister
	ext    string
}

// NewResolver creates a resolver for the given lister and document extension.
func NewResolver(lister DocLister, ext string) *Resolver {
	return &Resolver{lister: lister, ext: ext}
}

// Resolve determines the artifact set of a project.
//
// Zero displayable documents is fatal. A single document is the main
// artifact regardless of its name. With multiple documents the reserved
// "index" stem must be present; when it is missing the returned error is a
// warning and the project is excluded from rendering, not the whole build.
func (r *Resolver) Resolve(p *catalog.Project) (*Set, error) {
	docs, err := r.lister.ListDocuments(p.Path)
	if err != nil {
		return nil, err
	}

	skip := p.SkipSet()
	kept := docs[:0:0]
	for _, d := range docs {
		if !skip.Has(d) {
			kept = append(kept, d)
		}
	}

	switch {
	case len(kept) == 0:
		return nil, gerrors.NoDisplayableContent(p.Path)
	case len(kept) == 1:
		return &Set{Project: p.Path, Main: kept[0], Documents: kept, ext: r.ext}, nil
	}

	indexName := catalog.IndexStem + r.ext
	idx := -1
	for i, d := range kept {
		if d == indexName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, gerrors.MissingIndexArtifact(p.Path)
	}

	ordered := make([]string, 0, len(kept))
	ordered = append(ordered, kept[idx])
	rest := append(append([]string{}, kept[:idx]...), kept[idx+1:]...)
	sort.Strings(rest)
	ordered = append(ordered, rest...)

	return &Set{Project: p.Path, Main: indexName, Documents: ordered, ext: r.ext}, nil
}
