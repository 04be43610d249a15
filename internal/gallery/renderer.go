package gallery

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"unicode/utf8"

	"git.home.luguber.info/inful/gallerybuilder/internal/catalog"
	"git.home.luguber.info/inful/gallerybuilder/internal/config"
	gerrors "git.home.luguber.info/inful/gallerybuilder/internal/errors"
)

// Entry is one renderable project on a page: the project together with the
// stem of its main document. Only projects that resolved a main document and
// have a thumbnail become entries; the card grid and the navigation tree are
// rendered from the same slice so they can never disagree.
type Entry struct {
	Project *catalog.Project
	Main    string
}

// DocRef is the document reference relative to the gallery root, where both
// the category pages and the root page live.
func (e Entry) DocRef() string {
	return path.Join(filepath.ToSlash(e.Project.Path), e.Main)
}

type card struct {
	Title       string
	DocRef      string
	Thumbnail   string
	Description string
	Labels      []string
}

type categoryPageData struct {
	Title       string
	Description string
	Cards       []card
}

type rootSection struct {
	Heading     string
	Slug        string
	Title       string
	SeeMoreText string
	Cards       []card
}

type rootPageData struct {
	Title    string
	Intro    string
	Sections []rootSection
}

// Renderer produces the reStructuredText navigation documents.
type Renderer struct {
	cfg *config.Config
	tpl *template.Template
}

func NewRenderer(cfg *config.Config) (*Renderer, error) {
	tpl := template.New("gallery").Funcs(template.FuncMap{
		"underline": func(s, ch string) string {
			return strings.Repeat(ch, utf8.RuneCountInString(s))
		},
		"docref": func(title, target string) string {
			return fmt.Sprintf(":doc:`%s <%s>`", title, target)
		},
	})
	var err error
	if tpl, err = tpl.New("category").Parse(categoryPageTemplate); err != nil {
		return nil, gerrors.RenderFailed("category page template", err)
	}
	if tpl, err = tpl.New("root").Parse(rootPageTemplate); err != nil {
		return nil, gerrors.RenderFailed("root page template", err)
	}
	return &Renderer{cfg: cfg, tpl: tpl}, nil
}

// FlattenDescription collapses a multi-line description into a single line so
// it cannot break out of the card body indentation.
func FlattenDescription(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (r *Renderer) card(e Entry) card {
	p := e.Project
	labels := make([]string, 0, len(p.Labels))
	for _, l := range p.Labels {
		labels = append(labels, "/"+path.Join(filepath.ToSlash(r.cfg.Gallery.LabelsDir), l+".svg"))
	}
	return card{
		Title:       p.DisplayTitle(),
		DocRef:      e.DocRef(),
		Thumbnail:   "/" + path.Join(filepath.ToSlash(r.cfg.Gallery.Root), filepath.ToSlash(p.Path), "thumbnails", e.Main+".png"),
		Description: FlattenDescription(p.Description),
		Labels:      labels,
	}
}

// CategoryPage renders one category document from its renderable entries,
// preserving the order given.
func (r *Renderer) CategoryPage(cat config.Category, entries []Entry) ([]byte, error) {
	data := categoryPageData{
		Title:       cat.Name,
		Description: r.categoryDescription(cat),
	}
	for _, e := range entries {
		data.Cards = append(data.Cards, r.card(e))
	}
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, "category", data); err != nil {
		return nil, gerrors.RenderFailed(cat.Name, err)
	}
	return buf.Bytes(), nil
}

// RootPage renders the gallery landing document: one linked section per
// category, with the featured entries of that category as cards followed by a
// See More card pointing at the category page.
func (r *Renderer) RootPage(buckets []Bucket, featured map[string][]Entry) ([]byte, error) {
	data := rootPageData{
		Title: r.cfg.Gallery.Title,
		Intro: r.cfg.Gallery.Intro,
	}
	for _, b := range buckets {
		slug := b.Category.Slug()
		sec := rootSection{
			Heading:     fmt.Sprintf("`%s <%s>`_", b.Category.Name, slug),
			Slug:        slug,
			Title:       b.Category.Name,
			SeeMoreText: fmt.Sprintf("All %s projects", b.Category.Name),
		}
		for _, e := range featured[b.Category.Name] {
			sec.Cards = append(sec.Cards, r.card(e))
		}
		data.Sections = append(data.Sections, sec)
	}
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, "root", data); err != nil {
		return nil, gerrors.RenderFailed("index", err)
	}
	return buf.Bytes(), nil
}

// categoryDescription prefers a curated fragment on disk over the inline
// config description, with a generic fallback so a page never renders empty.
func (r *Renderer) categoryDescription(cat config.Category) string {
	if dir := r.cfg.Gallery.CategoryDescriptionsDir; dir != "" {
		p := filepath.Join(dir, cat.Slug()+r.cfg.Gallery.OutputExtension)
		if b, err := os.ReadFile(p); err == nil {
			return strings.TrimSpace(string(b))
		}
	}
	if cat.Description != "" {
		return strings.TrimSpace(cat.Description)
	}
	return fmt.Sprintf("%s projects.", cat.Name)
}
