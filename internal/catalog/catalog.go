// Package catalog loads and validates the declarative project catalog that
// drives the gallery build. The catalog is read once per run and treated as
// immutable afterwards; every derived view (category buckets, redirect
// tables) is computed from a snapshot, never by mutating it.
package catalog

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/gallerybuilder/internal/util/sets"
)

// IndexStem is the reserved document stem that marks the main artifact of a
// multi-document project.
const IndexStem = "index"

// Deployment describes one live deployment of a project.
type Deployment struct {
	Command         string `yaml:"command"`
	ResourceProfile string `yaml:"resource_profile,omitempty"`
	AutoDeploy      *bool  `yaml:"auto_deploy,omitempty"`
}

// ShouldAutoDeploy reports whether the deployment is started automatically.
// Absent means yes.
func (d Deployment) ShouldAutoDeploy() bool {
	return d.AutoDeploy == nil || *d.AutoDeploy
}

// Project is one gallery entry: a directory of documents plus curated
// metadata. Path doubles as the unique stable identifier and the directory
// name under the gallery root.
type Project struct {
	Path        string       `yaml:"path"`
	Title       string       `yaml:"title,omitempty"`
	Description string       `yaml:"description,omitempty"`
	Labels      []string     `yaml:"labels,omitempty"`
	Skip        []string     `yaml:"skip,omitempty"`
	Maintainers []string     `yaml:"maintainers,omitempty"`
	Created     time.Time    `yaml:"created,omitempty"`
	LastUpdated time.Time    `yaml:"last_updated,omitempty"`
	Deployments []Deployment `yaml:"deployments,omitempty"`

	// Joined from the tags input; not part of the project declaration.
	Categories []string `yaml:"-"`
	Featured   bool     `yaml:"-"`
}

// SkipSet returns the skip list as a set for membership checks.
func (p *Project) SkipSet() sets.Set[string] {
	return sets.New(p.Skip...)
}

// DisplayTitle returns the configured title, falling back to a title-cased
// form of the directory name (underscores become spaces).
func (p *Project) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return titleCaser.String(strings.ReplaceAll(p.Path, "_", " "))
}

// ServerName returns the deployment server name for the project
// (underscores are not valid in hostnames).
func (p *Project) ServerName() string {
	return strings.ReplaceAll(p.Path, "_", "-")
}

var titleCaser = cases.Title(language.English)

// Catalog is the immutable snapshot of all declared projects, in declaration
// order. Declaration order is load-bearing: category buckets and rendered
// documents preserve it so repeat builds are byte-identical.
type Catalog struct {
	Projects []Project
}

// ByPath returns the project with the given path, or nil.
func (c *Catalog) ByPath(path string) *Project {
	for i := range c.Projects {
		if c.Projects[i].Path == path {
			return &c.Projects[i]
		}
	}
	return nil
}

// Paths returns all project paths in declaration order.
func (c *Catalog) Paths() []string {
	out := make([]string, len(c.Projects))
	for i := range c.Projects {
		out[i] = c.Projects[i].Path
	}
	return out
}
