// Package redirects derives the redirect table for moved or renamed
// documents and writes it as YAML for the web server to consume.
package redirects

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/gallerybuilder/internal/catalog"
	"git.home.luguber.info/inful/gallerybuilder/internal/config"
	gerrors "git.home.luguber.info/inful/gallerybuilder/internal/errors"
)

// Generate builds the full redirect table from the resolved projects plus
// the static legacy entries from the config.
//
// Every project gets a directory-level redirect to its main document, and
// when the main document is not named index an index alias as well, so
// pre-existing links keep working after a project's entry point is renamed.
// mains maps project path to its resolved main document stem; projects that
// were excluded during resolution are absent and produce no redirects.
func Generate(cfg *config.Config, cat *catalog.Catalog, mains map[string]string) (map[string]string, error) {
	root := filepath.ToSlash(cfg.Gallery.Root)
	table := make(map[string]string)

	add := func(source, target string) error {
		if _, ok := table[source]; ok {
			return gerrors.DuplicateRedirect(source)
		}
		table[source] = target
		return nil
	}

	for _, p := range cat.Projects {
		main, ok := mains[p.Path]
		if !ok {
			continue
		}
		base := path.Join(root, filepath.ToSlash(p.Path))
		target := path.Join(base, main)
		if err := add(base, target); err != nil {
			return nil, err
		}
		if main != catalog.IndexStem {
			if err := add(path.Join(base, catalog.IndexStem), target); err != nil {
				return nil, err
			}
		}
	}

	// Merge legacy entries in sorted order so a duplicate is reported
	// against the same source on every run.
	legacy := make([]string, 0, len(cfg.Redirects.Legacy))
	for source := range cfg.Redirects.Legacy {
		legacy = append(legacy, source)
	}
	sort.Strings(legacy)
	for _, source := range legacy {
		target := cfg.Redirects.Legacy[source]
		if !targetKnown(root, target, cat) {
			return nil, gerrors.RedirectTargetUnknown(source, target)
		}
		if err := add(source, target); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// targetKnown reports whether target points into a catalog project under the
// gallery root. Dangling legacy redirects are caught at build time rather
// than surfacing as 404s after deployment.
func targetKnown(root, target string, cat *catalog.Catalog) bool {
	rel, ok := strings.CutPrefix(target, root+"/")
	if !ok {
		return false
	}
	for _, p := range cat.Projects {
		pp := filepath.ToSlash(p.Path)
		if rel == pp || strings.HasPrefix(rel, pp+"/") {
			return true
		}
	}
	return false
}

// Write marshals the table to YAML at the given path. yaml.v3 emits map keys
// sorted, so the file is byte-identical across runs; an unchanged table is
// not rewritten.
func Write(outPath string, table map[string]string) error {
	data, err := yaml.Marshal(table)
	if err != nil {
		return gerrors.InternalError("marshal redirect table", err)
	}
	if old, readErr := os.ReadFile(outPath); readErr == nil && bytes.Equal(old, data) {
		return nil
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return gerrors.WriteFailed(outPath, err)
		}
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return gerrors.WriteFailed(outPath, err)
	}
	return nil
}
