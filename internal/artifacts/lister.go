package artifacts

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	gerrors "git.home.luguber.info/inful/gallerybuilder/internal/errors"
)

// DocLister enumerates the candidate document artifacts of a project.
// Modeled as a capability so discovery can be backed by an explicit manifest
// instead of directory iteration; the filesystem implementation sorts its
// results so no output ever depends on readdir order.
type DocLister interface {
	ListDocuments(projectPath string) ([]string, error)
}

// FSLister lists documents by scanning <root>/<project> for files with the
// configured document extension.
type FSLister struct {
	root string
	ext  string
}

// NewFSLister creates a filesystem-backed document lister.
func NewFSLister(root, ext string) *FSLister {
	return &FSLister{root: root, ext: ext}
}

// ListDocuments returns the document basenames of a project, sorted
// lexicographically.
func (l *FSLister) ListDocuments(projectPath string) ([]string, error) {
	dir := filepath.Join(l.root, projectPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, gerrors.Wrap(err, gerrors.CategoryFileSystem, gerrors.SeverityFatal, "failed to read project directory").
			WithContext("project", projectPath).
			WithContext("path", dir)
	}

	var docs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), l.ext) {
			docs = append(docs, entry.Name())
		}
	}
	sort.Strings(docs)
	return docs, nil
}
