// Package assets checks the supporting files a rendered card depends on:
// the project thumbnail and the label icons. Thumbnails degrade gracefully
// (no thumbnail, no card); labels are a curated vocabulary, so a missing
// icon is a curation contract violation and fails the build.
package assets

import (
	"os"
	"path/filepath"

	gerrors "git.home.luguber.info/inful/gallerybuilder/internal/errors"
)

// Validator resolves and checks conventional asset paths.
type Validator struct {
	root      string // gallery root holding the project directories
	labelsDir string // directory holding <label>.svg icons
}

// NewValidator creates a validator for the given gallery root and labels dir.
func NewValidator(root, labelsDir string) *Validator {
	return &Validator{root: root, labelsDir: labelsDir}
}

// ThumbnailPath returns the conventional thumbnail path for a main artifact
// stem: <root>/<project>/thumbnails/<stem>.png.
func (v *Validator) ThumbnailPath(project, stem string) string {
	return filepath.Join(v.root, project, "thumbnails", stem+".png")
}

// LabelIconPath returns the conventional icon path for a label.
func (v *Validator) LabelIconPath(label string) string {
	return filepath.Join(v.labelsDir, label+".svg")
}

// CheckThumbnail verifies the thumbnail exists. Absence is a recoverable
// warning: the card is omitted but the project stays linkable elsewhere.
func (v *Validator) CheckThumbnail(project, stem string) (string, error) {
	path := v.ThumbnailPath(project, stem)
	if _, err := os.Stat(path); err != nil {
		return "", gerrors.MissingThumbnail(project, path)
	}
	return path, nil
}

// CheckLabels verifies every label resolves to an icon file. The first
// missing icon aborts: labels are reviewed, not free text.
func (v *Validator) CheckLabels(labels []string) error {
	for _, label := range labels {
		path := v.LabelIconPath(label)
		if _, err := os.Stat(path); err != nil {
			return gerrors.MissingLabelIcon(label, path)
		}
	}
	return nil
}
