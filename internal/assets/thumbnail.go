package assets

import (
	"fmt"
	"image/png"
	"os"
)

// Thumbnail quality bounds enforced by the validate command. Oversized or
// badly proportioned thumbnails break the card grid layout.
const (
	maxThumbnailBytes = 1 << 20 // 1 MB
	minAspectRatio    = 0.9
	maxAspectRatio    = 1.5
)

// CheckThumbnailQuality inspects an existing thumbnail PNG and returns
// human-readable findings (empty when the thumbnail is acceptable).
// The file must be a decodable PNG; anything else is reported as a finding
// rather than an error so validation keeps iterating.
func CheckThumbnailQuality(path string) []string {
	var findings []string

	info, err := os.Stat(path)
	if err != nil {
		return []string{fmt.Sprintf("thumbnail %s is not readable: %v", path, err)}
	}
	if info.Size() > maxThumbnailBytes {
		findings = append(findings, fmt.Sprintf(
			"thumbnail size (%.2f MB) is above 1MB", float64(info.Size())/1e6))
	}

	f, err := os.Open(path)
	if err != nil {
		return append(findings, fmt.Sprintf("thumbnail %s is not readable: %v", path, err))
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return append(findings, fmt.Sprintf("thumbnail %s is not a valid PNG: %v", path, err))
	}
	if cfg.Height == 0 {
		return append(findings, fmt.Sprintf("thumbnail %s has zero height", path))
	}

	aspect := float64(cfg.Width) / float64(cfg.Height)
	if aspect < minAspectRatio || aspect > maxAspectRatio {
		findings = append(findings, fmt.Sprintf(
			"thumbnail aspect ratio (%.2f) must be between %.1f and %.1f",
			aspect, minAspectRatio, maxAspectRatio))
	}
	return findings
}
