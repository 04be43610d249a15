package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	gerrors "git.home.luguber.info/inful/gallerybuilder/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Gallery     GalleryConfig     `yaml:"gallery"`
	Catalog     CatalogConfig     `yaml:"catalog"`
	Categories  []Category        `yaml:"categories"`
	Redirects   RedirectConfig    `yaml:"redirects"`
	Deployments DeploymentsConfig `yaml:"deployments"`
	Daemon      DaemonConfig      `yaml:"daemon"`

	// Strict promotes recoverable warnings (missing index among multiple
	// documents, missing thumbnail) to fatal errors. Also settable through
	// the GALLERY_WARNING_AS_ERROR environment variable.
	Strict bool `yaml:"strict"`
}

// GalleryConfig describes the gallery tree layout and display settings.
type GalleryConfig struct {
	Title string `yaml:"title"`
	Intro string `yaml:"intro,omitempty"`

	// Root is the directory holding one subdirectory per project and
	// receiving the rendered category and index documents.
	Root string `yaml:"root"`

	// LabelsDir holds one <label>.svg icon per curated label.
	LabelsDir string `yaml:"labels_dir"`

	// CategoryDescriptionsDir optionally holds one <slug>.<output-ext>
	// fragment per category, interpolated into the category page header.
	CategoryDescriptionsDir string `yaml:"category_descriptions_dir,omitempty"`

	// DocExtension selects which files count as document artifacts.
	DocExtension string `yaml:"doc_extension,omitempty"`

	// OutputExtension is the extension of the rendered documents.
	OutputExtension string `yaml:"output_extension,omitempty"`
}

// Category is one entry of the curated category vocabulary. Rendering rank
// is the position in the configured list, never alphabetical.
type Category struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Slug returns the filesystem/URL slug for the category page.
func (c Category) Slug() string {
	return strings.ReplaceAll(strings.ToLower(c.Name), " ", "_")
}

// CatalogConfig points at the two normalized catalog inputs joined by
// project path.
type CatalogConfig struct {
	Projects string `yaml:"projects"`
	Tags     string `yaml:"tags"`
}

// RedirectConfig describes the redirect table output and the static table of
// historical flat-layout paths mapped onto the nested layout.
type RedirectConfig struct {
	Output string            `yaml:"output,omitempty"`
	Legacy map[string]string `yaml:"legacy,omitempty"`
}

// DeploymentsConfig describes the deployment endpoint host and listing output.
type DeploymentsConfig struct {
	Host   string `yaml:"host,omitempty"`
	Output string `yaml:"output,omitempty"`
}

// DaemonConfig holds settings for the continuous rebuild mode.
type DaemonConfig struct {
	Listen    string        `yaml:"listen,omitempty"`
	Interval  time.Duration `yaml:"interval,omitempty"`
	Debounce  time.Duration `yaml:"debounce,omitempty"`
	HistoryDB string        `yaml:"history_db,omitempty"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, gerrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, gerrors.Wrap(err, gerrors.CategoryConfig, gerrors.SeverityFatal, "failed to read config file")
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, gerrors.Wrap(err, gerrors.CategoryConfig, gerrors.SeverityFatal, "failed to parse config file")
	}

	cfg.applyDefaults()

	if os.Getenv("GALLERY_WARNING_AS_ERROR") != "" {
		cfg.Strict = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFiles loads .env/.env.local if present. Existing process
// environment variables take precedence (godotenv never overwrites).
func loadEnvFiles() {
	for _, p := range []string{".env", ".env.local"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Gallery.Title == "" {
		c.Gallery.Title = "Examples Gallery"
	}
	if c.Gallery.Root == "" {
		c.Gallery.Root = "doc/gallery"
	}
	if c.Gallery.LabelsDir == "" {
		c.Gallery.LabelsDir = "doc/_static/labels"
	}
	if c.Gallery.DocExtension == "" {
		c.Gallery.DocExtension = ".md"
	}
	if c.Gallery.OutputExtension == "" {
		c.Gallery.OutputExtension = ".rst"
	}
	if c.Catalog.Projects == "" {
		c.Catalog.Projects = "projects.yaml"
	}
	if c.Catalog.Tags == "" {
		c.Catalog.Tags = "tags.yml"
	}
	if c.Redirects.Output == "" {
		c.Redirects.Output = "redirects.yml"
	}
	if c.Deployments.Output == "" {
		c.Deployments.Output = "deployments.yaml"
	}
	if c.Daemon.Listen == "" {
		c.Daemon.Listen = ":8080"
	}
	if c.Daemon.Interval == 0 {
		c.Daemon.Interval = time.Hour
	}
	if c.Daemon.Debounce == 0 {
		c.Daemon.Debounce = 2 * time.Second
	}
	if c.Daemon.HistoryDB == "" {
		c.Daemon.HistoryDB = "gallery-history.db"
	}
}

// Validate checks invariants that the rest of the pipeline depends on.
func (c *Config) Validate() error {
	if len(c.Categories) == 0 {
		return gerrors.ValidationFailed("categories", "category vocabulary must not be empty")
	}
	seen := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return gerrors.ValidationFailed("categories", "category name must not be empty")
		}
		if _, dup := seen[cat.Name]; dup {
			return gerrors.ValidationFailed("categories", "duplicate category "+cat.Name)
		}
		seen[cat.Name] = struct{}{}
	}
	if !strings.HasPrefix(c.Gallery.DocExtension, ".") {
		return gerrors.ValidationFailed("gallery.doc_extension", "must start with a dot")
	}
	if !strings.HasPrefix(c.Gallery.OutputExtension, ".") {
		return gerrors.ValidationFailed("gallery.output_extension", "must start with a dot")
	}
	return nil
}

// HasCategory reports whether name belongs to the vocabulary.
func (c *Config) HasCategory(name string) bool {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return true
		}
	}
	return false
}

// CategoryRank returns the fixed rendering rank of a category, or -1 when
// the name is outside the vocabulary.
func (c *Config) CategoryRank(name string) int {
	for i, cat := range c.Categories {
		if cat.Name == name {
			return i
		}
	}
	return -1
}
