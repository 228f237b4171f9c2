// Package config handles site discovery and site configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/corpxiv/corpxiv/internal/index"
)

// Config represents site configuration stored in corpxiv.yml.
type Config struct {
	BaseURL          string `yaml:"base_url,omitempty"`
	Publisher        string `yaml:"publisher,omitempty"`
	DefaultCategory  string `yaml:"default_category,omitempty"`
	LicenseURL       string `yaml:"license_url,omitempty"`
	HashAlgorithm    string `yaml:"hash_algorithm,omitempty"`    // sha256 or blake2b
	MinTitleLength   int    `yaml:"min_title_length,omitempty"`  // guardrail
	MinAbstractWords int    `yaml:"min_abstract_words,omitempty"` // guardrail
	PDFViewer        string `yaml:"pdf_viewer,omitempty"`        // system, skim, zathura, ...
	LogFile          string `yaml:"log_file,omitempty"`          // relative to the site root
}

const (
	ConfigFile   = "corpxiv.yml"
	ManifestFile = "manifest.json"
	DataDir      = "data"
	IndexFile    = "papers.yml"
	SitemapFile  = "sitemap.xml"
	PapersDir    = "papers"
	StateDir     = ".corpxiv"
	CacheDir     = "cache"
	DBFile       = "papers.db"
)

// Defaults applied by Load for unset fields.
const (
	DefaultBaseURL          = "https://corpxiv.github.io/corpXiv"
	DefaultPublisher        = "corpXiv"
	DefaultCategory         = "other"
	DefaultLicenseURL       = "https://creativecommons.org/licenses/by/4.0/"
	DefaultHashAlgorithm    = "sha256"
	DefaultMinTitleLength   = 10
	DefaultMinAbstractWords = 50
)

// SiteEnvVar overrides site discovery when set.
const SiteEnvVar = "CORPXIV_SITE"

// ErrNotSite is returned by FindSite when no site root is found.
var ErrNotSite = errors.New("not in a corpXiv site (no corpxiv.yml or manifest.json found)")

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// ConfigPath returns the path to corpxiv.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigFile)
}

// ManifestPath returns the path to the identifier registry from a root path.
func ManifestPath(root string) string {
	return filepath.Join(root, ManifestFile)
}

// IndexPath returns the path to data/papers.yml from a root path.
func IndexPath(root string) string {
	return filepath.Join(root, DataDir, IndexFile)
}

// SitemapPath returns the path to sitemap.xml from a root path.
func SitemapPath(root string) string {
	return filepath.Join(root, SitemapFile)
}

// PapersPath returns the path to the published papers directory.
func PapersPath(root string) string {
	return filepath.Join(root, PapersDir)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, StateDir, CacheDir)
}

// DBPath returns the path to the query cache database from a root path.
func DBPath(root string) string {
	return filepath.Join(root, StateDir, CacheDir, DBFile)
}

// IsSite checks if the given path is a site root.
func IsSite(root string) bool {
	for _, marker := range []string{ConfigFile, ManifestFile} {
		if info, err := os.Stat(filepath.Join(root, marker)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// FindSite walks up from the given path to find a site root.
func FindSite(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsSite(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotSite
		}
		abs = parent
	}
}

// Load reads corpxiv.yml from the site at root. A site without the file
// gets the defaults.
func Load(root string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(ConfigPath(root))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to the site at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks field values that Load cannot default.
func (c *Config) Validate() error {
	switch c.HashAlgorithm {
	case "sha256", "blake2b":
	default:
		return fmt.Errorf("invalid hash_algorithm: %s (valid: sha256, blake2b)", c.HashAlgorithm)
	}
	if !index.ValidCategory(c.DefaultCategory) {
		return fmt.Errorf("invalid default_category: %q (use lowercase letters, digits and hyphens)", c.DefaultCategory)
	}
	if c.MinTitleLength < 0 || c.MinAbstractWords < 0 {
		return fmt.Errorf("guardrail minimums must not be negative")
	}
	return nil
}

// LogPath returns the absolute log file path, or "" when file logging is off.
func (c *Config) LogPath(root string) string {
	if c.LogFile == "" {
		return ""
	}
	path := ExpandPath(c.LogFile)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Publisher == "" {
		c.Publisher = DefaultPublisher
	}
	if c.DefaultCategory == "" {
		c.DefaultCategory = DefaultCategory
	}
	if c.LicenseURL == "" {
		c.LicenseURL = DefaultLicenseURL
	}
	if c.HashAlgorithm == "" {
		c.HashAlgorithm = DefaultHashAlgorithm
	}
	if c.MinTitleLength == 0 {
		c.MinTitleLength = DefaultMinTitleLength
	}
	if c.MinAbstractWords == 0 {
		c.MinAbstractWords = DefaultMinAbstractWords
	}
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
