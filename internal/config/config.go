// internal/config/config.go
//
// This package handles configuration and the .docloom directory structure.
// Every project that uses docloom gets a .docloom/ folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DocloomDir is the name of the directory we create in each project
	DocloomDir = ".docloom"

	defaultOutputDir = "docs"
)

const defaultProjectConfigYAML = `# docloom project configuration
version: 1

# Directory (relative to .docloom/) where generated documents are written
# and scanned for frontmatter metadata.
output_dir: docs

# Extra catalog files to layer on top of the builtin template catalog.
# Paths are relative to .docloom/; the catalogs/ directory is always scanned.
catalogs: []

# When true, templates that cannot be resolved in the catalog are treated as
# invalid instead of being waved through with a warning.
strict_unknown: false

# Maximum number of documents the planner will schedule per batch.
max_parallel: 4
`

// ProjectConfig models .docloom/config.yaml.
type ProjectConfig struct {
	Version       int      `yaml:"version"`
	OutputDir     string   `yaml:"output_dir,omitempty"`
	Catalogs      []string `yaml:"catalogs,omitempty"`
	StrictUnknown bool     `yaml:"strict_unknown,omitempty"`
	MaxParallel   int      `yaml:"max_parallel,omitempty"`
}

// Config holds the runtime configuration for docloom.
type Config struct {
	// ProjectDir is the directory where the user ran `docloom` from
	ProjectDir string

	// DocloomProjectDir is ProjectDir/.docloom
	DocloomProjectDir string

	Project ProjectConfig
}

// InitDocloomDir creates the .docloom directory structure in the given
// project directory and seeds a commented default config.yaml.
//
// Structure created:
// .docloom/
// ├── catalogs/  <- YAML catalog extension files
// ├── docs/      <- Generated documents (default output dir)
// └── logs/      <- Resolver and planner activity log
func InitDocloomDir(projectDir string) error {
	docloomDir := filepath.Join(projectDir, DocloomDir)

	dirs := []string{
		filepath.Join(docloomDir, "catalogs"),
		filepath.Join(docloomDir, defaultOutputDir),
		filepath.Join(docloomDir, "logs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return ensureProjectConfig(filepath.Join(docloomDir, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:        projectDir,
		DocloomProjectDir: filepath.Join(projectDir, DocloomDir),
		Project:           defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OutputDir returns the directory where generated documents live.
func (c *Config) OutputDir() string {
	return filepath.Join(c.DocloomProjectDir, c.Project.OutputDir)
}

// CatalogDir returns the directory scanned for catalog extension files.
func (c *Config) CatalogDir() string {
	return filepath.Join(c.DocloomProjectDir, "catalogs")
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.DocloomProjectDir, "logs")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.DocloomProjectDir, "config.yaml")
}

// CatalogPaths resolves the configured extra catalog files relative to the
// .docloom directory.
func (c *Config) CatalogPaths() []string {
	if len(c.Project.Catalogs) == 0 {
		return nil
	}
	paths := make([]string, 0, len(c.Project.Catalogs))
	for _, entry := range c.Project.Catalogs {
		paths = append(paths, resolvePath(c.DocloomProjectDir, entry))
	}
	return paths
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version:     1,
		OutputDir:   defaultOutputDir,
		MaxParallel: 4,
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.MaxParallel == 0 {
		pc.MaxParallel = 4
	}
}

func (pc *ProjectConfig) normalize() {
	pc.OutputDir = strings.TrimSpace(pc.OutputDir)
	if pc.OutputDir == "" {
		pc.OutputDir = defaultOutputDir
	}
	cleaned := pc.Catalogs[:0]
	for _, entry := range pc.Catalogs {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	pc.Catalogs = cleaned
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.MaxParallel < 0 {
		return fmt.Errorf("max_parallel must not be negative")
	}
	if filepath.IsAbs(pc.OutputDir) {
		return fmt.Errorf("output_dir must be relative to %s", DocloomDir)
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}
