package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefaultCatalogDir is the conventional location for project catalog
// extension files.
const DefaultCatalogDir = "catalogs"

// CatalogFile models one YAML extension file: extra descriptors plus extra
// alias mappings layered on top of the builtin catalog.
type CatalogFile struct {
	Version   int                  `yaml:"version"`
	Templates []TemplateDescriptor `yaml:"templates"`
	Aliases   map[string]string    `yaml:"aliases,omitempty"`
}

// ParseCatalogYAML decodes a catalog extension from YAML bytes.
func ParseCatalogYAML(data []byte) (CatalogFile, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return CatalogFile{}, fmt.Errorf("catalog: extension payload is empty")
	}
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return CatalogFile{}, fmt.Errorf("catalog: decode extension: %w", err)
	}
	for idx, desc := range file.Templates {
		if err := desc.Validate(); err != nil {
			return CatalogFile{}, fmt.Errorf("catalog: extension template[%d]: %w", idx, err)
		}
	}
	return file, nil
}

// LoadCatalogReader reads a catalog extension from an io.Reader.
func LoadCatalogReader(r io.Reader) (CatalogFile, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return CatalogFile{}, fmt.Errorf("catalog: read extension: %w", err)
	}
	return ParseCatalogYAML(content)
}

// LoadCatalogFile loads a catalog extension from an explicit file path.
func LoadCatalogFile(path string) (CatalogFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return CatalogFile{}, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	file, parseErr := ParseCatalogYAML(content)
	if parseErr != nil {
		return CatalogFile{}, fmt.Errorf("catalog: %s: %w", path, parseErr)
	}
	return file, nil
}

// ApplyTo registers the extension's descriptors and aliases on the provided
// registry and re-validates the combined catalog.
func (f CatalogFile) ApplyTo(reg *Registry) error {
	if reg == nil {
		return fmt.Errorf("catalog: registry is required")
	}
	for _, desc := range f.Templates {
		if err := reg.Register(desc); err != nil {
			return err
		}
	}
	// Map iteration order is random; apply aliases sorted so collisions
	// report deterministically.
	aliases := make([]string, 0, len(f.Aliases))
	for alias := range f.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		if err := reg.Alias(alias, f.Aliases[alias]); err != nil {
			return err
		}
	}
	return reg.Validate()
}

// LoadCatalogDir applies every *.yaml/*.yml file in dir to the registry, in
// lexical order. A missing directory is not an error; projects without
// extensions simply use the builtin catalog.
func LoadCatalogDir(reg *Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("catalog: read extension dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		file, err := LoadCatalogFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		if err := file.ApplyTo(reg); err != nil {
			return fmt.Errorf("catalog: apply %s: %w", entry.Name(), err)
		}
	}
	return nil
}
