// Package inventory is the available-documents source: it scans the project
// output directory for generated markdown, reads each file's frontmatter to
// recover which template produced it, and hands the resolver its satisfied
// set. It also writes generated documents back with the same frontmatter so
// later sessions can pick up where this one left off.
package inventory

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/docloom/docloom/internal/resolver"
)

// State captures the readiness of one template's document on disk.
type State string

const (
	StateMissing State = "missing"
	StateReady   State = "ready"
	StateInvalid State = "invalid"
)

// Document is one generated document ready to be persisted.
type Document struct {
	TemplateID string
	Name       string
	Source     string
	Body       []byte
	Notes      map[string]string
}

// Store manages generated-document IO rooted at the project output directory.
type Store struct {
	dir string
	now func() time.Time
}

// StoreOption customizes a Store during construction.
type StoreOption func(*Store)

// WithClock overrides the clock used for frontmatter timestamps.
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = clock
	}
}

// NewStore builds a store over the given output directory.
func NewStore(dir string, opts ...StoreOption) *Store {
	store := &Store{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Dir returns the output directory the store is rooted at.
func (s *Store) Dir() string {
	return s.dir
}

// Scan walks the output directory and returns every markdown document found,
// mapped to the template that produced it. Files carrying docloom
// frontmatter report their recorded template id; files without it fall back
// to a slug of their filename so hand-written documents still satisfy
// dependencies.
func (s *Store) Scan() ([]resolver.AvailableDocument, error) {
	var docs []resolver.AvailableDocument
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == s.dir {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		docs = append(docs, s.scanFile(path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("inventory: scan %s: %w", s.dir, err)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *Store) scanFile(path string) resolver.AvailableDocument {
	slug := fileSlug(path)
	content, err := os.ReadFile(path)
	if err != nil {
		return resolver.AvailableDocument{ID: slug, Name: slug}
	}
	meta, _, metaErr := ParseFrontMatter(content)
	if metaErr != nil {
		return resolver.AvailableDocument{ID: slug, Name: slug}
	}
	name := meta.Name
	if name == "" {
		name = slug
	}
	return resolver.AvailableDocument{ID: slug, Name: name, TemplateID: meta.TemplateID}
}

// Write renders the document with docloom frontmatter and persists it
// atomically (temp file then rename) under <output>/<template-id>.md.
func (s *Store) Write(doc Document) (string, error) {
	if strings.TrimSpace(doc.TemplateID) == "" {
		return "", fmt.Errorf("inventory: document template id is required")
	}
	meta := Metadata{
		TemplateID: doc.TemplateID,
		Name:       doc.Name,
		Source:     doc.Source,
		Generated:  s.now(),
		Checksum:   checksum(doc.Body),
		Notes:      doc.Notes,
	}
	content, err := WriteFrontMatter(meta, doc.Body)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("inventory: ensure output dir: %w", err)
	}
	path := filepath.Join(s.dir, doc.TemplateID+".md")
	tmp, err := os.CreateTemp(s.dir, "."+doc.TemplateID+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("inventory: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("inventory: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("inventory: close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("inventory: rename into place: %w", err)
	}
	return path, nil
}

// Check reports the on-disk state of a single template's document.
func (s *Store) Check(templateID string) (State, *Metadata, error) {
	path := filepath.Join(s.dir, templateID+".md")
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return StateMissing, nil, nil
		}
		return StateInvalid, nil, fmt.Errorf("inventory: read %s: %w", path, err)
	}
	meta, _, metaErr := ParseFrontMatter(content)
	if metaErr != nil {
		return StateInvalid, nil, metaErr
	}
	if meta.TemplateID != templateID {
		return StateInvalid, &meta, fmt.Errorf("inventory: %s records template %s", path, meta.TemplateID)
	}
	return StateReady, &meta, nil
}

func checksum(body []byte) string {
	sum := sha256.Sum256(body)
	return "sha256:" + hex.EncodeToString(sum[:])
}

func fileSlug(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, base)
	return strings.Trim(slug, "-")
}
