package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFrontMatter indicates the document did not start with a YAML fence.
	ErrMissingFrontMatter = errors.New("inventory: missing frontmatter")
	// ErrMalformedFrontMatter indicates the YAML block could not be parsed.
	ErrMalformedFrontMatter = errors.New("inventory: malformed frontmatter")
)

// Metadata captures the provenance stored inside a generated document's
// frontmatter: which template produced it and when.
type Metadata struct {
	TemplateID string
	Name       string
	Source     string
	Generated  time.Time
	Checksum   string
	Notes      map[string]string
}

// ParseFrontMatter extracts the metadata block and body from a document that
// starts with `---` YAML fences.
func ParseFrontMatter(content []byte) (Metadata, []byte, error) {
	if len(content) == 0 {
		return Metadata{}, nil, ErrMissingFrontMatter
	}
	normalized := normalizeNewlines(content)
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return Metadata{}, nil, ErrMissingFrontMatter
	}
	rest := normalized[4:]
	parts := bytes.SplitN(rest, []byte("\n---\n"), 2)
	if len(parts) < 2 {
		return Metadata{}, nil, ErrMalformedFrontMatter
	}
	metaBytes := parts[0]
	body := parts[1]
	var envelope docloomEnvelope
	if err := yaml.Unmarshal(metaBytes, &envelope); err != nil {
		return Metadata{}, nil, fmt.Errorf("inventory: parse frontmatter: %w", err)
	}
	meta, err := envelope.toMetadata()
	if err != nil {
		return Metadata{}, nil, err
	}
	return meta, body, nil
}

// WriteFrontMatter renders metadata + body with YAML fences.
func WriteFrontMatter(meta Metadata, body []byte) ([]byte, error) {
	if meta.TemplateID == "" {
		return nil, fmt.Errorf("inventory: metadata missing template id")
	}
	envelope := docloomEnvelope{}
	envelope.fromMetadata(meta)
	data, err := yaml.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("inventory: encode frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString("\n---\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

type docloomEnvelope struct {
	Docloom docloomMetadata `yaml:"docloom"`
}

type docloomMetadata struct {
	Template  string            `yaml:"template"`
	Name      string            `yaml:"name,omitempty"`
	Source    string            `yaml:"source,omitempty"`
	Generated string            `yaml:"generated"`
	Checksum  string            `yaml:"checksum,omitempty"`
	Notes     map[string]string `yaml:"notes,omitempty"`
}

func (e docloomEnvelope) toMetadata() (Metadata, error) {
	if e.Docloom.Template == "" {
		return Metadata{}, ErrMalformedFrontMatter
	}
	generated, err := parseTime(e.Docloom.Generated)
	if err != nil {
		return Metadata{}, fmt.Errorf("inventory: parse generated timestamp: %w", err)
	}
	return Metadata{
		TemplateID: e.Docloom.Template,
		Name:       e.Docloom.Name,
		Source:     e.Docloom.Source,
		Generated:  generated,
		Checksum:   e.Docloom.Checksum,
		Notes:      cloneNotes(e.Docloom.Notes),
	}, nil
}

func (e *docloomEnvelope) fromMetadata(meta Metadata) {
	e.Docloom.Template = meta.TemplateID
	e.Docloom.Name = meta.Name
	e.Docloom.Source = meta.Source
	e.Docloom.Generated = meta.Generated.UTC().Format(timeLayout)
	e.Docloom.Checksum = meta.Checksum
	e.Docloom.Notes = cloneNotes(meta.Notes)
}

func cloneNotes(notes map[string]string) map[string]string {
	if len(notes) == 0 {
		return nil
	}
	cloned := make(map[string]string, len(notes))
	for k, v := range notes {
		cloned[k] = v
	}
	return cloned
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func parseTime(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("inventory: empty generated timestamp")
	}
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func normalizeNewlines(content []byte) []byte {
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}
