package inventory

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return NewStore(t.TempDir(), WithClock(func() time.Time { return fixed }))
}

func TestWriteScanRoundTrip(t *testing.T) {
	store := testStore(t)
	path, err := store.Write(Document{
		TemplateID: "project-charter",
		Name:       "Project Charter",
		Source:     "docloom",
		Body:       []byte("# Project Charter\n\nContent.\n"),
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "project-charter.md" {
		t.Fatalf("unexpected path %s", path)
	}
	docs, err := store.Scan()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].TemplateID != "project-charter" || docs[0].Name != "Project Charter" {
		t.Fatalf("scanned document = %+v", docs[0])
	}
}

func TestWriteRequiresTemplateID(t *testing.T) {
	store := testStore(t)
	if _, err := store.Write(Document{Body: []byte("x")}); err == nil {
		t.Fatalf("expected missing template id to fail")
	}
}

func TestScanFallsBackToFilenameSlug(t *testing.T) {
	store := testStore(t)
	if err := os.MkdirAll(store.Dir(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Hand-written document without frontmatter.
	path := filepath.Join(store.Dir(), "Business Case.md")
	if err := os.WriteFile(path, []byte("# Business Case\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	docs, err := store.Scan()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "business-case" || docs[0].TemplateID != "" {
		t.Fatalf("docs = %+v", docs)
	}
}

func TestScanMissingDirReturnsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "never-created"))
	docs, err := store.Scan()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty inventory, got %+v", docs)
	}
}

func TestScanIgnoresNonMarkdown(t *testing.T) {
	store := testStore(t)
	if err := os.MkdirAll(store.Dir(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	docs, err := store.Scan()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty inventory, got %+v", docs)
	}
}

func TestCheckStates(t *testing.T) {
	store := testStore(t)
	state, _, err := store.Check("project-charter")
	if err != nil || state != StateMissing {
		t.Fatalf("missing check = %v %v", state, err)
	}
	if _, err := store.Write(Document{TemplateID: "project-charter", Name: "Charter", Body: []byte("body")}); err != nil {
		t.Fatalf("write: %v", err)
	}
	state, meta, err := store.Check("project-charter")
	if err != nil || state != StateReady {
		t.Fatalf("ready check = %v %v", state, err)
	}
	if meta == nil || meta.TemplateID != "project-charter" || meta.Checksum == "" {
		t.Fatalf("metadata = %+v", meta)
	}
	// A file whose frontmatter names a different template is invalid.
	stray := filepath.Join(store.Dir(), "risk-register.md")
	content, err := WriteFrontMatter(Metadata{TemplateID: "wbs", Generated: time.Now()}, []byte("body"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := os.WriteFile(stray, content, 0o644); err != nil {
		t.Fatalf("write stray: %v", err)
	}
	state, _, err = store.Check("risk-register")
	if err == nil || state != StateInvalid {
		t.Fatalf("mismatch check = %v %v", state, err)
	}
}

func TestParseFrontMatterErrors(t *testing.T) {
	if _, _, err := ParseFrontMatter(nil); err != ErrMissingFrontMatter {
		t.Fatalf("empty content: %v", err)
	}
	if _, _, err := ParseFrontMatter([]byte("# no fences\n")); err != ErrMissingFrontMatter {
		t.Fatalf("no fences: %v", err)
	}
	if _, _, err := ParseFrontMatter([]byte("---\ndocloom:\n  template: x\n")); err != ErrMalformedFrontMatter {
		t.Fatalf("unterminated fence: %v", err)
	}
	missingTemplate := "---\ndocloom:\n  generated: 2025-06-01T12:00:00Z\n---\n\nbody"
	if _, _, err := ParseFrontMatter([]byte(missingTemplate)); err != ErrMalformedFrontMatter {
		t.Fatalf("missing template id: %v", err)
	}
}

func TestFrontMatterRoundTripPreservesBody(t *testing.T) {
	meta := Metadata{
		TemplateID: "wbs",
		Name:       "Work Breakdown Structure",
		Source:     "docloom",
		Generated:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Notes:      map[string]string{"reviewer": "pending"},
	}
	body := []byte("# WBS\n\nLevel 1\n")
	content, err := WriteFrontMatter(meta, body)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	parsed, gotBody, err := ParseFrontMatter(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.TemplateID != meta.TemplateID || parsed.Name != meta.Name || !parsed.Generated.Equal(meta.Generated) {
		t.Fatalf("metadata round trip: %+v", parsed)
	}
	if parsed.Notes["reviewer"] != "pending" {
		t.Fatalf("notes round trip: %+v", parsed.Notes)
	}
	if !strings.HasPrefix(string(gotBody), "# WBS") {
		t.Fatalf("body round trip: %q", gotBody)
	}
	if strings.Contains(string(content), "\r") {
		t.Fatalf("unexpected carriage returns")
	}
}

func TestWriteHandlesCRLFInput(t *testing.T) {
	content := []byte("---\r\ndocloom:\r\n  template: wbs\r\n  generated: 2025-06-01T12:00:00Z\r\n---\r\n\r\nbody\r\n")
	meta, _, err := ParseFrontMatter(content)
	if err != nil {
		t.Fatalf("parse crlf: %v", err)
	}
	if meta.TemplateID != "wbs" {
		t.Fatalf("meta = %+v", meta)
	}
}
