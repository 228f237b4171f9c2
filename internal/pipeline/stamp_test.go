package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/corpxiv/corpxiv/internal/config"
)

// addPaperFile writes a PDF under papers/ and registers the document it parses to.
func (s *fakeSite) addPaperFile(rel string, parsable bool) string {
	s.t.Helper()
	path := filepath.Join(config.PapersPath(s.root), filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		s.t.Fatal(err)
	}
	content := "%PDF-fake " + rel
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		s.t.Fatal(err)
	}
	if parsable {
		s.docs[content] = goodDoc("Stamped Paper")
	}
	return path
}

func TestStampFiles(t *testing.T) {
	s := newFakeSite(t)
	nested := s.addPaperFile("physics/quantum/quantum.pdf", true)
	flat := s.addPaperFile("loose.pdf", true)
	notes := filepath.Join(s.root, "papers", "notes.txt")
	if err := os.WriteFile(notes, []byte("notes"), 0644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(s.root, "papers", "gone.pdf")

	results, err := s.pipeline().StampFiles([]string{nested, notes, missing, flat})
	if err != nil {
		t.Fatalf("StampFiles() error = %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want 4", len(results))
	}

	if results[0].ID != "2501.00001v1" || results[0].Category != "physics" {
		t.Errorf("nested result = %+v", results[0])
	}
	if !results[1].Skipped || !results[2].Skipped {
		t.Errorf("non-pdf and missing files should be skipped: %+v %+v", results[1], results[2])
	}
	if results[3].ID != "2501.00002v1" || results[3].Category != config.DefaultCategory {
		t.Errorf("flat result = %+v", results[3])
	}

	data, err := os.ReadFile(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("corpXiv:2501.00001v1 [physics] 7 Jan 2025")) {
		t.Errorf("stamped file = %q", data)
	}

	state := s.registry()
	if state.NextNumber != 3 {
		t.Errorf("NextNumber = %d, want 3", state.NextNumber)
	}
	entry, ok := state.Lookup("physics/quantum/quantum.pdf")
	if !ok || entry.ID != "2501.00001v1" {
		t.Errorf("registry entry = %+v, %v", entry, ok)
	}
}

func TestStampFiles_Idempotent(t *testing.T) {
	s := newFakeSite(t)
	path := s.addPaperFile("physics/quantum/quantum.pdf", true)

	first, err := s.pipeline().StampFiles([]string{path})
	if err != nil {
		t.Fatal(err)
	}

	// The stamped file has new content, so register it as parsable too.
	data, _ := os.ReadFile(path)
	s.docs[string(data)] = goodDoc("Stamped Paper")

	second, err := s.pipeline().StampFiles([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	if first[0].ID != second[0].ID {
		t.Errorf("restamp changed ID: %q then %q", first[0].ID, second[0].ID)
	}
	if s.registry().NextNumber != 2 {
		t.Errorf("NextNumber = %d, want 2", s.registry().NextNumber)
	}
}

func TestStampFiles_UnreadableConsumesNoNumber(t *testing.T) {
	s := newFakeSite(t)
	bad := s.addPaperFile("physics/bad/bad.pdf", false)
	good := s.addPaperFile("physics/good/good.pdf", true)

	results, err := s.pipeline().StampFiles([]string{bad, good})
	if err != nil {
		t.Fatalf("StampFiles() error = %v", err)
	}
	if results[0].Error == "" || results[0].ID != "" {
		t.Errorf("unreadable result = %+v", results[0])
	}
	if results[1].ID != "2501.00001v1" {
		t.Errorf("good ID = %q, want 2501.00001v1", results[1].ID)
	}
}

func TestStampFiles_OutsidePapers(t *testing.T) {
	s := newFakeSite(t)
	path := s.addPDF("outside.pdf", goodDoc("Outside"))

	results, err := s.pipeline().StampFiles([]string{path})
	if err != nil {
		t.Fatalf("StampFiles() error = %v", err)
	}
	if results[0].Error == "" {
		t.Error("file outside papers/ should fail")
	}
	if s.registry().NextNumber != 1 {
		t.Error("failed stamp consumed a number")
	}
}
