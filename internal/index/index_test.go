package index

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func samplePapers() []Paper {
	return []Paper{
		{ID: "2501.00002v1", Title: "Second Paper", Authors: []string{"Jane Doe"}, Date: "2025-01-09", Category: "ai-systems", Slug: "second-paper", PDF: "second-paper.pdf", Hash: "bbbbbbbbbbbbbbbb"},
		{ID: "2501.00001v1", Title: "First Paper", Authors: []string{}, Date: "2025-01-07", Category: "biology", Slug: "first-paper", PDF: "first-paper.pdf", Hash: "aaaaaaaaaaaaaaaa"},
	}
}

func TestLoad_Missing(t *testing.T) {
	papers, err := Load(filepath.Join(t.TempDir(), "papers.yml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(papers) != 0 {
		t.Errorf("Load() = %v, want empty", papers)
	}
}

func TestLoad_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.yml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	papers, err := Load(path)
	if err != nil || len(papers) != 0 {
		t.Errorf("Load(empty) = %v, %v; want empty, nil", papers, err)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.yml")
	if err := os.WriteFile(path, []byte("id: [unterminated\n  - : :"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Load() error = %v, want ErrCorrupt", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "papers.yml")
	want := samplePapers()

	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}

	raw, _ := os.ReadFile(path)
	for _, key := range []string{"id:", "title:", "authors:", "date:", "category:", "slug:", "abstract:", "pdf:", "hash:"} {
		if !strings.Contains(string(raw), key) {
			t.Errorf("saved index missing key %q", key)
		}
	}
}

func TestUpsert(t *testing.T) {
	papers := samplePapers()

	added := Upsert(papers, Paper{ID: "2501.00003v1", Title: "Third"})
	if len(added) != 3 || added[0].ID != "2501.00003v1" {
		t.Errorf("Upsert(new) = %v, want new paper first", ids(added))
	}

	replaced := Upsert(papers, Paper{ID: "2501.00001v1", Title: "First Paper (fixed)"})
	if got := ids(replaced); !reflect.DeepEqual(got, []string{"2501.00001v1", "2501.00002v1"}) {
		t.Errorf("Upsert(existing) ids = %v", got)
	}
	if replaced[0].Title != "First Paper (fixed)" {
		t.Errorf("Upsert(existing) title = %q", replaced[0].Title)
	}
}

func TestFind(t *testing.T) {
	papers := samplePapers()

	if i, ok := FindByID(papers, "2501.00001v1"); !ok || i != 1 {
		t.Errorf("FindByID() = %d, %v", i, ok)
	}
	if _, ok := FindByID(papers, "nope"); ok {
		t.Error("FindByID() found missing id")
	}
	if i, ok := FindByHash(papers, "bbbbbbbbbbbbbbbb"); !ok || i != 0 {
		t.Errorf("FindByHash() = %d, %v", i, ok)
	}
	if _, ok := FindByHash(papers, ""); ok {
		t.Error("FindByHash(\"\") should never match")
	}
}

func ids(papers []Paper) []string {
	out := make([]string, len(papers))
	for i, p := range papers {
		out[i] = p.ID
	}
	return out
}
