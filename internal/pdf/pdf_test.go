package pdf

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/corpxiv/corpxiv/internal/pdf/pdftest"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

func TestInspect(t *testing.T) {
	data := pdftest.Build(pdftest.Options{
		Title:  "Embedded Title",
		Author: "Jane Doe; John Roe",
		Lines:  []string{"Hello corpXiv", "Second line"},
		Pages:  2,
	})

	doc, err := Inspect(data)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if doc.PageCount != 2 {
		t.Errorf("PageCount = %d, want 2", doc.PageCount)
	}
	if doc.Title != "Embedded Title" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.Author != "Jane Doe; John Roe" {
		t.Errorf("Author = %q", doc.Author)
	}
	if !strings.Contains(doc.FirstPageText, "Hello") {
		t.Errorf("FirstPageText = %q, want it to contain %q", doc.FirstPageText, "Hello")
	}
	if strings.Contains(doc.FirstPageText, "Page 2") {
		t.Errorf("FirstPageText should not include page 2 text: %q", doc.FirstPageText)
	}
}

func TestInspect_NoInfo(t *testing.T) {
	doc, err := Inspect(pdftest.Build(pdftest.Options{Lines: []string{"Body"}}))
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if doc.Title != "" || doc.Author != "" {
		t.Errorf("Title/Author = %q/%q, want empty", doc.Title, doc.Author)
	}
}

func TestInspect_Invalid(t *testing.T) {
	if _, err := Inspect([]byte("this is not a pdf")); err == nil {
		t.Error("Inspect() expected error for non-PDF input")
	}
	if _, err := Inspect(nil); err == nil {
		t.Error("Inspect() expected error for empty input")
	}
}

func TestInspect_NoPages(t *testing.T) {
	_, err := Inspect(pdftest.Build(pdftest.Options{Pages: -1}))
	if !errors.Is(err, ErrNoPages) {
		t.Errorf("Inspect() error = %v, want ErrNoPages", err)
	}
}

func TestExtractText(t *testing.T) {
	data := pdftest.Build(pdftest.Options{Lines: []string{"First page"}, Pages: 3})

	text, err := ExtractText(data, 0)
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	for _, want := range []string{"First", "Page 2", "Page 3"} {
		if !strings.Contains(text, want) {
			t.Errorf("ExtractText() missing %q in %q", want, text)
		}
	}

	text, err = ExtractText(data, 1)
	if err != nil {
		t.Fatalf("ExtractText(1) error = %v", err)
	}
	if strings.Contains(text, "Page 2") {
		t.Errorf("ExtractText(1) = %q, should stop after page 1", text)
	}
}

func TestHash(t *testing.T) {
	got, err := Hash([]byte("abc"), HashSHA256)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if got != "ba7816bf8f01cfea" {
		t.Errorf("Hash(sha256) = %q, want %q", got, "ba7816bf8f01cfea")
	}

	def, _ := Hash([]byte("abc"), "")
	if def != got {
		t.Errorf("default algorithm = %q, want sha256 %q", def, got)
	}

	b2, err := Hash([]byte("abc"), HashBLAKE2b)
	if err != nil {
		t.Fatalf("Hash(blake2b) error = %v", err)
	}
	if len(b2) != HashLength || b2 == got {
		t.Errorf("Hash(blake2b) = %q, want %d chars distinct from sha256", b2, HashLength)
	}
	again, _ := Hash([]byte("abc"), HashBLAKE2b)
	if again != b2 {
		t.Error("Hash is not deterministic")
	}

	if _, err := Hash([]byte("abc"), "md5"); err == nil {
		t.Error("Hash() expected error for unknown algorithm")
	}
}

func TestStampText(t *testing.T) {
	date := time.Date(2025, time.January, 7, 0, 0, 0, 0, time.UTC)
	got := StampText("2501.00001v1", "ai-systems", date)
	want := "corpXiv:2501.00001v1 [ai-systems] 7 Jan 2025"
	if got != want {
		t.Errorf("StampText() = %q, want %q", got, want)
	}
}

func TestComposeStamp(t *testing.T) {
	if _, err := ComposeStamp("text", types.Dim{}); err == nil {
		t.Error("ComposeStamp() expected error for zero-size page")
	}

	wm, err := ComposeStamp("corpXiv:2501.00001v1 [ai] 7 Jan 2025", types.Dim{Width: 612, Height: 792})
	if err != nil {
		t.Fatalf("ComposeStamp() error = %v", err)
	}
	if wm == nil {
		t.Fatal("ComposeStamp() returned nil watermark")
	}
}

func TestStampPoints(t *testing.T) {
	ascii := "corpXiv:2501.00001v1 [physics] 7 Jan 2025"
	accented := "corpXiv:2501.00001v1 [éééééééééé] 7 Jan 2025" // 44 runes, 54 bytes
	long := "corpXiv:2501.00001v1 [" + strings.Repeat("x", 200) + "] 7 Jan 2025"

	tests := []struct {
		name   string
		text   string
		height float64
		want   int
	}{
		{"fits letter page", ascii, 792, StampPoints},
		{"non-ascii counted in runes", accented, 500, StampPoints},
		{"shrinks on short page", ascii, 300, int(0.9 * 300 / (avgGlyphWidth * float64(len(ascii))))},
		{"never below minimum", long, 300, StampMinPoints},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stampPoints(tt.text, tt.height); got != tt.want {
				t.Errorf("stampPoints() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStamp(t *testing.T) {
	data := pdftest.Build(pdftest.Options{Title: "Stamp Me", Lines: []string{"Body text"}, Pages: 2})
	date := time.Date(2025, time.January, 7, 0, 0, 0, 0, time.UTC)

	stamped, err := Stamp(data, "2501.00001v1", "ai-systems", date)
	if err != nil {
		t.Fatalf("Stamp() error = %v", err)
	}
	if bytes.Equal(stamped, data) {
		t.Error("Stamp() returned the input unchanged")
	}

	doc, err := Inspect(stamped)
	if err != nil {
		t.Fatalf("Inspect(stamped) error = %v", err)
	}
	if doc.PageCount != 2 {
		t.Errorf("stamped PageCount = %d, want 2", doc.PageCount)
	}
}

func TestOpenerCommand(t *testing.T) {
	tests := []struct {
		viewer string
		goos   string
		want   []string
	}{
		{"", "linux", []string{"xdg-open", "/p.pdf"}},
		{"zathura", "linux", []string{"zathura", "/p.pdf"}},
		{"system", "darwin", []string{"open", "/p.pdf"}},
		{"skim", "darwin", []string{"open", "-a", "Skim", "/p.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.viewer, func(t *testing.T) {
			cmd, err := NewOpener(tt.viewer).Command(tt.goos, "/p.pdf")
			if err != nil {
				t.Fatalf("Command() error = %v", err)
			}
			if strings.Join(cmd.Args, " ") != strings.Join(tt.want, " ") {
				t.Errorf("Command() args = %v, want %v", cmd.Args, tt.want)
			}
		})
	}

	if _, err := NewOpener("").Command("plan9", "/p.pdf"); err == nil {
		t.Error("Command() expected error for unsupported platform")
	}
}
