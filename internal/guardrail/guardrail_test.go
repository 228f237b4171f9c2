package guardrail

import (
	"errors"
	"strings"
	"testing"

	"github.com/corpxiv/corpxiv/internal/extract"
	"github.com/corpxiv/corpxiv/internal/index"
	"github.com/corpxiv/corpxiv/internal/pdf"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func goodRecord() extract.Record {
	return extract.Record{
		Title:    "A Perfectly Reasonable Title",
		Authors:  []string{"Jane Doe"},
		Abstract: words(60),
	}
}

func containsAny(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func TestValidate_Accepts(t *testing.T) {
	out := DefaultRules().Validate(Input{Record: goodRecord(), ContentHash: "0123456789abcdef"})

	if !out.Accepted {
		t.Errorf("Accepted = false, errors = %v", out.Errors)
	}
	if len(out.Errors) != 0 || len(out.Warnings) != 0 {
		t.Errorf("errors = %v, warnings = %v, want none", out.Errors, out.Warnings)
	}
}

func TestValidate_Composition(t *testing.T) {
	rec := extract.Record{Title: "Short", Authors: []string{}, Abstract: words(200)}

	out := DefaultRules().Validate(Input{Record: rec})

	if out.Accepted {
		t.Error("Accepted = true, want false")
	}
	if len(out.Errors) != 1 || !strings.Contains(out.Errors[0], "title too short or missing") {
		t.Errorf("errors = %v, want exactly the title error", out.Errors)
	}
	if len(out.Warnings) != 1 {
		t.Errorf("warnings = %v, want exactly one", out.Warnings)
	}
}

func TestValidate_WarningsDoNotBlock(t *testing.T) {
	rec := goodRecord()
	rec.Authors = nil

	out := DefaultRules().Validate(Input{Record: rec})
	if !out.Accepted {
		t.Errorf("Accepted = false, errors = %v", out.Errors)
	}
	if len(out.Warnings) != 1 {
		t.Errorf("warnings = %v, want one", out.Warnings)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	existing := []index.Paper{{ID: "2501.00001v1", Hash: "abc123"}}

	out := DefaultRules().Validate(Input{
		Record:      extract.Record{Abstract: words(10)},
		DocErr:      pdf.ErrNoPages,
		ContentHash: "abc123",
		Existing:    existing,
	})

	for _, want := range []string{"title too short or missing", "abstract too short", "duplicate", "invalid document"} {
		if !containsAny(out.Errors, want) {
			t.Errorf("errors = %v, missing %q", out.Errors, want)
		}
	}
	if len(out.Errors) != 4 {
		t.Errorf("got %d errors, want 4", len(out.Errors))
	}
}

func TestValidate_Duplicate(t *testing.T) {
	existing := []index.Paper{
		{ID: "2501.00001v1", Hash: "ffff"},
		{ID: "2501.00002v1", Hash: "abc123"},
		{ID: "2501.00003v1", Hash: "abc123"},
	}

	out := DefaultRules().Validate(Input{Record: goodRecord(), ContentHash: "abc123", Existing: existing})

	if out.Accepted {
		t.Error("Accepted = true for duplicate")
	}
	if len(out.Errors) != 1 || !strings.Contains(out.Errors[0], "duplicate") {
		t.Fatalf("errors = %v, want one duplicate error", out.Errors)
	}
	if !strings.Contains(out.Errors[0], "2501.00002v1") {
		t.Errorf("duplicate error %q should name the first match", out.Errors[0])
	}
}

func TestValidate_EmptyHashNeverDuplicate(t *testing.T) {
	existing := []index.Paper{{ID: "2501.00001v1"}}
	out := DefaultRules().Validate(Input{Record: goodRecord(), Existing: existing})
	if !out.Accepted {
		t.Errorf("errors = %v, want accepted", out.Errors)
	}
}

func TestValidate_Slot(t *testing.T) {
	existing := []index.Paper{
		{ID: "2501.00001v1", Category: "ai", Slug: "attention-is-not-enough", Hash: "aaaa"},
	}

	tests := []struct {
		name     string
		hash     string
		slotID   string
		accepted bool
		wantErr  string
	}{
		{"same paper again", "aaaa", "2501.00001v1", true, ""},
		{"different content in slot", "bbbb", "2501.00001v1", false, "submission slot already holds a different paper: ai/attention-is-not-enough is published as 2501.00001v1"},
		{"registered but never indexed", "bbbb", "2501.00009v1", true, ""},
		{"same content under another key", "aaaa", "", false, "duplicate submission: this PDF was already published as 2501.00001v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := DefaultRules().Validate(Input{Record: goodRecord(), ContentHash: tt.hash, Existing: existing, SlotID: tt.slotID})
			if out.Accepted != tt.accepted {
				t.Fatalf("Accepted = %v, errors = %v", out.Accepted, out.Errors)
			}
			if tt.wantErr != "" && (len(out.Errors) != 1 || out.Errors[0] != tt.wantErr) {
				t.Errorf("errors = %v, want [%q]", out.Errors, tt.wantErr)
			}
		})
	}
}

func TestValidate_Messages(t *testing.T) {
	rec := extract.Record{Title: "Tiny", Abstract: words(3)}
	existing := []index.Paper{{ID: "2501.00004v1", Hash: "abcd"}}

	out := DefaultRules().Validate(Input{Record: rec, ContentHash: "abcd", Existing: existing, DocErr: pdf.ErrNoPages})

	want := []string{
		"title too short or missing (minimum 10 characters)",
		"abstract too short (3 words, minimum 50)",
		"duplicate submission: this PDF was already published as 2501.00004v1",
		"invalid document: PDF has no pages",
	}
	if strings.Join(out.Errors, "\n") != strings.Join(want, "\n") {
		t.Errorf("errors = %q, want %q", out.Errors, want)
	}
	if len(out.Warnings) != 1 || out.Warnings[0] != "could not extract authors, please provide them manually" {
		t.Errorf("warnings = %q", out.Warnings)
	}
}

func TestValidate_InvalidDocument(t *testing.T) {
	out := DefaultRules().Validate(Input{Record: goodRecord(), DocErr: errors.New("malformed xref")})

	if out.Accepted {
		t.Error("Accepted = true for unreadable document")
	}
	if len(out.Errors) != 1 || !strings.Contains(out.Errors[0], "invalid document") {
		t.Errorf("errors = %v", out.Errors)
	}
}

func TestValidate_Thresholds(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		abstract string
		rules    Rules
		accepted bool
	}{
		{"title at minimum", "0123456789", words(50), DefaultRules(), true},
		{"title one short", "012345678", words(50), DefaultRules(), false},
		{"title counts runes", "ééééééééé", words(50), DefaultRules(), false},
		{"abstract one short", "0123456789", words(49), DefaultRules(), false},
		{"custom rules", "abc", words(5), Rules{MinTitleLength: 3, MinAbstractWords: 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := extract.Record{Title: tt.title, Authors: []string{"A Person"}, Abstract: tt.abstract}
			out := tt.rules.Validate(Input{Record: rec})
			if out.Accepted != tt.accepted {
				t.Errorf("Accepted = %v, want %v (errors %v)", out.Accepted, tt.accepted, out.Errors)
			}
		})
	}
}
