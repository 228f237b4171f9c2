// Package guardrail applies the acceptance rules a submission must pass
// before it is assigned an identifier.
package guardrail

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/corpxiv/corpxiv/internal/extract"
	"github.com/corpxiv/corpxiv/internal/index"
	"github.com/corpxiv/corpxiv/internal/pdf"
)

// Default thresholds.
const (
	DefaultMinTitleLength   = 10
	DefaultMinAbstractWords = 50
)

// Rules holds the configurable thresholds.
type Rules struct {
	MinTitleLength   int
	MinAbstractWords int
}

// DefaultRules returns the standard thresholds.
func DefaultRules() Rules {
	return Rules{
		MinTitleLength:   DefaultMinTitleLength,
		MinAbstractWords: DefaultMinAbstractWords,
	}
}

// Outcome is the result of validating one submission.
type Outcome struct {
	Accepted bool     `json:"accepted"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Input is everything the rules look at.
type Input struct {
	Record      extract.Record
	DocErr      error // result of opening the document; nil means at least one page
	ContentHash string
	Existing    []index.Paper

	// SlotID is the identifier already registered for the submission's key,
	// empty for a new key. An index entry with this ID and the same hash is
	// the same paper being published again, not a duplicate.
	SlotID string
}

// Validate runs every rule and collects all errors and warnings.
// Warnings never block acceptance.
func (r Rules) Validate(in Input) Outcome {
	out := Outcome{Errors: []string{}, Warnings: []string{}}

	if utf8.RuneCountInString(in.Record.Title) < r.MinTitleLength {
		out.Errors = append(out.Errors, fmt.Sprintf("title too short or missing (minimum %d characters)", r.MinTitleLength))
	}

	if len(in.Record.Authors) == 0 {
		out.Warnings = append(out.Warnings, "could not extract authors, please provide them manually")
	}

	if n := len(strings.Fields(in.Record.Abstract)); n < r.MinAbstractWords {
		out.Errors = append(out.Errors, fmt.Sprintf("abstract too short (%d words, minimum %d)", n, r.MinAbstractWords))
	}

	if i, ok := index.FindByHash(in.Existing, in.ContentHash); ok && in.Existing[i].ID != in.SlotID {
		out.Errors = append(out.Errors, fmt.Sprintf("duplicate submission: this PDF was already published as %s", in.Existing[i].ID))
	}

	if in.SlotID != "" {
		if i, ok := index.FindByID(in.Existing, in.SlotID); ok && in.Existing[i].Hash != in.ContentHash {
			out.Errors = append(out.Errors, fmt.Sprintf("submission slot already holds a different paper: %s/%s is published as %s", in.Existing[i].Category, in.Existing[i].Slug, in.SlotID))
		}
	}

	if in.DocErr != nil {
		if errors.Is(in.DocErr, pdf.ErrNoPages) {
			out.Errors = append(out.Errors, "invalid document: PDF has no pages")
		} else {
			out.Errors = append(out.Errors, fmt.Sprintf("invalid document: %v", in.DocErr))
		}
	}

	out.Accepted = len(out.Errors) == 0
	return out
}
