package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corpxiv/corpxiv/internal/guardrail"
	"github.com/corpxiv/corpxiv/internal/index"
	"github.com/corpxiv/corpxiv/internal/registry"
)

// ErrInvalidCategory is wrapped by the InputError for a category that is not
// a lowercase slug.
var ErrInvalidCategory = errors.New("invalid category")

// InputError reports a submission whose file could not be read or whose
// category is unusable. No state is mutated.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("submission %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// RejectionError reports a submission that failed the guardrails. No
// identifier was consumed and no artifact was written.
type RejectionError struct {
	Path    string
	Outcome guardrail.Outcome
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("submission %s rejected: %s", e.Path, strings.Join(e.Outcome.Errors, "; "))
}

// PartialWriteError reports an artifact step that failed after an identifier
// was minted. The registry has still been saved, so re-running the same
// submission reuses ID.
type PartialWriteError struct {
	ID   string
	Step string
	Err  error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%s: %s failed after identifier was assigned: %v", e.ID, e.Step, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }

// IsCorruption reports whether err comes from an unparsable registry or
// paper index. Such errors abort the whole run.
func IsCorruption(err error) bool {
	return errors.Is(err, registry.ErrCorrupt) || errors.Is(err, index.ErrCorrupt)
}
