// Package registry assigns and persists corpXiv identifiers.
//
// The registry is the only state shared between runs. It is loaded once at
// the start of a run, mutated in memory, and written back with Save. Runs
// against the same registry file must be serialized by the caller; the
// package does no file locking.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/corpxiv/corpxiv/internal/fsutil"
)

// DateLayout is the layout of the submitted date stored in the registry.
const DateLayout = "2006-01-02"

// FirstVersion is the version suffix of every newly minted identifier.
const FirstVersion = "v1"

// ErrCorrupt is returned when the registry file exists but cannot be parsed.
// Callers must not fall back to an empty registry on this error, since doing
// so would reissue identifiers that are already published.
var ErrCorrupt = errors.New("registry is corrupt")

// Entry is the registry record for one submission key.
type Entry struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Submitted string `json:"submitted"`
	Filename  string `json:"filename"`
	Title     string `json:"title,omitempty"`
}

// State is the full registry: the next sequence number plus all entries
// keyed by submission key.
type State struct {
	NextNumber int               `json:"next_number"`
	Papers     map[string]*Entry `json:"papers"`
}

// Assignment is the result of ResolveOrAssign.
type Assignment struct {
	ID        string
	Submitted string
	IsNew     bool
}

// New returns an empty registry whose first identifier uses sequence 1.
func New() *State {
	return &State{NextNumber: 1, Papers: make(map[string]*Entry)}
}

// Key returns the submission key for a paper stored as filename under category.
// The key depends only on the storage location, never on file content.
func Key(category, filename string) string {
	return filepath.ToSlash(filepath.Join(category, filename))
}

// Load reads the registry at path. A missing file yields New().
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading registry: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	if state.NextNumber < 1 {
		return nil, fmt.Errorf("%w: %s: next_number must be positive, got %d", ErrCorrupt, path, state.NextNumber)
	}
	if state.Papers == nil {
		state.Papers = make(map[string]*Entry)
	}
	maxSeq := 0
	for key, entry := range state.Papers {
		if entry == nil || entry.ID == "" {
			return nil, fmt.Errorf("%w: %s: entry %q has no id", ErrCorrupt, path, key)
		}
		parsed, err := ParseID(entry.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: entry %q: %v", ErrCorrupt, path, key, err)
		}
		if parsed.Sequence > maxSeq {
			maxSeq = parsed.Sequence
		}
	}
	// The next number must be unused, or the next new key would repeat an
	// identifier.
	if state.NextNumber <= maxSeq {
		return nil, fmt.Errorf("%w: %s: next_number %d is not above the highest assigned sequence %d", ErrCorrupt, path, state.NextNumber, maxSeq)
	}

	return &state, nil
}

// Save writes the registry to path atomically: the data goes to a temporary
// file in the same directory, which is then renamed over the target.
func Save(path string, state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}
	data = append(data, '\n')

	return fsutil.WriteFileAtomic(path, data, 0644)
}

// Lookup returns the entry for key, if any.
func (s *State) Lookup(key string) (*Entry, bool) {
	e, ok := s.Papers[key]
	return e, ok
}

// FindByID returns the key and entry holding the given identifier.
func (s *State) FindByID(id string) (string, *Entry, bool) {
	for key, e := range s.Papers {
		if e.ID == id {
			return key, e, true
		}
	}
	return "", nil, false
}

// ResolveOrAssign returns the identifier for key, minting one if key is new.
//
// An existing key returns its stored identifier and date without consuming a
// sequence number. A new key takes the current NextNumber, formats it with the
// year and month of now, records the entry, and advances NextNumber.
func (s *State) ResolveOrAssign(key, category string, now time.Time) Assignment {
	if e, ok := s.Papers[key]; ok {
		return Assignment{ID: e.ID, Submitted: e.Submitted, IsNew: false}
	}

	seq := s.NextNumber
	id := FormatID(now, seq)
	submitted := now.Format(DateLayout)

	s.Papers[key] = &Entry{
		ID:        id,
		Category:  category,
		Submitted: submitted,
		Filename:  path.Base(key),
	}
	s.NextNumber = seq + 1

	return Assignment{ID: id, Submitted: submitted, IsNew: true}
}

// SetTitle backfills the title of an existing entry. Identifier, date and
// sequence are never touched. Returns false if key is unknown.
func (s *State) SetTitle(key, title string) bool {
	e, ok := s.Papers[key]
	if !ok {
		return false
	}
	if title != "" {
		e.Title = title
	}
	return true
}

// FormatID formats a first-version identifier: YYMM.NNNNNv1.
func FormatID(now time.Time, seq int) string {
	return fmt.Sprintf("%s.%05d%s", now.Format("0601"), seq, FirstVersion)
}

var idPattern = regexp.MustCompile(`^(\d{4})\.(\d{5,})v(\d+)$`)

// ParsedID is the decomposed form of an identifier.
type ParsedID struct {
	YYMM     string
	Sequence int
	Version  int
}

// ParseID splits an identifier into its parts.
func ParseID(id string) (ParsedID, error) {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return ParsedID{}, fmt.Errorf("invalid identifier %q (want YYMM.NNNNNvN)", id)
	}
	seq, _ := strconv.Atoi(m[2])
	version, _ := strconv.Atoi(m[3])
	return ParsedID{YYMM: m[1], Sequence: seq, Version: version}, nil
}
