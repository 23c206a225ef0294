// Package dispatch recognizes command verbs by indexing a perfect hash
// table instead of comparing strings against every known verb.
package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/corey/verbhash/internal/domain/phash"
)

var (
	// ErrNoSolution is returned when building from the "not found" result.
	ErrNoSolution = errors.New("no collision-free table")
	// ErrCollision is returned when the result does not separate the keywords.
	ErrCollision = errors.New("keywords collide")
	// ErrUnknownVerb is returned for a verb that is not in the table.
	ErrUnknownVerb = errors.New("unknown verb")
	// ErrEmptyLine is returned by Parse for a line without a verb.
	ErrEmptyLine = errors.New("empty command line")
)

// Table maps each keyword to its slot. Unused slots hold "".
type Table struct {
	size  int
	seed  uint64
	slots []string
}

// Command is one parsed control line.
type Command struct {
	Verb string // lowercased
	Slot int
	Arg  string
}

// New builds the table for keywords under r.
func New(keywords []string, r phash.Result) (*Table, error) {
	if !r.Meaningful() {
		return nil, ErrNoSolution
	}
	t := &Table{size: r.Size, seed: r.Seed, slots: make([]string, r.Size)}
	for _, s := range phash.Assign(keywords, r) {
		if prev := t.slots[s.Slot]; prev != "" {
			return nil, fmt.Errorf("%w: %q and %q share slot %d", ErrCollision, prev, s.Keyword, s.Slot)
		}
		t.slots[s.Slot] = s.Keyword
	}
	return t, nil
}

// Size returns the number of slots.
func (t *Table) Size() int { return t.size }

// Seed returns the hash seed.
func (t *Table) Seed() uint64 { return t.seed }

// Keyword returns the keyword stored at slot.
func (t *Table) Keyword(slot int) (string, bool) {
	if slot < 0 || slot >= t.size || t.slots[slot] == "" {
		return "", false
	}
	return t.slots[slot], true
}

// Lookup returns the slot of verb, case-insensitively. A verb outside the
// keyword set can hash onto an occupied slot, so the stored keyword is
// compared before accepting.
func (t *Table) Lookup(verb string) (int, bool) {
	if verb == "" {
		return 0, false
	}
	lv := strings.ToLower(verb)
	slot := phash.Hash(lv, t.seed, t.size)
	if t.slots[slot] != lv {
		return 0, false
	}
	return slot, true
}

// Parse splits a control line such as "RETR file.txt\r\n" into its verb
// and argument. The verb is the leading run of ASCII letters; the argument
// is whatever follows a single separating space.
func (t *Table) Parse(line string) (Command, error) {
	line = strings.TrimRight(line, "\r\n")

	end := 0
	for end < len(line) && isAlpha(line[end]) {
		end++
	}
	if end == 0 {
		return Command{}, ErrEmptyLine
	}
	verb := line[:end]

	slot, ok := t.Lookup(verb)
	if !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownVerb, verb)
	}

	cmd := Command{Verb: strings.ToLower(verb), Slot: slot}
	if rest := line[end:]; rest != "" {
		cmd.Arg = strings.TrimPrefix(rest, " ")
	}
	return cmd, nil
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
