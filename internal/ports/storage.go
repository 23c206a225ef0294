// Package ports defines the interfaces (contracts) that adapters must implement.
// Domain logic and the app layer depend only on these interfaces, never on
// concrete implementations.
package ports

// History records completed searches.
// The backing store (bbolt) groups runs by keyword-set fingerprint, so runs
// for different keyword files never mix. Records are write-once; the search
// never reads them back.
//
// Crash safety: Record must be transactional. A crash mid-write must not
// corrupt previously committed runs.
type History interface {
	// Record persists one run, assigning run.ID (a UUIDv7) when empty.
	Record(run *Run) error

	// List returns up to limit runs for a fingerprint, newest first.
	// limit <= 0 means all. Returns an empty slice for an unknown fingerprint.
	List(fingerprint string, limit int) ([]*Run, error)

	// Get retrieves a single run by ID from any fingerprint.
	Get(id string) (*Run, error)

	// Delete removes every run for a fingerprint.
	// Idempotent: deleting an unknown fingerprint is not an error.
	Delete(fingerprint string) error
}

// Run is one completed search.
type Run struct {
	ID          string   `json:"id"`          // UUIDv7, time-ordered
	Fingerprint string   `json:"fingerprint"` // keywords.Fingerprint of the set
	Keywords    []string `json:"keywords"`    // lowercased, input order
	Size        int      `json:"size"`        // 0 when no solution was found
	Seed        uint64   `json:"seed"`
	MaxSeed     uint64   `json:"max_seed"`
	SizeFactor  int      `json:"size_factor"`
	Workers     int      `json:"workers"`
	Candidates  uint64   `json:"candidates"` // (seed, size) pairs evaluated
	ElapsedNs   int64    `json:"elapsed_ns"`
	CreatedAt   int64    `json:"created_at"` // Unix seconds
}

// Meaningful reports whether the run found a table.
func (r *Run) Meaningful() bool {
	return r.Size != 0
}
