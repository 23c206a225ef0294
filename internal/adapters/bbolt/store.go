// Package bbolt implements the ports.History interface using bbolt (embedded B+ tree).
// Runs live in a "runs" bucket with one sub-bucket per keyword-set fingerprint,
// keyed by the run's UUIDv7 bytes so cursor order is chronological. An "ids"
// bucket maps run IDs back to their fingerprint for Get. Writes are
// transactional: a crash mid-write cannot corrupt previously committed runs.
package bbolt

import (
	"errors"
	"fmt"
	"time"

	"github.com/corey/verbhash/internal/ports"
	"github.com/google/uuid"
	"github.com/sugawarayuuta/sonnet"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	bucketRuns = []byte("runs")
	bucketIDs  = []byte("ids")
)

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Store implements ports.History backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record persists one run. A missing ID is filled with a new UUIDv7 and
// a missing CreatedAt with the current time.
func (s *Store) Record(run *ports.Run) error {
	if run == nil {
		return fmt.Errorf("nil run")
	}
	if run.Fingerprint == "" {
		return fmt.Errorf("run has no fingerprint")
	}
	if run.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("new run id: %w", err)
		}
		run.ID = id.String()
	}
	id, err := uuid.Parse(run.ID)
	if err != nil {
		return fmt.Errorf("run id %q: %w", run.ID, err)
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().Unix()
	}

	data, err := sonnet.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		runs, err := tx.CreateBucketIfNotExists(bucketRuns)
		if err != nil {
			return err
		}
		fp, err := runs.CreateBucketIfNotExists([]byte(run.Fingerprint))
		if err != nil {
			return err
		}
		if err := fp.Put(id[:], data); err != nil {
			return err
		}
		ids, err := tx.CreateBucketIfNotExists(bucketIDs)
		if err != nil {
			return err
		}
		return ids.Put(id[:], []byte(run.Fingerprint))
	})
}

// List returns up to limit runs for fingerprint, newest first.
func (s *Store) List(fingerprint string, limit int) ([]*ports.Run, error) {
	var raw [][]byte

	err := s.db.View(func(tx *bolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		if runs == nil {
			return nil
		}
		fp := runs.Bucket([]byte(fingerprint))
		if fp == nil {
			return nil
		}
		c := fp.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(raw) >= limit {
				break
			}
			// Copy bytes out of the transaction (bbolt slices are only valid within tx)
			raw = append(raw, append([]byte(nil), v...))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]*ports.Run, 0, len(raw))
	for _, data := range raw {
		var run ports.Run
		if err := sonnet.Unmarshal(data, &run); err != nil {
			return nil, fmt.Errorf("unmarshal run: %w", err)
		}
		out = append(out, &run)
	}
	return out, nil
}

// Get retrieves a run by ID.
func (s *Store) Get(id string) (*ports.Run, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("run id %q: %w", id, err)
	}

	var data []byte
	err = s.db.View(func(tx *bolt.Tx) error {
		ids := tx.Bucket(bucketIDs)
		runs := tx.Bucket(bucketRuns)
		if ids == nil || runs == nil {
			return nil
		}
		fingerprint := ids.Get(key[:])
		if fingerprint == nil {
			return nil
		}
		fp := runs.Bucket(fingerprint)
		if fp == nil {
			return nil
		}
		if v := fp.Get(key[:]); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}

	var run ports.Run
	if err := sonnet.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("unmarshal run: %w", err)
	}
	return &run, nil
}

// Delete removes every run recorded for fingerprint.
// Idempotent: deleting an unknown fingerprint is not an error.
func (s *Store) Delete(fingerprint string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		if runs == nil {
			return nil
		}
		fp := runs.Bucket([]byte(fingerprint))
		if fp == nil {
			return nil
		}
		if ids := tx.Bucket(bucketIDs); ids != nil {
			if err := fp.ForEach(func(k, _ []byte) error {
				return ids.Delete(k)
			}); err != nil {
				return err
			}
		}
		return runs.DeleteBucket([]byte(fingerprint))
	})
}

var _ ports.History = (*Store)(nil)
