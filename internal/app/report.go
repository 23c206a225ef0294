package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/corey/verbhash/internal/domain/phash"
	"github.com/sugawarayuuta/sonnet"
)

// Report is the outcome of one search.
type Report struct {
	Result      phash.Result
	Slots       []phash.Slot // nil when Result is the sentinel
	Stats       phash.Stats
	Elapsed     time.Duration
	Keywords    []string // lowercased, input order
	Fingerprint string
	RunID       string // set when the run was recorded
}

// WriteText writes the plain report:
//
//	size: 61, seed: 1868
//	(user, 48)
//	...
//	execution time: 0:1
func (r *Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "size: %d, seed: %d\n", r.Result.Size, r.Result.Seed); err != nil {
		return err
	}
	for _, s := range r.Slots {
		if _, err := fmt.Fprintf(w, "(%s, %d)\n", s.Keyword, s.Slot); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "execution time: %s\n", FormatElapsed(r.Elapsed))
	return err
}

// FormatElapsed renders d as whole minutes and whole seconds, "M:S".
func FormatElapsed(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%d:%d", secs/60, secs%60)
}

type jsonReport struct {
	Size        int          `json:"size"`
	Seed        uint64       `json:"seed"`
	Found       bool         `json:"found"`
	Slots       []phash.Slot `json:"slots"`
	Keywords    []string     `json:"keywords"`
	Fingerprint string       `json:"fingerprint"`
	Candidates  uint64       `json:"candidates"`
	Accepted    uint64       `json:"accepted"`
	Solved      int          `json:"sizes_solved"`
	ElapsedMs   int64        `json:"elapsed_ms"`
	RunID       string       `json:"run_id,omitempty"`
}

// WriteJSON writes the report as one indented JSON object.
func (r *Report) WriteJSON(w io.Writer) error {
	slots := r.Slots
	if slots == nil {
		slots = []phash.Slot{}
	}
	data, err := sonnet.Marshal(jsonReport{
		Size:        r.Result.Size,
		Seed:        r.Result.Seed,
		Found:       r.Result.Meaningful(),
		Slots:       slots,
		Keywords:    r.Keywords,
		Fingerprint: r.Fingerprint,
		Candidates:  r.Stats.Candidates,
		Accepted:    r.Stats.Accepted,
		Solved:      r.Stats.Solved,
		ElapsedMs:   r.Elapsed.Milliseconds(),
		RunID:       r.RunID,
	})
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("indent report: %w", err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}
