package cmd

import (
	"fmt"
	"strings"

	"github.com/corey/verbhash/internal/app"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns actionable guidance when the history database is
// held by another process. The usual holder is a long-running watch --record.
func diagnoseDBLock(p *app.Paths) string {
	return fmt.Sprintf("history database is locked by another process\n"+
		"  → a 'verbhash watch --record' may be running against %s\n"+
		"  → find the process:  ps aux | grep 'verbhash'\n"+
		"  → stop it, or rerun without --record", p.DB)
}
