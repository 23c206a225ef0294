package ports

import "time"

// Metrics receives search outcomes. Implementations must be safe for
// concurrent use.
type Metrics interface {
	// ObserveSearch records one finished search.
	ObserveSearch(size int, seed uint64, candidates uint64, elapsed time.Duration)
}
