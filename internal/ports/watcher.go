package ports

// Watcher monitors a keyword file and reports changes so the search can be
// re-run. Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring path. onChange is called with path after
	// each (debounced) write, create or rename that touches it. The callback
	// may be invoked from any goroutine. Returns an error if the containing
	// directory doesn't exist or permissions are insufficient.
	Watch(path string, onChange func(path string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
