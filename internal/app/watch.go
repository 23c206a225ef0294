package app

import (
	"context"
	"fmt"

	"github.com/corey/verbhash/internal/domain/keywords"
	"github.com/corey/verbhash/internal/ports"
)

// Watch re-runs the search each time the keyword file at path changes,
// passing every outcome to emit. A file that fails to load is reported
// through emit with a nil report and watching continues. Watch blocks
// until ctx is done and stops w before returning.
func (a *App) Watch(ctx context.Context, w ports.Watcher, path string, emit func(*Report, error)) error {
	// Changes that land while a search is running collapse into one rerun.
	changed := make(chan string, 1)
	if err := w.Watch(path, func(p string) {
		select {
		case changed <- p:
		default:
		}
	}); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer w.Stop()

	a.Logger.Info("watching keyword file", "path", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case p := <-changed:
			a.onKeywordsChanged(p, emit)
		}
	}
}

func (a *App) onKeywordsChanged(path string, emit func(*Report, error)) {
	kws, err := keywords.Load(path)
	if err != nil {
		a.Logger.Warn("reload failed", "path", path, "err", err)
		emit(nil, err)
		return
	}
	a.Logger.Debug("keyword file changed", "path", path, "keywords", len(kws))
	emit(a.Run(kws))
}
