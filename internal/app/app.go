// Package app wires together the adapters and domain logic.
// It runs one search per call and fans the outcome out to history and metrics.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/corey/verbhash/internal/domain/keywords"
	"github.com/corey/verbhash/internal/domain/phash"
	"github.com/corey/verbhash/internal/ports"
)

// App is the top-level container wiring all components together.
// History and Metrics are optional; nil disables them.
type App struct {
	Logger  *slog.Logger
	Options phash.Options
	History ports.History
	Metrics ports.Metrics

	now func() time.Time
}

// New creates an App with the given search options. A nil logger
// discards output.
func New(logger *slog.Logger, opts phash.Options) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{Logger: logger, Options: opts, now: time.Now}
}

// Run searches keywords and returns the report. A set with no solution
// is not an error: the report carries the (0, 0) sentinel. Errors come
// only from the history store.
func (a *App) Run(kws []string) (*Report, error) {
	norm := keywords.Normalize(kws)
	if dups := keywords.Duplicates(norm); len(dups) > 0 {
		a.Logger.Debug("duplicate keywords always collide", "keywords", dups)
	}

	a.Logger.Debug("search started",
		"keywords", len(norm),
		"max_seed", a.Options.MaxSeed,
		"size_factor", a.Options.SizeFactor,
		"workers", a.Options.Workers)

	start := a.now()
	res, stats := phash.Find(norm, a.Options)
	elapsed := a.now().Sub(start)

	rep := &Report{
		Result:      res,
		Slots:       phash.Assign(norm, res),
		Stats:       stats,
		Elapsed:     elapsed,
		Keywords:    norm,
		Fingerprint: keywords.Fingerprint(norm),
	}

	if res.Meaningful() {
		a.Logger.Info("search finished", "size", res.Size, "seed", res.Seed,
			"candidates", stats.Candidates, "elapsed", elapsed)
	} else {
		a.Logger.Info("no collision-free table in range",
			"candidates", stats.Candidates, "elapsed", elapsed)
	}

	if a.Metrics != nil {
		a.Metrics.ObserveSearch(res.Size, res.Seed, stats.Candidates, elapsed)
	}

	if a.History != nil {
		opts := a.effectiveOptions()
		run := &ports.Run{
			Fingerprint: rep.Fingerprint,
			Keywords:    norm,
			Size:        res.Size,
			Seed:        res.Seed,
			MaxSeed:     opts.MaxSeed,
			SizeFactor:  opts.SizeFactor,
			Workers:     opts.Workers,
			Candidates:  stats.Candidates,
			ElapsedNs:   int64(elapsed),
			CreatedAt:   start.Unix(),
		}
		if err := a.History.Record(run); err != nil {
			return rep, fmt.Errorf("record run: %w", err)
		}
		rep.RunID = run.ID
		a.Logger.Debug("run recorded", "id", run.ID, "fingerprint", rep.Fingerprint)
	}

	return rep, nil
}

// Verify checks a caller-supplied (size, seed) against kws without searching.
func (a *App) Verify(kws []string, size int, seed uint64) (*Report, bool) {
	norm := keywords.Normalize(kws)
	r := phash.Result{Size: size, Seed: seed}
	ok := size > 0 && phash.Injective(norm, seed, size)
	rep := &Report{
		Result:      r,
		Keywords:    norm,
		Fingerprint: keywords.Fingerprint(norm),
	}
	if ok {
		rep.Slots = phash.Assign(norm, r)
	}
	return rep, ok
}

// effectiveOptions fills zero bounds the way phash.Find does, so recorded
// runs state the bounds actually searched.
func (a *App) effectiveOptions() phash.Options {
	o := a.Options
	d := phash.DefaultOptions()
	if o.MaxSeed == 0 {
		o.MaxSeed = d.MaxSeed
	}
	if o.SizeFactor == 0 {
		o.SizeFactor = d.SizeFactor
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o
}
