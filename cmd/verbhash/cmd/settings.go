package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/corey/verbhash/internal/adapters/bbolt"
	"github.com/corey/verbhash/internal/adapters/prometheus"
	"github.com/corey/verbhash/internal/app"
	"github.com/corey/verbhash/internal/domain/keywords"
	"github.com/spf13/cobra"
)

// settings is the config file merged with whatever flags were set.
type settings struct {
	root       string
	paths      *app.Paths
	configPath string
	cfg        app.Config
	keywords   []string
	source     string // keyword file path, or "builtin" for the FTP verbs
	color      bool

	recorder *prometheus.Recorder // set by newApp when metrics are on
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	root := projectRoot()
	s := &settings{root: root, paths: app.NewPaths(root)}

	s.configPath = s.paths.Config
	if configFile != "" {
		s.configPath = configFile
	}
	cfg, err := app.LoadConfig(s.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("max-seed") {
		cfg.MaxSeed = maxSeed
	}
	if flags.Changed("size-factor") {
		cfg.SizeFactor = sizeFactor
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("file") {
		cfg.KeywordsFile = keywordsFile
	}
	if flags.Changed("record") {
		cfg.Record = recordRuns
	}
	if flags.Changed("metrics") {
		cfg.Metrics = writeMetrics
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s.cfg = cfg

	if cfg.KeywordsFile == "" {
		s.keywords = keywords.Default()
		s.source = "builtin"
	} else {
		// Relative paths from the config file are relative to the project root.
		path := cfg.KeywordsFile
		if !flags.Changed("file") && !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		kws, err := keywords.Load(path)
		if err != nil {
			return nil, err
		}
		s.keywords = kws
		s.source = path
	}

	if dups := keywords.Duplicates(s.keywords); len(dups) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: duplicate keywords %v collide in every table; no solution is possible\n", dups)
	}

	s.color = resolveColor(colorFlag, noColor)
	return s, nil
}

// logger builds the stderr logger: Info by default, Debug with --verbose.
func (s *settings) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// newApp wires the app with history and metrics as configured. done must be
// called after the last Run: it writes the metrics textfile and closes the store.
func (s *settings) newApp(cmd *cobra.Command) (*app.App, func(), error) {
	a := app.New(s.logger(cmd), s.cfg.Options())

	var store *bbolt.Store
	if s.cfg.Record {
		if err := s.paths.EnsureDirs(); err != nil {
			return nil, nil, fmt.Errorf("create %s: %w", s.paths.Root, err)
		}
		var err error
		store, err = s.openStore()
		if err != nil {
			return nil, nil, err
		}
		a.History = store
	}

	if s.cfg.Metrics {
		s.recorder = prometheus.NewRecorder()
		a.Metrics = s.recorder
	}

	done := func() {
		s.flushMetrics(cmd)
		if store != nil {
			store.Close()
		}
	}
	return a, done, nil
}

// openStore opens the history database, turning a lock timeout into
// guidance about the other process holding it.
func (s *settings) openStore() (*bbolt.Store, error) {
	store, err := bbolt.NewStore(s.paths.DB)
	if err != nil {
		if isDBLockError(err) {
			return nil, errors.New(diagnoseDBLock(s.paths))
		}
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

// flushMetrics writes the textfile when metrics are on. Failures only warn:
// the search result is already printed.
func (s *settings) flushMetrics(cmd *cobra.Command) {
	if s.recorder == nil {
		return
	}
	err := s.paths.EnsureDirs()
	if err == nil {
		err = s.recorder.WriteTextfile(s.paths.Metrics)
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: write metrics: %v\n", err)
	}
}
