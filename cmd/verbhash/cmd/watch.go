package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	fsw "github.com/corey/verbhash/internal/adapters/fsnotify"
	"github.com/corey/verbhash/internal/app"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the search whenever the keyword file changes",
	Long:  "Prints a report for the keyword file, then again after every save, until interrupted.",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if s.source == "builtin" {
		return errors.New("watch needs a keyword file: pass --file or set keywords_file")
	}

	a, done, err := s.newApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	out := cmd.OutOrStdout()
	emit := func(rep *app.Report, err error) {
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
		if rep != nil {
			rep.WriteText(out)
			s.flushMetrics(cmd)
		}
	}

	emit(a.Run(s.keywords))

	w, err := fsw.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	w.OnError = func(err error) {
		a.Logger.Warn("watcher error", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Watch(ctx, w, s.source, emit)
}
