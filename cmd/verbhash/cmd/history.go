package cmd

import (
	"fmt"
	"os"

	"github.com/corey/verbhash/internal/domain/keywords"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs for the current keyword set",
	Long:  "Shows runs saved with --record for this keyword set, newest first.",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete recorded runs for the current keyword set",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum runs to show (0 for all)")
	historyCmd.AddCommand(historyClearCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := os.Stat(s.paths.DB); os.IsNotExist(err) {
		fmt.Fprintln(out, "⚡ no runs recorded (use --record)")
		return nil
	}

	store, err := s.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(keywords.Fingerprint(s.keywords), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "⚡ no runs recorded for this keyword set")
		return nil
	}
	fmt.Fprintln(out, paint(s.color, colorBold, fmt.Sprintf("⚡ %d runs │ %s", len(runs), s.source)))
	for _, run := range runs {
		fmt.Fprintln(out, "  "+formatRun(run, s.color))
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := os.Stat(s.paths.DB); os.IsNotExist(err) {
		fmt.Fprintln(out, "⚡ no data to clear")
		return nil
	}

	store, err := s.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(keywords.Fingerprint(s.keywords)); err != nil {
		return err
	}
	fmt.Fprintln(out, "⚡ history cleared")
	return nil
}
