package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	keywordsFile string
	configFile   string
	jsonOutput   bool
	recordRuns   bool
	writeMetrics bool
	workers      int
	maxSeed      uint64
	sizeFactor   int
	verbose      bool
	colorFlag    string
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:          "verbhash",
	Short:        "Minimal perfect hash search for command verbs",
	Long:         "Finds the smallest table size and a seed that give every keyword a distinct slot. With no --file, solves the 33 FTP verbs.",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runSearch,
}

// projectRoot returns the project root (cwd by default).
func projectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&keywordsFile, "file", "f", "", "Keyword file (text or .yaml); default is the FTP verb set")
	pf.StringVar(&configFile, "config", "", "Config file (default .verbhash/config.yaml)")
	pf.BoolVar(&recordRuns, "record", false, "Record the run in .verbhash/history.db")
	pf.BoolVar(&writeMetrics, "metrics", false, "Write .verbhash/metrics.prom after the run")
	pf.IntVarP(&workers, "workers", "w", 1, "Goroutines splitting the seed range")
	pf.Uint64Var(&maxSeed, "max-seed", 9999, "Largest seed tried")
	pf.IntVar(&sizeFactor, "size-factor", 10, "Sizes tried run from n up to n*factor, exclusive")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")
	pf.StringVar(&colorFlag, "color", "auto", "Color output: auto, always, never")
	pf.BoolVar(&noColor, "no-color", false, "Disable color output")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the report as JSON")

	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	a, done, err := s.newApp(cmd)
	if err != nil {
		return err
	}
	defer done()

	rep, err := a.Run(s.keywords)
	if err != nil {
		return err
	}
	if jsonOutput {
		return rep.WriteJSON(cmd.OutOrStdout())
	}
	return rep.WriteText(cmd.OutOrStdout())
}
