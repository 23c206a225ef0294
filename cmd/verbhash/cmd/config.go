package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the project paths, the keyword source and the search bounds after merging config.yaml with flags.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatSettings(s, s.color))
	return nil
}

// missingSuffix marks paths that don't exist yet.
func missingSuffix(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return " (not created)"
	}
	return ""
}
