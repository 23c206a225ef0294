package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/corey/verbhash/internal/domain/dispatch"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [line...]",
	Short: "Dispatch control lines through the solved table",
	Long:  "Runs the search, builds the dispatch table and parses each argument (or each stdin line when none are given) as a control line such as \"RETR file.txt\".",
	RunE:  runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
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
	table, err := dispatch.New(rep.Keywords, rep.Result)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	emit := func(line string) {
		c, err := table.Parse(line)
		fmt.Fprintln(out, formatCommand(line, c, err, s.color))
	}

	if len(args) > 0 {
		for _, line := range args {
			emit(line)
		}
		return nil
	}

	in := cmd.InOrStdin()
	if in == os.Stdin && isStdoutTTY() {
		fmt.Fprintln(cmd.ErrOrStderr(), "reading control lines from stdin (Ctrl-D to end)")
	}
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			emit(line)
		}
	}
	return sc.Err()
}
