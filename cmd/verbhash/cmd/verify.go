package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/corey/verbhash/internal/app"
	"github.com/spf13/cobra"
)

var errCollides = errors.New("table has collisions")

var verifyCmd = &cobra.Command{
	Use:   "verify <size> <seed>",
	Short: "Check a size and seed without searching",
	Long:  "Hashes every keyword with the given seed and size and prints the slots if none collide. Exits 1 on a collision.",
	Args:  cobra.ExactArgs(2),
	RunE:  runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	size, err := strconv.Atoi(args[0])
	if err != nil || size < 1 {
		return fmt.Errorf("size must be a positive integer, got %q", args[0])
	}
	seed, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("seed must be an unsigned integer, got %q", args[1])
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	a := app.New(s.logger(cmd), s.cfg.Options())

	rep, ok := a.Verify(s.keywords, size, seed)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, formatVerify(size, seed, len(rep.Keywords), ok, s.color))
	if !ok {
		return errCollides
	}
	for _, sl := range rep.Slots {
		fmt.Fprintf(out, "(%s, %d)\n", sl.Keyword, sl.Slot)
	}
	return nil
}
