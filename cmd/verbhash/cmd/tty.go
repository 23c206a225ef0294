package cmd

import "os"

// isStdoutTTY returns true if stdout is connected to a terminal.
func isStdoutTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// resolveColor determines whether to use color output based on flags and TTY status.
// colorFlag is the --color value: "auto", "always", or "never".
// NO_COLOR in the environment wins over "auto".
func resolveColor(colorFlag string, noColor bool) bool {
	if noColor {
		return false
	}
	switch colorFlag {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		return isStdoutTTY()
	}
}
