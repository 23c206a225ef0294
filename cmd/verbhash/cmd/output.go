package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/corey/verbhash/internal/app"
	"github.com/corey/verbhash/internal/domain/dispatch"
	"github.com/corey/verbhash/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// paint wraps s in an ANSI code when color is on.
func paint(color bool, code, s string) string {
	if !color {
		return s
	}
	return code + s + colorReset
}

// formatRun renders one history row:
//
//	0190f5a4-5c6e-7b3a-8f00-1d2c3b4a5968  2026-01-02 15:04:05  size 61  seed 1868  0:1  w1
func formatRun(run *ports.Run, color bool) string {
	when := time.Unix(run.CreatedAt, 0).Format("2006-01-02 15:04:05")
	result := fmt.Sprintf("size %d  seed %d", run.Size, run.Seed)
	if run.Meaningful() {
		result = paint(color, colorGreen, result)
	} else {
		result = paint(color, colorYellow, "not found")
	}
	return fmt.Sprintf("%s  %s  %s  %s  w%d",
		paint(color, colorGray, run.ID),
		when,
		result,
		app.FormatElapsed(time.Duration(run.ElapsedNs)),
		run.Workers)
}

// formatCommand renders the dispatch of one control line:
//
//	RETR file.txt  →  retr [45] "file.txt"
//	XYZZY          →  unknown verb "XYZZY"
func formatCommand(line string, c dispatch.Command, err error, color bool) string {
	line = strings.TrimRight(line, "\r\n")
	if err != nil {
		return fmt.Sprintf("%s  →  %s", line, paint(color, colorRed, err.Error()))
	}
	out := fmt.Sprintf("%s  →  %s [%d]", line, paint(color, colorCyan, c.Verb), c.Slot)
	if c.Arg != "" {
		out += fmt.Sprintf(" %q", c.Arg)
	}
	return out
}

// formatVerify renders the verdict header for verify.
func formatVerify(size int, seed uint64, n int, ok bool, color bool) string {
	if ok {
		return paint(color, colorGreen, fmt.Sprintf("✓ size %d, seed %d is collision-free for %d keywords", size, seed, n))
	}
	return paint(color, colorRed, fmt.Sprintf("✗ size %d, seed %d collides for %d keywords", size, seed, n))
}

// formatSettings renders the config command output.
func formatSettings(s *settings, color bool) string {
	var sb strings.Builder
	sb.WriteString(paint(color, colorBold, "verbhash config") + "\n")
	fmt.Fprintf(&sb, "  Root:         %s\n", s.root)
	fmt.Fprintf(&sb, "  Config:       %s%s\n", s.configPath, missingSuffix(s.configPath))
	fmt.Fprintf(&sb, "  History:      %s%s\n", s.paths.DB, missingSuffix(s.paths.DB))
	fmt.Fprintf(&sb, "  Metrics:      %s\n", s.paths.Metrics)
	fmt.Fprintf(&sb, "  Keywords:     %s (%d)\n", s.source, len(s.keywords))
	fmt.Fprintf(&sb, "  Max seed:     %d\n", s.cfg.MaxSeed)
	fmt.Fprintf(&sb, "  Size factor:  %d\n", s.cfg.SizeFactor)
	fmt.Fprintf(&sb, "  Workers:      %d\n", s.cfg.Workers)
	fmt.Fprintf(&sb, "  Record:       %t\n", s.cfg.Record)
	fmt.Fprintf(&sb, "  Metrics out:  %t\n", s.cfg.Metrics)
	return sb.String()
}
