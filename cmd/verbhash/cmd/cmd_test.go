package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/corey/verbhash/internal/domain/dispatch"
	"github.com/corey/verbhash/internal/ports"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// CLI: flag/config merging, report output and every subcommand end to end
// Expectation: each command runs against a temp project root and writes only
// under its .verbhash/ directory.
// =============================================================================

// resetFlags restores every flag to its default so commands don't leak
// state between tests.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI with args and captures stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// project creates a temp project root with a keyword file and makes it the
// working directory.
func project(t *testing.T, verbs string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "verbs.txt"), []byte(verbs), 0644))
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func TestRoot_TextReport(t *testing.T) {
	project(t, "RETR STOR DELE\n")

	out, _, err := execute(t, "", "--file", "verbs.txt")
	require.NoError(t, err)
	assert.Equal(t, "size: 3, seed: 9996\n(retr, 1)\n(stor, 2)\n(dele, 0)\nexecution time: 0:0\n", out)
}

func TestRoot_JSON(t *testing.T) {
	project(t, "RETR STOR DELE\n")

	out, _, err := execute(t, "", "--file", "verbs.txt", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, float64(3), got["size"])
	assert.Equal(t, float64(9996), got["seed"])
	assert.Equal(t, true, got["found"])
}

func TestRoot_FlagBounds(t *testing.T) {
	project(t, "USER PASS QUIT PORT LIST\n")

	out, _, err := execute(t, "", "-f", "verbs.txt", "--max-seed", "13")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "size: 5, seed: 13\n"), out)

	out, _, err = execute(t, "", "-f", "verbs.txt", "--size-factor", "1")
	require.NoError(t, err)
	assert.Equal(t, "size: 0, seed: 0\nexecution time: 0:0\n", out, "no sizes to try")
}

func TestRoot_ConfigFile(t *testing.T) {
	dir := project(t, "USER PASS QUIT PORT LIST\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".verbhash"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".verbhash", "config.yaml"),
		[]byte("max_seed: 13\nkeywords_file: verbs.txt\n"), 0644))

	out, _, err := execute(t, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "size: 5, seed: 13\n"), out)

	// Flags win over the file.
	out, _, err = execute(t, "", "--size-factor", "1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "size: 0, seed: 0\n"), out)
}

func TestRoot_InvalidConfig(t *testing.T) {
	dir := project(t, "RETR\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".verbhash"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".verbhash", "config.yaml"), []byte("workers: 0\n"), 0644))

	_, _, err := execute(t, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
}

func TestRoot_DuplicateWarning(t *testing.T) {
	project(t, "USER user PASS\n")

	out, errOut, err := execute(t, "", "-f", "verbs.txt", "--max-seed", "20")
	require.NoError(t, err)
	assert.Contains(t, errOut, "warning: duplicate keywords [user]")
	assert.True(t, strings.HasPrefix(out, "size: 0, seed: 0\n"))
}

func TestRoot_MissingKeywordFile(t *testing.T) {
	project(t, "RETR\n")

	_, _, err := execute(t, "", "-f", "nope.txt")
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	project(t, "RETR STOR DELE\n")

	out, _, err := execute(t, "", "verify", "3", "9996", "-f", "verbs.txt", "--color", "never")
	require.NoError(t, err)
	assert.Equal(t, "✓ size 3, seed 9996 is collision-free for 3 keywords\n(retr, 1)\n(stor, 2)\n(dele, 0)\n", out)

	// The FTP verbs collide at size 33 with seed 1.
	out, _, err = execute(t, "", "verify", "33", "1", "--color", "never")
	assert.ErrorIs(t, err, errCollides)
	assert.Contains(t, out, "✗ size 33, seed 1 collides for 33 keywords")

	_, _, err = execute(t, "", "verify", "0", "1")
	assert.Error(t, err)
	_, _, err = execute(t, "", "verify", "3", "-1")
	assert.Error(t, err)
}

func TestGen_C(t *testing.T) {
	project(t, "RETR STOR DELE\n")

	out, _, err := execute(t, "", "gen", "-f", "verbs.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "#define TOKEN_MAPPING_SIZE 3\n")
	assert.Contains(t, out, "enum token_type {\n  TT_RETR = 1,\n  TT_STOR = 2,\n  TT_DELE = 0,\n};\n")

	out, _, err = execute(t, "", "gen", "-f", "verbs.txt", "--prefix", "CMD_", "--enum", "cmd", "--size-macro", "CMD_COUNT")
	require.NoError(t, err)
	assert.Contains(t, out, "#define CMD_COUNT 3\n")
	assert.Contains(t, out, "enum cmd {\n  CMD_RETR = 1,")
}

func TestGen_GoToFile(t *testing.T) {
	dir := project(t, "RETR STOR DELE\n")
	target := filepath.Join(dir, "verbs_gen.go")

	_, errOut, err := execute(t, "", "gen", "-f", "verbs.txt", "--lang", "go", "--package", "ftp", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, errOut, "wrote "+target)

	src, err := os.ReadFile(target)
	require.NoError(t, err)
	f, err := parser.ParseFile(token.NewFileSet(), target, src, 0)
	require.NoError(t, err)
	assert.Equal(t, "ftp", f.Name.Name)
}

func TestGen_Errors(t *testing.T) {
	project(t, "abcyz abdyz\n")

	_, _, err := execute(t, "", "gen", "--lang", "rust")
	assert.Error(t, err)

	_, _, err = execute(t, "", "gen", "-f", "verbs.txt", "--max-seed", "50")
	assert.Error(t, err, "no table to generate")
}

func TestLookup_Args(t *testing.T) {
	project(t, "RETR STOR DELE\n")

	out, _, err := execute(t, "", "lookup", "-f", "verbs.txt", "--color", "never", "RETR a.txt", "dele", "NOOP")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `RETR a.txt  →  retr [1] "a.txt"`, lines[0])
	assert.Equal(t, `dele  →  dele [0]`, lines[1])
	assert.Equal(t, `NOOP  →  unknown verb: "NOOP"`, lines[2])
}

func TestLookup_Stdin(t *testing.T) {
	project(t, "RETR STOR DELE\n")

	out, _, err := execute(t, "STOR up.bin\r\n\nDELE old\r\n", "lookup", "-f", "verbs.txt", "--color", "never")
	require.NoError(t, err)
	assert.Equal(t, "STOR up.bin  →  stor [2] \"up.bin\"\nDELE old  →  dele [0] \"old\"\n", out)
}

func TestLookup_NoSolution(t *testing.T) {
	project(t, "abcyz abdyz\n")

	_, _, err := execute(t, "", "lookup", "-f", "verbs.txt", "--max-seed", "50", "ABCYZ")
	assert.ErrorIs(t, err, dispatch.ErrNoSolution)
}

func TestHistory_RecordListClear(t *testing.T) {
	dir := project(t, "RETR STOR DELE\n")

	out, _, err := execute(t, "", "history", "-f", "verbs.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "no runs recorded")

	for i := 0; i < 2; i++ {
		_, _, err = execute(t, "", "-f", "verbs.txt", "--record")
		require.NoError(t, err)
	}
	assert.FileExists(t, filepath.Join(dir, ".verbhash", "history.db"))

	out, _, err = execute(t, "", "history", "-f", "verbs.txt", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "2 runs")
	assert.Equal(t, 2, strings.Count(out, "size 3  seed 9996"))

	out, _, err = execute(t, "", "history", "-f", "verbs.txt", "--limit", "1", "--color", "never")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "size 3  seed 9996"))

	// A different keyword set has its own history.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("USER PASS\n"), 0644))
	out, _, err = execute(t, "", "history", "-f", "other.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "no runs recorded for this keyword set")

	out, _, err = execute(t, "", "history", "clear", "-f", "verbs.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "history cleared")

	out, _, err = execute(t, "", "history", "-f", "verbs.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "no runs recorded for this keyword set")
}

func TestMetricsTextfile(t *testing.T) {
	dir := project(t, "RETR STOR DELE\n")

	_, _, err := execute(t, "", "-f", "verbs.txt", "--metrics")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".verbhash", "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `verbhash_searches_total{outcome="found"} 1`)
	assert.Contains(t, string(data), "verbhash_table_seed 9996")
}

func TestConfigCommand(t *testing.T) {
	dir := project(t, "RETR STOR DELE\n")

	out, _, err := execute(t, "", "config", "-f", "verbs.txt", "--workers", "4", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "Root:         "+dir)
	assert.Contains(t, out, "(not created)")
	assert.Contains(t, out, "Keywords:     verbs.txt (3)")
	assert.Contains(t, out, "Workers:      4")
	assert.Contains(t, out, "Max seed:     9999")
}

func TestWatch_NeedsFile(t *testing.T) {
	project(t, "RETR\n")

	_, _, err := execute(t, "", "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyword file")
}

func TestFormatRun(t *testing.T) {
	run := &ports.Run{ID: "id-1", Size: 61, Seed: 1868, ElapsedNs: 1.5e9, Workers: 2, CreatedAt: 0}
	got := formatRun(run, false)
	assert.True(t, strings.HasPrefix(got, "id-1  "))
	assert.True(t, strings.HasSuffix(got, "  size 61  seed 1868  0:1  w2"), got)

	run.Size, run.Seed = 0, 0
	assert.Contains(t, formatRun(run, false), "not found")
	assert.Contains(t, formatRun(run, true), colorYellow+"not found"+colorReset)
}

func TestFormatCommand(t *testing.T) {
	assert.Equal(t, `RETR x  →  retr [45] "x"`,
		formatCommand("RETR x\r\n", dispatch.Command{Verb: "retr", Slot: 45, Arg: "x"}, nil, false))
	assert.Equal(t, "PWD  →  pwd [2]",
		formatCommand("PWD", dispatch.Command{Verb: "pwd", Slot: 2}, nil, false))
	assert.Equal(t, "XYZ  →  boom",
		formatCommand("XYZ", dispatch.Command{}, errors.New("boom"), false))
}

func TestIsDBLockError(t *testing.T) {
	assert.False(t, isDBLockError(nil))
	assert.False(t, isDBLockError(errors.New("permission denied")))
	assert.True(t, isDBLockError(errors.New("open history: timeout")))
}

func TestResolveColor(t *testing.T) {
	assert.False(t, resolveColor("always", true), "--no-color wins")
	assert.True(t, resolveColor("always", false))
	assert.False(t, resolveColor("never", false))
	t.Setenv("NO_COLOR", "1")
	assert.False(t, resolveColor("auto", false))
}
