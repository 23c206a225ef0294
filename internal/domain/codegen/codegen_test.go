package codegen

import (
	"bytes"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/corey/verbhash/internal/domain/keywords"
	"github.com/corey/verbhash/internal/domain/phash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ftpTable = Table{Keywords: keywords.FTP, Result: phash.Result{Size: 61, Seed: 1868}}

func TestC_FTPHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, C(&buf, ftpTable, COptions{}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "#pragma once\n"))
	assert.Contains(t, out, "#define TOKEN_MAPPING_SIZE 61\n")
	assert.Contains(t, out, "enum token_type {\n  TT_USER = 48,\n  TT_PASS = 60,\n")
	assert.Contains(t, out, "  TT_CWD = 8,\n")
	assert.Contains(t, out, "  TT_PORT = 0,\n")
	assert.True(t, strings.HasSuffix(out, "  TT_NOOP = 47,\n};\n"))
	assert.Equal(t, 33, strings.Count(out, " = "))
}

func TestC_Options(t *testing.T) {
	var buf bytes.Buffer
	tbl := Table{Keywords: []string{"RETR", "STOR", "DELE"}, Result: phash.Result{Size: 3, Seed: 9996}}
	require.NoError(t, C(&buf, tbl, COptions{Enum: "cmd", Prefix: "CMD_", SizeMacro: "CMD_COUNT"}))
	out := buf.String()
	assert.Contains(t, out, "#define CMD_COUNT 3\n")
	assert.Contains(t, out, "enum cmd {\n  CMD_RETR = 1,\n  CMD_STOR = 2,\n  CMD_DELE = 0,\n};\n")
}

func TestGo_FTPSource(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Go(&buf, ftpTable, GoOptions{Package: "ftp"}))
	out := buf.String()

	_, err := parser.ParseFile(token.NewFileSet(), "verbs.go", out, parser.AllErrors)
	require.NoError(t, err, out)

	assert.Contains(t, out, "package ftp\n")
	assert.Contains(t, out, "TableSize = 61")
	assert.Contains(t, out, "TableSeed = 1868")
	assert.Regexp(t, `User\s+Verb = 48\s+// user`, out)
	assert.Regexp(t, `Cwd\s+Verb = 8\s+// cwd`, out)
	assert.Regexp(t, `48:\s+"user",`, out)
	assert.Contains(t, out, "func Lookup(s string) (Verb, bool)")
}

func TestGo_ReservedAndOddNames(t *testing.T) {
	kws := []string{"lookup", "9p", "x-y"}
	res := phash.Search(kws)
	require.True(t, res.Meaningful())

	var buf bytes.Buffer
	require.NoError(t, Go(&buf, Table{Keywords: kws, Result: res}, GoOptions{Type: "Cmd"}))
	out := buf.String()

	_, err := parser.ParseFile(token.NewFileSet(), "cmds.go", out, parser.AllErrors)
	require.NoError(t, err, out)
	assert.Contains(t, out, "CmdLookup")
	assert.Contains(t, out, "Cmd_9p")
	assert.Contains(t, out, "X_y")
	assert.Contains(t, out, "var cmdText")
}

func TestGo_NameClash(t *testing.T) {
	kws := []string{"a-b", "a_b"}
	res := phash.Search(kws)
	require.True(t, res.Meaningful())
	err := Go(&bytes.Buffer{}, Table{Keywords: kws, Result: res}, GoOptions{})
	assert.ErrorContains(t, err, "both render as")
}

func TestUnsolved(t *testing.T) {
	tbl := Table{Keywords: keywords.FTP}
	assert.ErrorIs(t, C(&bytes.Buffer{}, tbl, COptions{}), ErrUnsolved)
	assert.ErrorIs(t, Go(&bytes.Buffer{}, tbl, GoOptions{}), ErrUnsolved)
}
