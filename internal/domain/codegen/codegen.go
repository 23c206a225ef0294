// Package codegen renders a solved table as source code for the recognizer
// that embeds it: a C header (enum of slot numbers plus a size macro) or a
// self-contained Go file with typed constants and a Lookup function.
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"io"
	"strings"
	"text/template"
	"unicode"

	"github.com/corey/verbhash/internal/domain/phash"
)

// ErrUnsolved is returned when asked to render the "not found" result.
var ErrUnsolved = errors.New("table has no solution")

// Table is a keyword set together with its search result.
type Table struct {
	Keywords []string
	Result   phash.Result
}

// entry is one rendered constant.
type entry struct {
	Name    string
	Keyword string
	Slot    int
}

func (t Table) entries(ident func(string) string) ([]entry, error) {
	if !t.Result.Meaningful() {
		return nil, ErrUnsolved
	}
	slots := phash.Assign(t.Keywords, t.Result)
	out := make([]entry, len(slots))
	names := make(map[string]string, len(slots))
	for i, s := range slots {
		name := ident(s.Keyword)
		if prev, dup := names[name]; dup {
			return nil, fmt.Errorf("keywords %q and %q both render as %s", prev, s.Keyword, name)
		}
		names[name] = s.Keyword
		out[i] = entry{Name: name, Keyword: s.Keyword, Slot: s.Slot}
	}
	return out, nil
}

// sanitize keeps letters and digits and turns everything else into '_'.
func sanitize(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	out := sb.String()
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	return out
}

// COptions names the generated C symbols. Zero fields take the defaults
// the FTP lexer uses: enum token_type, TT_ prefix, TOKEN_MAPPING_SIZE.
type COptions struct {
	Enum      string
	Prefix    string
	SizeMacro string
}

var cTmpl = template.Must(template.New("c").Parse(`#pragma once

/* generated by verbhash: size {{.Size}}, seed {{.Seed}} */
#define {{.SizeMacro}} {{.Size}}

enum {{.Enum}} {
{{- range .Entries}}
  {{$.Prefix}}{{.Name}} = {{.Slot}},
{{- end}}
};
`))

// C writes a header declaring one enumerator per keyword, in input order.
func C(w io.Writer, t Table, o COptions) error {
	if o.Enum == "" {
		o.Enum = "token_type"
	}
	if o.Prefix == "" {
		o.Prefix = "TT_"
	}
	if o.SizeMacro == "" {
		o.SizeMacro = "TOKEN_MAPPING_SIZE"
	}

	entries, err := t.entries(func(k string) string {
		return strings.ToUpper(strings.TrimPrefix(sanitize(k), "_"))
	})
	if err != nil {
		return err
	}

	return cTmpl.Execute(w, struct {
		COptions
		Size    int
		Seed    uint64
		Entries []entry
	}{o, t.Result.Size, t.Result.Seed, entries})
}

// GoOptions names the generated Go package and verb type.
type GoOptions struct {
	Package string
	Type    string
}

var goTmpl = template.Must(template.New("go").Parse(`// Code generated by verbhash. DO NOT EDIT.

package {{.Package}}

import "strings"

// {{.Type}} is a command verb identified by its slot in a perfect hash table.
type {{.Type}} int

// Table parameters found by verbhash.
const (
	TableSize = {{.Size}}
	TableSeed = {{.Seed}}
)

const (
{{- range .Entries}}
	{{.Name}} {{$.Type}} = {{.Slot}} // {{.Keyword}}
{{- end}}
)

var {{.Lower}}Text = [TableSize]string{
{{- range .Entries}}
	{{.Slot}}: {{printf "%q" .Keyword}},
{{- end}}
}

// String returns the lowercase verb text.
func (v {{.Type}}) String() string {
	if v < 0 || v >= TableSize {
		return ""
	}
	return {{.Lower}}Text[v]
}

// Lookup returns the {{.Type}} for s, ignoring case.
func Lookup(s string) ({{.Type}}, bool) {
	r := []rune(strings.ToLower(s))
	short := make([]rune, 0, 4)
	short = append(short, r[:min(2, len(r))]...)
	short = append(short, r[max(0, len(r)-2):]...)

	var acc uint64
	for i, c := range short {
		acc = acc<<(uint(i)*8) | uint64(c)
		acc *= TableSeed
	}
	slot := acc % TableSize
	if s == "" || {{.Lower}}Text[slot] != string(r) {
		return 0, false
	}
	return {{.Type}}(slot), true
}
`))

// Go writes a gofmt-ed Go source file for the table.
func Go(w io.Writer, t Table, o GoOptions) error {
	if o.Package == "" {
		o.Package = "verbs"
	}
	if o.Type == "" {
		o.Type = "Verb"
	}

	reserved := map[string]bool{"Lookup": true, "TableSize": true, "TableSeed": true, o.Type: true}
	entries, err := t.entries(func(k string) string {
		s := sanitize(k)
		if s[0] == '_' {
			return o.Type + s
		}
		name := strings.ToUpper(s[:1]) + s[1:]
		if reserved[name] {
			return o.Type + name
		}
		return name
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = goTmpl.Execute(&buf, struct {
		GoOptions
		Lower   string
		Size    int
		Seed    uint64
		Entries []entry
	}{o, strings.ToLower(o.Type[:1]) + o.Type[1:], t.Result.Size, t.Result.Seed, entries})
	if err != nil {
		return err
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format generated source: %w", err)
	}
	_, err = w.Write(src)
	return err
}
