// Package keywords holds the keyword sets fed to the hash search: the
// built-in FTP verbs and sets loaded from plain-text or YAML files.
package keywords

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/sha3"
	"gopkg.in/yaml.v3"
)

// ErrNoKeywords is returned when a keyword file contains no keywords.
var ErrNoKeywords = errors.New("no keywords")

// FTP lists the RFC 959 command verbs in the order the server's lexer
// declares them. The order is part of the report output.
var FTP = []string{
	"USER", "PASS", "ACCT", "CWD", "CDUP", "SMNT", "REIN", "QUIT",
	"PORT", "PASV", "TYPE", "STRU", "MODE", "RETR", "STOR", "STOU",
	"APPE", "ALLO", "REST", "RNFR", "RNTO", "ABOR", "DELE", "RMD",
	"MKD", "PWD", "LIST", "NLST", "SITE", "SYST", "STAT", "HELP",
	"NOOP",
}

// Default returns a copy of the FTP verbs.
func Default() []string {
	out := make([]string, len(FTP))
	copy(out, FTP)
	return out
}

// Normalize lowercases every keyword, keeping order and duplicates.
func Normalize(keywords []string) []string {
	out := make([]string, len(keywords))
	for i, k := range keywords {
		out[i] = strings.ToLower(k)
	}
	return out
}

// Duplicates returns the lowercased keywords that occur more than once,
// in order of their second occurrence. Such a set can never hash
// injectively.
func Duplicates(keywords []string) []string {
	seen := make(map[string]int, len(keywords))
	var dups []string
	for _, k := range Normalize(keywords) {
		seen[k]++
		if seen[k] == 2 {
			dups = append(dups, k)
		}
	}
	return dups
}

// Fingerprint identifies a keyword sequence independent of case: the
// SHA3-256 of the normalized keywords joined by newlines, hex encoded.
// Order matters, since it changes the report.
func Fingerprint(keywords []string) string {
	sum := sha3.Sum256([]byte(strings.Join(Normalize(keywords), "\n")))
	return hex.EncodeToString(sum[:])
}

// yamlFile is the YAML keyword file layout.
type yamlFile struct {
	Keywords []string `yaml:"keywords"`
}

// Load reads a keyword file. Files ending in .yaml or .yml hold a
// "keywords" list; anything else is whitespace-separated tokens where '#'
// starts a comment that runs to the end of the line.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords: %w", err)
	}

	var kws []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		kws, err = parseYAML(data)
	default:
		kws, err = parseText(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(kws) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoKeywords)
	}
	return kws, nil
}

func parseYAML(data []byte) ([]string, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	out := f.Keywords[:0]
	for _, k := range f.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out, nil
}

func parseText(data []byte) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		out = append(out, strings.Fields(line)...)
	}
	return out, sc.Err()
}
