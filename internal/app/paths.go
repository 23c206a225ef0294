package app

import (
	"os"
	"path/filepath"
)

// DirName is the per-project state directory.
const DirName = ".verbhash"

// Paths holds all resolved filesystem paths for the .verbhash/ project directory.
// All fields are pre-computed strings.
type Paths struct {
	Root    string // .verbhash/
	Config  string // .verbhash/config.yaml
	DB      string // .verbhash/history.db
	Metrics string // .verbhash/metrics.prom
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, DirName)
	return &Paths{
		Root:    root,
		Config:  filepath.Join(root, "config.yaml"),
		DB:      filepath.Join(root, "history.db"),
		Metrics: filepath.Join(root, "metrics.prom"),
	}
}

// EnsureDirs creates the .verbhash/ directory. Idempotent.
func (p *Paths) EnsureDirs() error {
	return os.MkdirAll(p.Root, 0755)
}
