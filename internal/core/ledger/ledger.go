// Package ledger records the files bwr generated, with their fingerprints, in
// bundlewright-lock.toml at the project root. The ledger is advisory: it is
// used to report generated files that were since edited or deleted, never to
// derive the project itself.
package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/nightconcept/bundlewright/internal/core/hasher"
)

const FileName = "bundlewright-lock.toml"
const APIVersion = "1"

// Entry is one generated artifact.
// Example:
// [artifact."org.acme.sales/src/org/acme/sales/SalesProcess.java"]
//
//	kind = "process"
//	role = "class"
//	hash = "sha256:<hash_value>"
type Entry struct {
	Kind string `toml:"kind"`
	Role string `toml:"role"`
	Hash string `toml:"hash"`
}

// Ledger is the content of bundlewright-lock.toml.
type Ledger struct {
	APIVersion string           `toml:"api_version"`
	Catalog    string           `toml:"catalog,omitempty"`
	Artifacts  map[string]Entry `toml:"artifact"`
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		APIVersion: APIVersion,
		Artifacts:  make(map[string]Entry),
	}
}

// Load reads the ledger under projectRoot. A missing file yields an empty
// ledger.
func Load(projectRoot string) (*Ledger, error) {
	path := filepath.Join(projectRoot, FileName)
	l := New()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return l, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat ledger %s: %w", path, err)
	}

	if _, err := toml.DecodeFile(path, l); err != nil {
		return nil, fmt.Errorf("failed to decode ledger %s: %w", path, err)
	}
	if l.APIVersion == "" {
		l.APIVersion = APIVersion
	}
	if l.Artifacts == nil {
		l.Artifacts = make(map[string]Entry)
	}
	return l, nil
}

// Save writes the ledger under projectRoot.
func Save(projectRoot string, l *Ledger) error {
	path := filepath.Join(projectRoot, FileName)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create ledger %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	if err := toml.NewEncoder(file).Encode(l); err != nil {
		return fmt.Errorf("failed to encode ledger %s: %w", path, err)
	}
	return nil
}

// Record adds or replaces the entry for relPath (slash separated, relative to
// the project root).
func (l *Ledger) Record(relPath, kind, role, hash string) {
	if l.Artifacts == nil {
		l.Artifacts = make(map[string]Entry)
	}
	l.Artifacts[relPath] = Entry{Kind: kind, Role: role, Hash: hash}
}

// State is the on-disk condition of a recorded artifact.
type State string

const (
	StateUnchanged State = "unchanged"
	StateModified  State = "modified"
	StateMissing   State = "missing"
)

// Status pairs an entry with its on-disk state.
type Status struct {
	Path  string
	Entry Entry
	State State
}

// Verify fingerprints every recorded artifact under projectRoot, in path
// order.
func (l *Ledger) Verify(projectRoot string) ([]Status, error) {
	paths := make([]string, 0, len(l.Artifacts))
	for p := range l.Artifacts {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := make([]Status, 0, len(paths))
	for _, p := range paths {
		entry := l.Artifacts[p]
		st := Status{Path: p, Entry: entry, State: StateUnchanged}
		hash, err := hasher.FingerprintFile(filepath.Join(projectRoot, filepath.FromSlash(p)))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			st.State = StateMissing
		case err != nil:
			return nil, err
		case hash != entry.Hash:
			st.State = StateModified
		}
		out = append(out, st)
	}
	return out, nil
}
