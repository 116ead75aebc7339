// Package detector infers whether shared infrastructure already exists in a
// plugin's source directory by looking for content signatures.
//
// Detection is a heuristic. Signatures are specific enough to avoid false
// positives, since a false positive means a missing class and a broken build,
// while a false negative only produces a redundant file.
package detector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nightconcept/bundlewright/internal/core/component"
)

// SourceExt is the extension of scanned source files.
const SourceExt = ".java"

// Signatures maps each infrastructure kind to the substrings that identify it.
var Signatures = map[component.Infra][]string{
	component.Activator: {
		"extends Incremental2PackActivator",
		"extends AdempiereActivator",
		"implements BundleActivator",
	},
	component.CalloutFactory: {
		"extends AnnotationBasedColumnCalloutFactory",
		"implements IColumnCalloutFactory",
	},
	component.EventManager: {
		"extends AnnotationBasedEventManager",
		"implements IEventManagerDelegate",
	},
	component.ProcessFactory: {
		"extends AnnotationBasedProcessFactory",
		"implements IProcessFactory",
	},
}

// Detect reports whether any first-level source file in dir contains one of
// signatures. A missing directory holds nothing.
func Detect(dir string, signatures []string) (bool, error) {
	_, found, err := Find(dir, signatures)
	return found, err
}

// Find is Detect that also returns the first matching file, in name order so
// the result is stable.
func Find(dir string, signatures []string) (string, bool, error) {
	matches, err := scan(dir, signatures, true)
	if err != nil || len(matches) == 0 {
		return "", false, err
	}
	return matches[0], true, nil
}

// FindAll returns every first-level source file in dir carrying one of
// signatures, in name order.
func FindAll(dir string, signatures []string) ([]string, error) {
	return scan(dir, signatures, false)
}

func scan(dir string, signatures []string, first bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != SourceExt {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		text := string(content)
		for _, sig := range signatures {
			if strings.Contains(text, sig) {
				matches = append(matches, path)
				break
			}
		}
		if first && len(matches) > 0 {
			break
		}
	}
	return matches, nil
}

// InfrastructureIndex answers whether a piece of shared infrastructure exists.
// Generators depend on this rather than on content scanning so the heuristic
// can be swapped for a structured index.
type InfrastructureIndex interface {
	HasInfrastructure(in component.Infra) (path string, ok bool, err error)
}

// SourceIndex is the content-scanning InfrastructureIndex over one source dir.
type SourceIndex struct {
	Dir string
}

// NewSourceIndex returns an index over dir.
func NewSourceIndex(dir string) SourceIndex {
	return SourceIndex{Dir: dir}
}

// HasInfrastructure implements InfrastructureIndex.
func (s SourceIndex) HasInfrastructure(in component.Infra) (string, bool, error) {
	sigs, ok := Signatures[in]
	if !ok {
		return "", false, fmt.Errorf("no signatures registered for infrastructure %q", in)
	}
	return Find(s.Dir, sigs)
}
