package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/nightconcept/bundlewright/internal/core/component"
)

// MergeResult describes what a merge changed.
type MergeResult struct {
	Path    string
	Missing bool                // manifest file does not exist; nothing was written
	Added   map[string][]string // header -> entries appended
}

// Changed reports whether any header gained entries.
func (r *MergeResult) Changed() bool {
	for _, added := range r.Added {
		if len(added) > 0 {
			return true
		}
	}
	return false
}

// AddRequiredHeaders unions the bundles and packages required by kind into
// the Require-Bundle and Import-Package headers of the manifest under
// projectDir. A missing manifest is not an error: the result is flagged
// Missing and nothing is written.
func AddRequiredHeaders(projectDir string, kind component.Kind) (*MergeResult, error) {
	req := RequirementsFor(kind)
	return mergeFile(projectDir, map[string][]string{
		RequireBundle: req.Bundles,
		ImportPackage: req.Packages,
	}, []string{RequireBundle, ImportPackage})
}

// RegisterComponents adds service-component descriptor paths (relative to the
// plugin dir, slash separated) to the Service-Component header. Paths already
// covered by a wildcard entry such as OSGI-INF/*.xml are left alone.
func RegisterComponents(projectDir string, paths ...string) (*MergeResult, error) {
	return mergeFile(projectDir, map[string][]string{ServiceComponent: paths}, []string{ServiceComponent})
}

func mergeFile(projectDir string, wanted map[string][]string, order []string) (*MergeResult, error) {
	manifestPath := filepath.Join(projectDir, RelPath)
	result := &MergeResult{Path: manifestPath, Added: make(map[string][]string)}

	data, err := os.ReadFile(manifestPath)
	if errors.Is(err, fs.ErrNotExist) {
		result.Missing = true
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", manifestPath, err)
	}

	text := string(data)
	for _, header := range order {
		var added []string
		text, added = MergeHeader(text, header, wanted[header])
		if len(added) > 0 {
			result.Added[header] = added
		}
	}
	if !result.Changed() {
		return result, nil
	}

	info, err := os.Stat(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("stat manifest %s: %w", manifestPath, err)
	}
	if err := os.WriteFile(manifestPath, []byte(text), info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("writing manifest %s: %w", manifestPath, err)
	}
	return result, nil
}

// EnsureHeader sets a single-valued header such as Bundle-Activator when the
// manifest does not declare it. An existing value is never replaced; the
// result then reports no change.
func EnsureHeader(projectDir, header, value string) (*MergeResult, error) {
	manifestPath := filepath.Join(projectDir, RelPath)
	result := &MergeResult{Path: manifestPath, Added: make(map[string][]string)}

	data, err := os.ReadFile(manifestPath)
	if errors.Is(err, fs.ErrNotExist) {
		result.Missing = true
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", manifestPath, err)
	}
	text := string(data)
	if _, found := findHeader(text, header); found {
		return result, nil
	}

	text = insertHeader(text, header+": "+value, newline(text))
	info, err := os.Stat(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("stat manifest %s: %w", manifestPath, err)
	}
	if err := os.WriteFile(manifestPath, []byte(text), info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("writing manifest %s: %w", manifestPath, err)
	}
	result.Added[header] = []string{value}
	return result, nil
}

// MergeHeader appends to header every name in names not already referenced by
// it and returns the new text plus the names that were added. When the header
// is absent it is created at the end of the main section. Text outside the
// header's own block is returned unchanged.
func MergeHeader(text, header string, names []string) (string, []string) {
	if len(names) == 0 {
		return text, nil
	}
	nl := newline(text)

	block, found := findHeader(text, header)
	var present []string
	if found {
		present = EntryNames(unfold(block.raw))
	}

	var missing []string
	for _, name := range names {
		if covered(header, present, name) || contains(missing, name) {
			continue
		}
		missing = append(missing, name)
	}
	if len(missing) == 0 {
		return text, nil
	}

	if !found {
		return insertHeader(text, header+": "+strings.Join(missing, ","+nl+" "), nl), missing
	}

	var b strings.Builder
	b.WriteString(text[:block.end])
	for i, name := range missing {
		if i == 0 && len(present) == 0 {
			// "Require-Bundle:" with an empty value.
			if !strings.HasSuffix(text[:block.end], " ") {
				b.WriteString(" ")
			}
			b.WriteString(name)
			continue
		}
		b.WriteString(",")
		b.WriteString(nl)
		b.WriteString(" ")
		b.WriteString(name)
	}
	b.WriteString(text[block.end:])
	return b.String(), missing
}

func covered(header string, present []string, name string) bool {
	for _, p := range present {
		if p == name {
			return true
		}
		if header == ServiceComponent && strings.ContainsAny(p, "*?[") {
			if ok, err := path.Match(p, name); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// insertHeader places line at the end of the main section. A manifest must
// end with a line break, so one is always written after the header.
func insertHeader(text, line, nl string) string {
	if end := mainSectionEnd(text); end < len(text) {
		return text[:end] + line + nl + text[end:]
	}
	body := strings.TrimRight(text, "\r\n")
	trailing := text[len(body):]
	if body == "" {
		return line + nl
	}
	if trailing == "" {
		trailing = nl
	}
	return body + nl + line + trailing
}

func newline(text string) string {
	if strings.Contains(text, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
