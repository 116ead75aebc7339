// Package manifest reads and merges OSGi bundle manifests (META-INF/MANIFEST.MF).
//
// The manifest is handled as text rather than decoded into a structure so
// that hand-edited formatting survives a merge: only the value of the header
// being extended is touched, and existing entries keep their original wrapping.
package manifest

import (
	"path/filepath"
	"regexp"
	"strings"
)

// RelPath is the manifest location relative to a plugin directory.
var RelPath = filepath.Join("META-INF", "MANIFEST.MF")

// Header names the merger and the descriptor derivation care about.
const (
	SymbolicName         = "Bundle-SymbolicName"
	Version              = "Bundle-Version"
	Vendor               = "Bundle-Vendor"
	Name                 = "Bundle-Name"
	ExecutionEnvironment = "Bundle-RequiredExecutionEnvironment"
	RequireBundle        = "Require-Bundle"
	ImportPackage        = "Import-Package"
	ServiceComponent     = "Service-Component"
	FragmentHost         = "Fragment-Host"
	BundleActivator      = "Bundle-Activator"
)

// Headers is a read-only view of the main section of a manifest, keyed by
// lower-cased header name.
type Headers map[string]string

// Get returns the value of name, or "" when absent. Header names are
// case-insensitive.
func (h Headers) Get(name string) string { return h[strings.ToLower(name)] }

// SymbolicName returns Bundle-SymbolicName without its directives
// (";singleton:=true").
func (h Headers) SymbolicName() string {
	return entryName(h.Get(SymbolicName))
}

var anyHeader = regexp.MustCompile(`(?m)^([A-Za-z0-9][A-Za-z0-9_-]*):[ \t]?((?:[^\r\n]*)(?:\r?\n[ \t][^\r\n]*)*)`)

// continuation folds a header value: a newline followed by one space or tab
// continues the previous line.
var continuation = regexp.MustCompile(`\r?\n[ \t]`)

// Parse extracts the headers of the main section. Per-entry sections
// ("Name: ..." after a blank line) are ignored.
func Parse(data []byte) Headers {
	text := string(data)
	headers := make(Headers)
	for _, m := range anyHeader.FindAllStringSubmatch(text[:mainSectionEnd(text)], -1) {
		headers[strings.ToLower(m[1])] = unfold(m[2])
	}
	return headers
}

// mainSectionEnd returns the offset of the blank line that closes the main
// section, or len(text) when no per-entry section follows.
func mainSectionEnd(text string) int {
	pos := 0
	for pos < len(text) {
		eol := strings.IndexByte(text[pos:], '\n')
		if eol < 0 {
			return len(text)
		}
		line := strings.TrimSuffix(text[pos:pos+eol], "\r")
		if line == "" && pos > 0 && strings.TrimSpace(text[pos:]) != "" {
			return pos
		}
		pos += eol + 1
	}
	return len(text)
}

func unfold(raw string) string {
	return strings.TrimSpace(continuation.ReplaceAllString(raw, ""))
}

// headerBlock is the byte range of one header, from the start of its name up
// to (not including) the newline ending its last continuation line.
type headerBlock struct {
	start, end int
	raw        string
}

func headerPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?mi)^` + regexp.QuoteMeta(name) + `:[ \t]?((?:[^\r\n]*)(?:\r?\n[ \t][^\r\n]*)*)`)
}

// findHeader locates name in the main section, ignoring case.
func findHeader(text, name string) (headerBlock, bool) {
	loc := headerPattern(name).FindStringSubmatchIndex(text[:mainSectionEnd(text)])
	if loc == nil {
		return headerBlock{}, false
	}
	return headerBlock{start: loc[0], end: loc[1], raw: text[loc[2]:loc[3]]}, true
}

// SplitEntries splits a comma separated header value into trimmed entries,
// ignoring commas inside quoted attributes such as version ranges
// (bundle-version="[1.0,2.0)").
func SplitEntries(value string) []string {
	var (
		entries []string
		current strings.Builder
		quoted  bool
	)
	flush := func() {
		if e := strings.TrimSpace(current.String()); e != "" {
			entries = append(entries, e)
		}
		current.Reset()
	}
	for _, r := range value {
		switch {
		case r == '"':
			quoted = !quoted
			current.WriteRune(r)
		case r == ',' && !quoted:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return entries
}

// entryName returns the bundle or package name of a header entry, dropping
// attributes and directives.
func entryName(entry string) string {
	if i := strings.Index(entry, ";"); i >= 0 {
		entry = entry[:i]
	}
	return strings.TrimSpace(entry)
}

// EntryNames returns the names referenced by a header value.
func EntryNames(value string) []string {
	entries := SplitEntries(value)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, entryName(e))
	}
	return names
}
