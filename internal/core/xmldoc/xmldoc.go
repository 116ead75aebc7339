// Package xmldoc loads, queries and edits the XML descriptors of a plugin
// tree (aggregator pom.xml, feature.xml, category.xml).
//
// Documents are saved in one of two ways. SavePretty serialises a freshly
// built tree with uniform indentation. SavePreserving writes back the
// original bytes with edits spliced in, so hand-maintained files only change
// inside the element that was extended.
package xmldoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

// ErrNoRoot is returned when a path does not start at the document root.
var ErrNoRoot = errors.New("document root does not match path")

// Document is an XML file held as raw bytes plus a parsed tree for queries.
type Document struct {
	path  string
	raw   []byte
	tree  *etree.Document
	dirty bool
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, raw)
}

// Parse builds a Document from raw bytes; path is where SavePreserving writes.
func Parse(path string, raw []byte) (*Document, error) {
	if _, err := scan(raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	tree, err := parseTree(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &Document{path: path, raw: raw, tree: tree}, nil
}

func parseTree(raw []byte) (*etree.Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(raw); err != nil {
		return nil, err
	}
	if tree.Root() == nil {
		return nil, errors.New("document has no root element")
	}
	return tree, nil
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string { return d.path }

// Bytes returns the current document text.
func (d *Document) Bytes() []byte { return d.raw }

// Changed reports whether an edit is pending.
func (d *Document) Changed() bool { return d.dirty }

// Root returns the parsed root element. Do not mutate it; use AppendChild.
func (d *Document) Root() *etree.Element { return d.tree.Root() }

// Find returns the elements matching an etree path such as
// "/project/modules/module".
func (d *Document) Find(path string) []*etree.Element {
	return d.tree.FindElements(path)
}

// Texts returns the trimmed text of every element matching path.
func (d *Document) Texts(path string) []string {
	var out []string
	for _, el := range d.Find(path) {
		out = append(out, strings.TrimSpace(el.Text()))
	}
	return out
}

// AppendChild adds child as the last element inside the element reached by
// path (local names from the root, e.g. ["project", "modules"]). Missing
// containers at the end of path are created. Indentation follows the
// surrounding elements and nothing outside the edited element changes.
func (d *Document) AppendChild(path []string, child *etree.Element) error {
	nodes, err := scan(d.raw)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", d.path, err)
	}
	if len(path) == 0 || nodes.root == nil || nodes.root.name != path[0] {
		return fmt.Errorf("%s: %w", d.path, ErrNoRoot)
	}

	target := nodes.root
	depth := 1
	for ; depth < len(path); depth++ {
		next := target.child(path[depth])
		if next == nil {
			break
		}
		target = next
	}

	nl := newline(d.raw)
	unit := indentUnit(d.raw, nodes.root)
	targetIndent := lineIndent(d.raw, target.start)
	childIndent := targetIndent + unit
	if last := target.lastChild(); last != nil {
		if ind, ok := lineIndentStrict(d.raw, last.start); ok {
			childIndent = ind
		}
	}

	missing := len(path) - depth
	fragment, err := serialize(child, childIndent+strings.Repeat(unit, missing), unit, nl)
	if err != nil {
		return fmt.Errorf("serialising <%s>: %w", child.Tag, err)
	}
	for i := len(path) - 1; i >= depth; i-- {
		fragment = wrap(path[i], fragment, childIndent, unit, nl, i-depth)
	}

	d.raw = splice(d.raw, target, fragment, childIndent, targetIndent, nl)
	tree, err := parseTree(d.raw)
	if err != nil {
		return fmt.Errorf("re-parsing %s after edit: %w", d.path, err)
	}
	d.tree = tree
	d.dirty = true
	return nil
}

// splice inserts fragment (already indented for continuation lines) into
// target's content.
func splice(raw []byte, target *span, fragment, childIndent, targetIndent, nl string) []byte {
	var out bytes.Buffer
	switch {
	case target.selfClosing:
		open := strings.TrimRight(string(raw[target.start:target.startEnd-2]), " \t\r\n")
		out.Write(raw[:target.start])
		out.WriteString(open + ">" + nl + childIndent + fragment + nl + targetIndent + "</" + target.name + ">")
		out.Write(raw[target.startEnd:])
	case target.lastChild() != nil:
		at := target.lastChild().end
		out.Write(raw[:at])
		out.WriteString(nl + childIndent + fragment)
		out.Write(raw[at:])
	default:
		at := target.startEnd
		inner := string(raw[target.startEnd:target.endStart])
		out.Write(raw[:at])
		out.WriteString(nl + childIndent + fragment)
		if strings.TrimSpace(inner) == "" && !strings.Contains(inner, "\n") {
			out.WriteString(nl + targetIndent)
		}
		out.Write(raw[at:])
	}
	return out.Bytes()
}

// wrap encloses fragment in a <name> container. level is how deep the
// container sits below the insertion point. Continuation lines of fragment
// already carry their final indentation.
func wrap(name, fragment, baseIndent, unit, nl string, level int) string {
	outer := baseIndent + strings.Repeat(unit, level)
	inner := outer + unit
	return "<" + name + ">" + nl + inner + fragment + nl + outer + "</" + name + ">"
}

// serialize renders el as indented XML. Continuation lines are prefixed with
// indent so the fragment lines up once inserted at that indentation.
func serialize(el *etree.Element, indent, unit, nl string) (string, error) {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	if unit == "\t" {
		doc.IndentTabs()
	} else {
		doc.Indent(len(unit))
	}
	s, err := doc.WriteToString()
	if err != nil {
		return "", err
	}
	lines := strings.Split(strings.TrimRight(s, "\r\n"), "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, nl), nil
}

// SavePreserving writes the document back if an edit is pending, keeping
// every byte outside the edited elements.
func (d *Document) SavePreserving() error {
	if !d.dirty {
		return nil
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(d.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(d.path, d.raw, mode); err != nil {
		return fmt.Errorf("writing %s: %w", d.path, err)
	}
	d.dirty = false
	return nil
}

// SavePretty writes a freshly built tree to path with indent spaces per
// level, creating parent directories.
func SavePretty(tree *etree.Document, path string, indent int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	tree.Indent(indent)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	if _, err := tree.WriteTo(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// NewTree returns an empty document carrying the standard XML declaration.
func NewTree() *etree.Document {
	tree := etree.NewDocument()
	tree.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return tree
}

// WriteTo lets a Document be streamed, e.g. for dry runs.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.raw)
	return int64(n), err
}
