package xmldoc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// span records where an element sits in the raw bytes.
type span struct {
	name        string
	start       int // '<' of the start tag
	startEnd    int // just past the start tag's '>'
	endStart    int // '<' of the end tag; equals startEnd when self-closing
	end         int // just past the end tag
	selfClosing bool
	children    []*span
}

func (s *span) child(name string) *span {
	for _, c := range s.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (s *span) lastChild() *span {
	if len(s.children) == 0 {
		return nil
	}
	return s.children[len(s.children)-1]
}

type scanResult struct {
	root *span
}

// scan walks the raw tokens and records the byte span of every element.
// Token boundaries come from the decoder's input offset: every token starts
// where the previous one ended.
func scan(raw []byte) (*scanResult, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Strict = true

	var (
		res   scanResult
		stack []*span
	)
	for {
		before := int(dec.InputOffset())
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		after := int(dec.InputOffset())

		switch t := tok.(type) {
		case xml.StartElement:
			s := &span{name: t.Name.Local, start: before, startEnd: after}
			if len(stack) == 0 {
				if res.root == nil {
					res.root = s
				}
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, s)
			}
			stack = append(stack, s)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errors.New("unbalanced end element </" + t.Name.Local + ">")
			}
			s := stack[len(stack)-1]
			if s.name != t.Name.Local {
				return nil, errors.New("element <" + s.name + "> closed by </" + t.Name.Local + ">")
			}
			stack = stack[:len(stack)-1]
			if before == after {
				s.selfClosing = true
				s.endStart, s.end = s.startEnd, s.startEnd
			} else {
				s.endStart, s.end = before, after
			}
		}
	}
	if len(stack) != 0 {
		return nil, errors.New("unclosed element <" + stack[len(stack)-1].name + ">")
	}
	return &res, nil
}

// lineIndentStrict returns the whitespace between the start of the line and
// offset, and false when anything else precedes offset on that line.
func lineIndentStrict(raw []byte, offset int) (string, bool) {
	lineStart := bytes.LastIndexByte(raw[:offset], '\n') + 1
	prefix := string(raw[lineStart:offset])
	if strings.Trim(prefix, " \t") != "" {
		return "", false
	}
	return prefix, true
}

func lineIndent(raw []byte, offset int) string {
	ind, _ := lineIndentStrict(raw, offset)
	return ind
}

// indentUnit infers one level of indentation from the root's first child,
// defaulting to four spaces.
func indentUnit(raw []byte, root *span) string {
	if root == nil || len(root.children) == 0 {
		return "    "
	}
	rootIndent := lineIndent(raw, root.start)
	childIndent, ok := lineIndentStrict(raw, root.children[0].start)
	if !ok || len(childIndent) <= len(rootIndent) || !strings.HasPrefix(childIndent, rootIndent) {
		return "    "
	}
	return childIndent[len(rootIndent):]
}

func newline(raw []byte) string {
	if bytes.Contains(raw, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}
