// Package render renders files from the embedded, versioned template catalog.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
)

// CatalogVersion identifies the revision of the embedded template catalog.
// Bump it whenever a template's output changes.
const CatalogVersion = "2"

const (
	catalogRoot  = "catalog"
	templateExt  = ".tmpl"
	resourcesDir = "resources"
)

//go:embed catalog
var catalog embed.FS

// RenderError reports a template that could not be resolved, executed or
// written to its target.
type RenderError struct {
	Template string
	Target   string
	Err      error
}

func (e *RenderError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("render %s: %v", e.Template, e.Err)
	}
	return fmt.Sprintf("render %s -> %s: %v", e.Template, e.Target, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// ErrUnknownTemplate is wrapped when a name is not in the catalog.
var ErrUnknownTemplate = errors.New("template not in catalog")

// Renderer executes catalog templates. The zero value is not usable; call New.
type Renderer struct {
	fsys  fs.FS
	funcs template.FuncMap
}

// New returns a Renderer over the embedded catalog.
func New() *Renderer {
	sub, err := fs.Sub(catalog, catalogRoot)
	if err != nil {
		// The catalog is compiled in; a failure here is a build defect.
		panic(fmt.Sprintf("render: embedded catalog unavailable: %v", err))
	}
	return &Renderer{fsys: sub, funcs: Funcs()}
}

// Funcs is the function map available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"lower":       strings.ToLower,
		"upper":       strings.ToUpper,
		"pascal":      PascalCase,
		"packagePath": func(id string) string { return strings.ReplaceAll(id, ".", "/") },
		"join":        strings.Join,
	}
}

// Execute renders template name against data and returns the text. Every key
// the template references must be present in data.
func (r *Renderer) Execute(name string, data map[string]any) (string, error) {
	body, err := fs.ReadFile(r.fsys, name+templateExt)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &RenderError{Template: name, Err: ErrUnknownTemplate}
		}
		return "", &RenderError{Template: name, Err: err}
	}

	tmpl, err := template.New(name).Funcs(r.funcs).Option("missingkey=error").Parse(string(body))
	if err != nil {
		return "", &RenderError{Template: name, Err: fmt.Errorf("parse: %w", err)}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", &RenderError{Template: name, Err: err}
	}
	return buf.String(), nil
}

// Render executes template name against data and writes the result to target,
// creating parent directories as needed.
func (r *Renderer) Render(name string, data map[string]any, target string) error {
	out, err := r.Execute(name, data)
	if err != nil {
		var rerr *RenderError
		if errors.As(err, &rerr) {
			rerr.Target = target
		}
		return err
	}
	if err := writeFile(target, []byte(out)); err != nil {
		return &RenderError{Template: name, Target: target, Err: err}
	}
	return nil
}

// CopyResource copies a catalog resource to target byte for byte. It is used
// for markup whose own syntax collides with template delimiters, so no
// substitution ever happens.
func (r *Renderer) CopyResource(name, target string) error {
	body, err := fs.ReadFile(r.fsys, path.Join(resourcesDir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = ErrUnknownTemplate
		}
		return &RenderError{Template: name, Target: target, Err: err}
	}
	if err := writeFile(target, body); err != nil {
		return &RenderError{Template: name, Target: target, Err: err}
	}
	return nil
}

// Names lists every template and resource in the catalog, sorted. Resources
// are reported with their "resources/" prefix.
func (r *Renderer) Names() ([]string, error) {
	var names []string
	err := fs.WalkDir(r.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		names = append(names, strings.TrimSuffix(p, templateExt))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing template catalog: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func writeFile(target string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}
	return os.WriteFile(target, content, 0o644)
}

// Property is a service-component property rendered by osgi/component.
type Property struct {
	Name  string
	Type  string
	Value string
}

// Reference is a mandatory static service reference rendered by
// osgi/component.
type Reference struct {
	Name      string
	Interface string
	Bind      string
	Unbind    string
}
