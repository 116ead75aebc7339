package generator

import (
	"strings"

	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/component"
	"github.com/nightconcept/bundlewright/internal/core/project"
	"github.com/nightconcept/bundlewright/internal/core/render"
)

// Context carries the inputs of one generation. It is a value: generators
// receive a copy and cannot affect the caller's.
type Context struct {
	PluginID string
	BaseName string // target class or resource base name

	Prompt   string
	Params   map[string]string
	Platform project.Platform
	Body     string // primary class body; empty selects the catalog default

	siblings map[component.Kind]bool
}

// NewContext returns a Context for pluginID and baseName.
func NewContext(pluginID, baseName string, platform project.Platform) Context {
	return Context{PluginID: pluginID, BaseName: baseName, Platform: platform}
}

// Validate checks the required keys.
func (c Context) Validate() error {
	if err := project.ValidatePluginID(c.PluginID); err != nil {
		return err
	}
	return project.ValidateClassName(c.BaseName)
}

// WithParam returns a copy of c with key set.
func (c Context) WithParam(key, value string) Context {
	params := make(map[string]string, len(c.Params)+1)
	for k, v := range c.Params {
		params[k] = v
	}
	params[key] = value
	c.Params = params
	return c
}

// Param returns the parameter key, or def when unset or blank.
func (c Context) Param(key, def string) string {
	if v := strings.TrimSpace(c.Params[key]); v != "" {
		return v
	}
	return def
}

// WithSiblings returns a copy of c recording the kinds enabled in the same
// fresh scaffold.
func (c Context) WithSiblings(kinds []component.Kind) Context {
	siblings := make(map[component.Kind]bool, len(kinds))
	for _, k := range kinds {
		siblings[k] = true
	}
	c.siblings = siblings
	return c
}

// SiblingEnabled reports whether kind is part of the same fresh scaffold.
func (c Context) SiblingEnabled(kind component.Kind) bool {
	return c.siblings[kind]
}

// Owner returns the kind that creates in during a fresh scaffold: the
// earliest enabled sibling needing it, or kind itself.
func (c Context) Owner(kind component.Kind, in component.Infra) component.Kind {
	for _, sibling := range component.All() {
		if sibling.Rank() >= kind.Rank() {
			break
		}
		if c.siblings[sibling] && sibling.Needs(in) {
			return sibling
		}
	}
	return kind
}

// PluginBase is the PascalCase short name of the plugin, the prefix of every
// infrastructure class.
func (c Context) PluginBase() string {
	short := c.PluginID
	if i := strings.LastIndex(short, "."); i >= 0 {
		short = short[i+1:]
	}
	return render.PascalCase(short)
}

func (c Context) fqcn(class string) string {
	return c.PluginID + "." + class
}

func invalidParam(key, value, want string) error {
	return apperr.Inputf("validate "+key, "%q is not a valid %s: %s", value, key, want)
}
