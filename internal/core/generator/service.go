package generator

import (
	"regexp"
	"strings"

	"github.com/nightconcept/bundlewright/internal/core/component"
	"github.com/nightconcept/bundlewright/internal/core/render"
)

var resourcePathPattern = regexp.MustCompile(`^(/[A-Za-z0-9._~{}-]+)+$|^/$`)

type restKind struct{}

func (restKind) kind() component.Kind { return component.Rest }
func (restKind) suffix() string       { return "Resource" }

func (restKind) emit(e *emission, n names) error {
	p := e.ctx.Param("path", "/"+strings.ToLower(n.Base))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !resourcePathPattern.MatchString(p) {
		return invalidParam("path", p, "expected a resource path such as /orders/{id}")
	}
	if err := e.java("java/rest_resource", n.Class, RoleClass, "", map[string]any{"Path": p}); err != nil {
		return err
	}
	return e.component(serviceComponent{
		class:      n.Class,
		services:   []string{e.ctx.fqcn(n.Class)},
		properties: []render.Property{{Name: "osgi.jaxrs.resource", Type: "Boolean", Value: "true"}},
	})
}

type testKind struct{}

func (testKind) kind() component.Kind { return component.Test }
func (testKind) suffix() string       { return "Test" }

func (testKind) emit(e *emission, n names) error {
	return e.java("java/test", n.Class, RoleClass, "", nil)
}
