// Package render_test contains tests for the render package.
package render_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/bundlewright/internal/core/render"
)

func TestRender_WritesFileAndCreatesParents(t *testing.T) {
	t.Parallel()
	r := render.New()
	target := filepath.Join(t.TempDir(), "src", "org", "acme", "sales", "SalesProcess.java")

	err := r.Render("java/process", map[string]any{
		"Package": "org.acme.sales",
		"Class":   "SalesProcess",
		"Body":    "",
	}, target)
	require.NoError(t, err)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(got), "package org.acme.sales;")
	assert.Contains(t, string(got), "public class SalesProcess extends SvrProcess {")
}

func TestRender_MissingKeyIsRenderError(t *testing.T) {
	t.Parallel()
	r := render.New()
	target := filepath.Join(t.TempDir(), "Broken.java")

	err := r.Render("java/process", map[string]any{"Package": "org.acme.sales"}, target)
	require.Error(t, err)

	var rerr *render.RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "java/process", rerr.Template)
	assert.Equal(t, target, rerr.Target)
	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr), "nothing is written when execution fails")
}

func TestRender_UnknownTemplate(t *testing.T) {
	t.Parallel()

	_, err := render.New().Execute("java/nope", map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, render.ErrUnknownTemplate)
}

func TestRender_UncreatableParent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := render.New().Render("feature/build.properties", map[string]any{}, filepath.Join(blocker, "sub", "build.properties"))
	var rerr *render.RenderError
	require.ErrorAs(t, err, &rerr)
}

func TestCopyResource_IsByteForByte(t *testing.T) {
	t.Parallel()
	target := filepath.Join(t.TempDir(), "web", "zul", "Sales.zul")

	require.NoError(t, render.New().CopyResource("form.zul", target))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(got), "${c:l('Search')}", "markup expressions must survive untouched")
}

func TestManifestTemplate(t *testing.T) {
	t.Parallel()

	out, err := render.New().Execute("plugin/MANIFEST.MF", map[string]any{
		"Name":                 "Sales",
		"PluginID":             "org.acme.sales",
		"Version":              "1.0.0.qualifier",
		"Vendor":               "",
		"FragmentHost":         "",
		"ExecutionEnvironment": "JavaSE-17",
	})
	require.NoError(t, err)
	assert.Equal(t, `Manifest-Version: 1.0
Bundle-ManifestVersion: 2
Bundle-Name: Sales
Bundle-SymbolicName: org.acme.sales;singleton:=true
Bundle-Version: 1.0.0.qualifier
Bundle-RequiredExecutionEnvironment: JavaSE-17
Automatic-Module-Name: org.acme.sales
Bundle-ActivationPolicy: lazy
`, out)
}

func TestComponentTemplate(t *testing.T) {
	t.Parallel()

	out, err := render.New().Execute("osgi/component", map[string]any{
		"DSVersion":      "1.3.0",
		"Name":           "org.acme.sales.SalesCalloutFactory",
		"Implementation": "org.acme.sales.SalesCalloutFactory",
		"Properties":     []render.Property{{Name: "service.ranking", Type: "Integer", Value: "1"}},
		"Services":       []string{"org.adempiere.base.IColumnCalloutFactory"},
		"References":     []render.Reference(nil),
	})
	require.NoError(t, err)
	assert.Contains(t, out, `xmlns:scr="http://www.osgi.org/xmlns/scr/v1.3.0"`)
	assert.Contains(t, out, `<property name="service.ranking" type="Integer" value="1"/>`)
	assert.Contains(t, out, `<provide interface="org.adempiere.base.IColumnCalloutFactory"/>`)
	assert.NotContains(t, out, "<reference")
}

func TestExecute_ComponentWithReferenceOnly(t *testing.T) {
	t.Parallel()

	out, err := render.New().Execute("osgi/component", map[string]any{
		"DSVersion":      "1.4.0",
		"Name":           "org.acme.sales.SalesEventManager",
		"Implementation": "org.acme.sales.SalesEventManager",
		"Properties":     []render.Property(nil),
		"Services":       []string(nil),
		"References": []render.Reference{{
			Name:      "IEventManager",
			Interface: "org.adempiere.base.event.IEventManager",
			Bind:      "bindEventManager",
			Unbind:    "unbindEventManager",
		}},
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "<service>")
	assert.Contains(t, out, `<reference name="IEventManager" interface="org.adempiere.base.event.IEventManager" bind="bindEventManager" unbind="unbindEventManager" cardinality="1..1" policy="static"/>`)
}

func TestNames(t *testing.T) {
	t.Parallel()

	names, err := render.New().Names()
	require.NoError(t, err)
	assert.Contains(t, names, "java/callout")
	assert.Contains(t, names, "resources/form.zul")
}

// referenced lists every template and resource name the generators and the
// project skeleton pass to the renderer.
var referenced = struct {
	templates []string
	resources []string
}{
	templates: []string{
		"feature/build.properties",
		"java/activator",
		"java/callout",
		"java/callout_factory",
		"java/event_delegate",
		"java/event_manager",
		"java/form",
		"java/form_controller",
		"java/model_validator",
		"java/process",
		"java/process_factory",
		"java/report",
		"java/rest_resource",
		"java/test",
		"osgi/component",
		"plugin/MANIFEST.MF",
		"plugin/build.properties",
		"plugin/pom.xml",
	},
	resources: []string{"form.zul", "report.jrxml"},
}

func TestCatalog_ResolvesEveryReferencedName(t *testing.T) {
	t.Parallel()
	r := render.New()

	for _, name := range referenced.templates {
		_, err := r.Execute(name, map[string]any{})
		if err != nil {
			assert.NotErrorIs(t, err, render.ErrUnknownTemplate, "template %s", name)
		}
	}
	for _, name := range referenced.resources {
		target := filepath.Join(t.TempDir(), name)
		assert.NoError(t, r.CopyResource(name, target), "resource %s", name)
	}

	var want []string
	want = append(want, referenced.templates...)
	for _, name := range referenced.resources {
		want = append(want, "resources/"+name)
	}
	names, err := r.Names()
	require.NoError(t, err)
	assert.ElementsMatch(t, want, names, "catalog holds exactly the referenced entries")
}

func TestPascalCase(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Sales", render.PascalCase("sales"))
	assert.Equal(t, "SalesOrder", render.PascalCase("sales_order"))
	assert.Equal(t, "SalesOrder", render.PascalCase("sales-order"))
	assert.Equal(t, "", render.PascalCase(""))
}
