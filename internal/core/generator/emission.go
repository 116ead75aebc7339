package generator

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/component"
	"github.com/nightconcept/bundlewright/internal/core/detector"
	"github.com/nightconcept/bundlewright/internal/core/manifest"
	"github.com/nightconcept/bundlewright/internal/core/project"
	"github.com/nightconcept/bundlewright/internal/core/render"
)

// ComponentDir holds service-component descriptors, relative to the plugin.
const ComponentDir = "OSGI-INF"

// emission is the state of one generator run.
type emission struct {
	mode           mode
	kind           component.Kind
	renderer       *render.Renderer
	index          detector.InfrastructureIndex
	sourceDir      string
	projectRoot    string
	ctx            Context
	platform       project.PlatformSpec
	result         *Result
	activatorClass string // fqcn of an activator created in this run
}

func (e *emission) rel(p string) string {
	if r, err := filepath.Rel(e.projectRoot, p); err == nil && !strings.HasPrefix(r, "..") {
		return filepath.ToSlash(r)
	}
	return p
}

func exists(p string) (bool, error) {
	_, err := os.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// claim reports whether target may be written. Existing files are recorded as
// skipped.
func (e *emission) claim(target string) (bool, error) {
	found, err := exists(target)
	if err != nil {
		return false, apperr.IO("check target", target, err)
	}
	if found {
		e.result.Skipped = append(e.result.Skipped, target)
		e.result.notice(LevelSkip, "skipping existing %s", e.rel(target))
		return false, nil
	}
	return true, nil
}

func (e *emission) created(target string, role Role, in component.Infra) {
	e.result.Created = append(e.result.Created, Artifact{Path: target, Role: role, Infra: in})
}

func (e *emission) data(class string, extra map[string]any) map[string]any {
	data := map[string]any{
		"Package":  e.ctx.PluginID,
		"PluginID": e.ctx.PluginID,
		"Class":    class,
		"Body":     e.ctx.Body,
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// java renders a class into the source directory.
func (e *emission) java(template, class string, role Role, in component.Infra, extra map[string]any) error {
	target := filepath.Join(e.sourceDir, class+detector.SourceExt)
	ok, err := e.claim(target)
	if err != nil || !ok {
		return err
	}
	if err := e.renderer.Render(template, e.data(class, extra), target); err != nil {
		return apperr.IO("render "+template, target, err)
	}
	e.created(target, role, in)
	return nil
}

// resource copies a catalog resource to relTarget (slash separated, relative
// to the plugin) without substitution.
func (e *emission) resource(name, relTarget string) error {
	target := filepath.Join(e.projectRoot, filepath.FromSlash(relTarget))
	ok, err := e.claim(target)
	if err != nil || !ok {
		return err
	}
	if err := e.renderer.CopyResource(name, target); err != nil {
		return apperr.IO("copy "+name, target, err)
	}
	e.created(target, RoleResource, "")
	return nil
}

// serviceComponent describes an OSGI-INF descriptor.
type serviceComponent struct {
	class      string
	services   []string
	properties []render.Property
	references []render.Reference
}

// component renders the service-component descriptor of sc and queues it for
// registration in the manifest. An existing descriptor is still registered.
func (e *emission) component(sc serviceComponent) error {
	fqcn := e.ctx.fqcn(sc.class)
	rel := path.Join(ComponentDir, fqcn+".xml")
	target := filepath.Join(e.projectRoot, filepath.FromSlash(rel))
	e.result.Components = append(e.result.Components, rel)

	ok, err := e.claim(target)
	if err != nil || !ok {
		return err
	}
	err = e.renderer.Render("osgi/component", map[string]any{
		"DSVersion":      e.platform.DSVersion,
		"Name":           fqcn,
		"Implementation": fqcn,
		"Properties":     sc.properties,
		"Services":       sc.services,
		"References":     sc.references,
	}, target)
	if err != nil {
		return apperr.IO("render service component", target, err)
	}
	e.created(target, RoleDescriptor, "")
	return nil
}

// infra creates a piece of shared infrastructure unless someone else provides
// it. Fresh: the earliest enabled sibling needing it owns it. Incremental:
// the index is consulted and an existing artifact is reused.
func (e *emission) infra(in component.Infra, create func() error) error {
	if e.mode == modeFresh {
		if owner := e.ctx.Owner(e.kind, in); owner != e.kind {
			e.result.notice(LevelInfo, "%s provided by %s", in, owner)
			return nil
		}
		return create()
	}

	existing, found, err := e.index.HasInfrastructure(in)
	if err != nil {
		return apperr.IO("detect "+string(in), e.sourceDir, err)
	}
	if found {
		e.result.Reused = append(e.result.Reused, Reuse{Infra: in, Path: existing})
		e.result.notice(LevelReuse, "reusing existing %s %s", in, e.rel(existing))
		return nil
	}
	return create()
}

// mergeManifest adds the headers the emitted artifacts need.
func (e *emission) mergeManifest() error {
	merged, err := manifest.AddRequiredHeaders(e.projectRoot, e.kind)
	if err != nil {
		return apperr.IO("merge manifest", filepath.Join(e.projectRoot, manifest.RelPath), err)
	}
	e.recordMerge(merged)
	if merged.Missing {
		e.result.notice(LevelWarn, "no manifest at %s; required headers not added", e.rel(merged.Path))
		return nil
	}

	if len(e.result.Components) > 0 {
		merged, err := manifest.RegisterComponents(e.projectRoot, e.result.Components...)
		if err != nil {
			return apperr.IO("register service components", filepath.Join(e.projectRoot, manifest.RelPath), err)
		}
		e.recordMerge(merged)
	}
	if e.activatorClass != "" {
		merged, err := manifest.EnsureHeader(e.projectRoot, manifest.BundleActivator, e.activatorClass)
		if err != nil {
			return apperr.IO("set bundle activator", filepath.Join(e.projectRoot, manifest.RelPath), err)
		}
		e.recordMerge(merged)
	}
	return nil
}

func (e *emission) recordMerge(merged *manifest.MergeResult) {
	e.result.Manifest = append(e.result.Manifest, merged)
	for _, header := range []string{manifest.RequireBundle, manifest.ImportPackage, manifest.ServiceComponent, manifest.BundleActivator} {
		if added := merged.Added[header]; len(added) > 0 {
			e.result.notice(LevelInfo, "%s += %s", header, strings.Join(added, ", "))
		}
	}
}
