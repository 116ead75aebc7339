package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/manifest"
	"github.com/nightconcept/bundlewright/internal/core/project"
	"github.com/nightconcept/bundlewright/internal/core/structure"
)

// ModuleKind is a structural module type.
type ModuleKind string

const (
	ModulePlugin   ModuleKind = "plugin"
	ModuleFragment ModuleKind = "fragment"
	ModuleFeature  ModuleKind = "feature"
)

// ModuleKinds lists the supported module kinds.
func ModuleKinds() []ModuleKind {
	return []ModuleKind{ModulePlugin, ModuleFragment, ModuleFeature}
}

// ParseModuleKind resolves s to a ModuleKind.
func ParseModuleKind(s string) (ModuleKind, error) {
	for _, k := range ModuleKinds() {
		if string(k) == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", apperr.Inputf("validate module kind", "unknown module kind %q (known: plugin, fragment, feature)", s)
}

// ModuleRequest describes a module added to a multi-module project.
type ModuleRequest struct {
	Dir  string // anywhere inside the project
	Kind ModuleKind
	ID   string
	Host string // fragment host; defaults to the base plugin
}

// AddModule adds a plugin, fragment or feature module. The steps run in
// order and the first failure stops the operation:
//
//	locate root -> check collision -> derive context -> generate module ->
//	register in aggregator -> register in feature/category
//
// The first two steps fail with state errors before anything is written.
func (e *Engine) AddModule(req ModuleRequest) (*Outcome, error) {
	if _, err := ParseModuleKind(string(req.Kind)); err != nil {
		return nil, err
	}
	if err := project.ValidatePluginID(req.ID); err != nil {
		return nil, err
	}
	if req.Host != "" {
		if err := project.ValidatePluginID(req.Host); err != nil {
			return nil, err
		}
	}

	// locate root
	agg, ok, err := structure.FindAggregator(req.Dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.State("locate aggregator", absOr(req.Dir), apperr.ErrNoAggregator)
	}

	// check collision
	target := filepath.Join(agg.Dir, req.ID)
	if _, err := os.Stat(target); err == nil {
		return nil, apperr.State(fmt.Sprintf("add %s module %s", req.Kind, req.ID), target, apperr.ErrModuleExists)
	}

	// derive context
	d, err := project.Derive(agg.Dir)
	if err != nil {
		return nil, err
	}
	parent := &parentPom{GroupID: agg.GroupID(), ArtifactID: agg.ArtifactID(), Version: agg.Version()}
	if parent.GroupID == "" {
		parent.GroupID = groupOf(d.ID)
	}
	if parent.Version == "" {
		parent.Version = project.MavenVersion(d.Version)
	}
	e.logger.Debug("adding module", "kind", req.Kind, "id", req.ID, "root", agg.Dir, "base", d.ID, "platform", d.Platform)

	// generate module
	s := e.newSession(agg.Dir)
	s.out.PluginDir, s.out.PluginID = target, req.ID
	spec := d.Platform.Spec()
	switch req.Kind {
	case ModulePlugin, ModuleFragment:
		host := ""
		if req.Kind == ModuleFragment {
			host = req.Host
			if host == "" {
				host = d.ID
			}
		}
		err = s.writePlugin(pluginSkeleton{
			Dir: target, ID: req.ID, Name: project.NameOf(req.ID), Version: d.Version, Vendor: d.Vendor,
			Host: host, Platform: spec, Parent: parent, Kind: string(req.Kind), Role: roleModule,
		})
	case ModuleFeature:
		var plugins []structure.FeaturePlugin
		if d.ManifestFound {
			plugins = append(plugins, structure.FeaturePlugin{ID: d.ID})
		}
		err = s.writeFeature(target, structure.FeatureSpec{
			ID: req.ID, Label: project.NameOf(req.ID), Version: d.Version, Vendor: d.Vendor, Plugins: plugins,
		}, spec, parent, string(req.Kind))
	}
	if err != nil {
		return s.out, err
	}

	// register in aggregator
	added, err := agg.Register(req.ID)
	if err != nil {
		return s.out, err
	}
	if added {
		s.registered(agg.Path(), "module "+req.ID)
	}

	// register in feature/category descriptors if present
	switch req.Kind {
	case ModulePlugin, ModuleFragment:
		if d.HasFeature {
			added, err := structure.RegisterFeaturePlugin(d.FeatureDir(), req.ID, req.Kind == ModuleFragment)
			if err != nil {
				return s.out, err
			}
			if added {
				s.registered(filepath.Join(d.FeatureDir(), structure.FeatureFile), "plugin "+req.ID)
			}
		}
	case ModuleFeature:
		if d.HasSite {
			unit := structure.CategoryUnit{Kind: structure.FeatureUnit, ID: req.ID, Category: d.ID}
			added, err := structure.RegisterCategoryUnit(d.SiteDir(), unit)
			if err != nil {
				return s.out, err
			}
			if added {
				s.registered(filepath.Join(d.SiteDir(), structure.CategoryFile), "feature "+req.ID)
			}
		}
	}

	if req.Kind == ModuleFeature && !d.ManifestFound {
		s.e.reporter.Warn("base plugin %s has no %s; feature %s lists no plugins", d.ID, manifest.RelPath, req.ID)
	}
	out := s.finish()
	e.reporter.Done("added %s module %s to %s", req.Kind, req.ID, agg.Dir)
	return out, nil
}

func absOr(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}
