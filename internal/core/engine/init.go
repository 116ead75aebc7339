package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/component"
	"github.com/nightconcept/bundlewright/internal/core/generator"
	"github.com/nightconcept/bundlewright/internal/core/manifest"
	"github.com/nightconcept/bundlewright/internal/core/project"
	"github.com/nightconcept/bundlewright/internal/core/render"
	"github.com/nightconcept/bundlewright/internal/core/structure"
)

// InitRequest describes a fresh scaffold.
type InitRequest struct {
	Dir      string // target directory; becomes the project root
	PluginID string
	Version  string // bundle version; defaults to 1.0.0.qualifier
	Vendor   string
	Platform project.Platform // defaults to the newest platform
	Features []component.Kind
	Prompt   string
	Params   map[string]string

	MultiModule bool
	Feature     bool // distribution feature and p2 site; multi-module only
	UI          bool // UI extension module; multi-module only
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (r *InitRequest) validate() error {
	if err := project.ValidatePluginID(r.PluginID); err != nil {
		return err
	}
	if r.Version == "" {
		r.Version = project.DefaultVersion
	}
	if err := project.ValidateVersion(r.Version); err != nil {
		return err
	}
	if r.Platform == "" {
		r.Platform = project.DefaultPlatform
	}
	platform, err := project.ParsePlatform(string(r.Platform))
	if err != nil {
		return apperr.Input("validate platform", err)
	}
	r.Platform = platform
	if (r.Feature || r.UI) && !r.MultiModule {
		return apperr.Inputf("validate layout", "feature and UI modules need a multi-module layout")
	}

	// unique, canonical order
	seen := make(map[component.Kind]bool)
	for _, k := range r.Features {
		if k.Rank() < 0 {
			return apperr.Input("validate features", fmt.Errorf("%w: %q", apperr.ErrUnknownKind, k))
		}
		seen[k] = true
	}
	features := make([]component.Kind, 0, len(seen))
	for _, k := range component.All() {
		if seen[k] {
			features = append(features, k)
		}
	}
	r.Features = features
	return nil
}

// Init scaffolds a new plugin project in req.Dir: the plugin skeleton, the
// requested components in canonical order, and for multi-module layouts the
// aggregator with its feature, site and UI modules.
func (e *Engine) Init(req InitRequest) (*Outcome, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	root, err := filepath.Abs(req.Dir)
	if err != nil {
		return nil, apperr.IO("resolve target", req.Dir, err)
	}

	d := &project.Descriptor{
		ID:          req.PluginID,
		Version:     req.Version,
		Vendor:      req.Vendor,
		Platform:    req.Platform,
		Features:    req.Features,
		MultiModule: req.MultiModule,
		Root:        root,
		PluginDir:   root,
	}
	if d.MultiModule {
		d.PluginDir = filepath.Join(root, d.ID)
		d.HasFeature = req.Feature
		d.HasSite = req.Feature
		d.HasUIExtension = req.UI
	}
	if err := refuseExisting(d); err != nil {
		return nil, err
	}

	e.logger.Info("scaffolding plugin", "id", d.ID, "platform", d.Platform, "multi_module", d.MultiModule, "features", d.Features)
	s := e.newSession(root)
	s.out.PluginDir, s.out.PluginID = d.PluginDir, d.ID
	spec := d.Platform.Spec()

	var parent *parentPom
	if d.MultiModule {
		parent = &parentPom{GroupID: groupOf(d.ID), ArtifactID: d.ID + structure.ParentSuffix, Version: project.MavenVersion(d.Version)}
	}
	err = s.writePlugin(pluginSkeleton{
		Dir: d.PluginDir, ID: d.ID, Name: d.BaseName(), Version: d.Version, Vendor: d.Vendor,
		Platform: spec, Parent: parent, Kind: "plugin", Role: roleSkeleton,
	})
	if err != nil {
		return s.out, err
	}

	ctx := generator.NewContext(d.ID, d.BaseName(), d.Platform).WithSiblings(d.Features)
	ctx.Prompt = req.Prompt
	for k, v := range req.Params {
		ctx = ctx.WithParam(k, v)
	}
	for _, kind := range d.Features {
		if err := s.generate(kind, true, d.SourceDir(), d.PluginDir, ctx); err != nil {
			return s.out, err
		}
	}

	if d.MultiModule {
		if err := s.scaffoldModules(d, parent); err != nil {
			return s.out, err
		}
	}
	out := s.finish()
	e.reporter.Done("scaffolded %s (%s) in %s", d.ID, d.Platform, root)
	return out, nil
}

// refuseExisting rejects targets that already hold a project.
func refuseExisting(d *project.Descriptor) error {
	if manifest.Exists(d.PluginDir) {
		return apperr.State("init", filepath.Join(d.PluginDir, manifest.RelPath), apperr.ErrProjectExists)
	}
	if d.MultiModule {
		pom := filepath.Join(d.Root, structure.PomFile)
		if _, err := os.Stat(pom); err == nil {
			return apperr.State("init", pom, apperr.ErrProjectExists)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return apperr.IO("init", pom, err)
		}
	}
	return nil
}

// scaffoldModules is the single structural pass of a multi-module scaffold.
func (s *session) scaffoldModules(d *project.Descriptor, parent *parentPom) error {
	spec := d.Platform.Spec()
	modules := []string{d.ID}
	plugins := []structure.FeaturePlugin{{ID: d.ID}}

	if d.HasUIExtension {
		uiID := d.ID + structure.UISuffix
		modules = append(modules, uiID)
		plugins = append(plugins, structure.FeaturePlugin{ID: uiID})
		err := s.writePlugin(pluginSkeleton{
			Dir: d.UIDir(), ID: uiID, Name: d.BaseName() + " UI", Version: d.Version, Vendor: d.Vendor,
			Platform: spec, Parent: parent, Kind: "ui", Role: roleModule,
		})
		if err != nil {
			return err
		}
	}
	if d.HasFeature {
		featureID := d.ID + structure.FeatureSuffix
		siteID := d.ID + structure.SiteSuffix
		modules = append(modules, featureID, siteID)
		err := s.writeFeature(d.FeatureDir(), structure.FeatureSpec{
			ID: featureID, Label: d.BaseName(), Version: d.Version, Vendor: d.Vendor, Plugins: plugins,
		}, spec, parent, "feature")
		if err != nil {
			return err
		}
		err = s.writeSite(d.SiteDir(), siteID, structure.CategorySpec{
			Name:  d.ID,
			Label: d.BaseName(),
			Units: []structure.CategoryUnit{{Kind: structure.FeatureUnit, ID: featureID, Category: d.ID}},
		}, d.Version, spec, parent, "site")
		if err != nil {
			return err
		}
	}

	pom := filepath.Join(d.Root, structure.PomFile)
	err := structure.NewAggregator(d.Root, structure.AggregatorSpec{
		GroupID:      parent.GroupID,
		ArtifactID:   parent.ArtifactID,
		Version:      parent.Version,
		TychoVersion: spec.TychoVersion,
		JavaVersion:  spec.JavaVersion,
		Modules:      modules,
	})
	if err != nil {
		return err
	}
	s.created(pom, "aggregator", roleModule)
	s.e.logger.Debug("aggregator written", "path", pom, "modules", modules, "catalog", render.CatalogVersion)
	return nil
}
