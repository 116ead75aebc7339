package engine

import (
	"fmt"
	"path/filepath"

	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/component"
	"github.com/nightconcept/bundlewright/internal/core/generator"
	"github.com/nightconcept/bundlewright/internal/core/manifest"
	"github.com/nightconcept/bundlewright/internal/core/project"
)

// AddRequest describes one component added to an existing plugin.
type AddRequest struct {
	Dir    string // anywhere inside the project
	Kind   component.Kind
	Name   string // class base name, e.g. OrderCallout
	Prompt string
	Params map[string]string
}

// AddComponent adds a component of req.Kind named req.Name to the plugin
// containing req.Dir, reusing shared infrastructure already present.
func (e *Engine) AddComponent(req AddRequest) (*Outcome, error) {
	if _, err := e.registry.Lookup(req.Kind); err != nil {
		return nil, err
	}
	if err := project.ValidateClassName(req.Name); err != nil {
		return nil, err
	}

	d, err := project.Derive(req.Dir)
	if err != nil {
		return nil, err
	}
	if !d.ManifestFound {
		return nil, apperr.State("locate plugin", d.PluginDir, apperr.ErrNoManifest)
	}
	// Without Bundle-SymbolicName the id falls back to the directory name,
	// which need not be a dotted id.
	if project.ValidatePluginID(d.ID) != nil {
		return nil, apperr.State("derive plugin id", filepath.Join(d.PluginDir, manifest.RelPath),
			fmt.Errorf("%w: %q", apperr.ErrNoIdentity, d.ID))
	}
	e.logger.Debug("derived project", "id", d.ID, "platform", d.Platform, "root", d.Root, "plugin", d.PluginDir)

	ctx := generator.NewContext(d.ID, req.Name, d.Platform)
	ctx.Prompt = req.Prompt
	for k, v := range req.Params {
		ctx = ctx.WithParam(k, v)
	}

	s := e.newSession(d.Root)
	s.out.PluginDir, s.out.PluginID = d.PluginDir, d.ID
	if err := s.generate(req.Kind, false, d.SourceDir(), d.PluginDir, ctx); err != nil {
		return s.out, err
	}
	out := s.finish()
	e.reporter.Done("added %s %s to %s", req.Kind, req.Name, d.ID)
	return out, nil
}
