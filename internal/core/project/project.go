// Package project derives the descriptor of a plugin project from what is on
// disk: the bundle manifest, the aggregator pom and the sibling modules.
// Nothing here is persisted; every invocation re-derives it.
package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/component"
	"github.com/nightconcept/bundlewright/internal/core/manifest"
	"github.com/nightconcept/bundlewright/internal/core/render"
	"github.com/nightconcept/bundlewright/internal/core/structure"
	"github.com/nightconcept/bundlewright/internal/core/xmldoc"
)

// DefaultVersion is the bundle version of a fresh plugin.
const DefaultVersion = "1.0.0.qualifier"

// Descriptor describes one plugin project.
type Descriptor struct {
	ID           string // bundle symbolic name, e.g. org.acme.sales
	Version      string
	Vendor       string
	FragmentHost string
	Platform     Platform

	// Features are the component kinds requested for a fresh scaffold.
	Features []component.Kind

	MultiModule    bool
	HasUIExtension bool
	HasFeature     bool
	HasSite        bool

	Root          string // aggregator dir, or the plugin dir for single-module projects
	PluginDir     string
	ManifestFound bool
}

// ShortName is the last dotted segment of the plugin id.
func (d *Descriptor) ShortName() string {
	if i := strings.LastIndex(d.ID, "."); i >= 0 {
		return d.ID[i+1:]
	}
	return d.ID
}

// BaseName is the PascalCase short name used to name generated classes.
func (d *Descriptor) BaseName() string {
	return render.PascalCase(d.ShortName())
}

// NameOf is the PascalCase short name of any dotted id.
func NameOf(id string) string {
	return (&Descriptor{ID: id}).BaseName()
}

// Enabled reports whether kind was requested for the scaffold.
func (d *Descriptor) Enabled(kind component.Kind) bool {
	for _, k := range d.Features {
		if k == kind {
			return true
		}
	}
	return false
}

// SourceDir is the Java package directory of the plugin id under src/.
func (d *Descriptor) SourceDir() string {
	return SourceDir(d.PluginDir, d.ID)
}

// SourceDir returns pluginDir/src/<id as path>.
func SourceDir(pluginDir, id string) string {
	return filepath.Join(append([]string{pluginDir, "src"}, strings.Split(id, ".")...)...)
}

// FeatureDir is the distribution feature module.
func (d *Descriptor) FeatureDir() string { return filepath.Join(d.Root, d.ID+structure.FeatureSuffix) }

// SiteDir is the p2 category site module.
func (d *Descriptor) SiteDir() string { return filepath.Join(d.Root, d.ID+structure.SiteSuffix) }

// UIDir is the UI extension module.
func (d *Descriptor) UIDir() string { return filepath.Join(d.Root, d.ID+structure.UISuffix) }

// Derive inspects root and returns the descriptor of the project it belongs
// to. A missing manifest is not an error: ManifestFound is false and callers
// decide whether they can proceed. Descriptors that exist but cannot be
// parsed are I/O errors.
func Derive(root string) (*Descriptor, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, apperr.IO("derive project", root, err)
	}

	agg, multi, err := structure.FindAggregator(abs)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{Root: abs, PluginDir: abs, MultiModule: multi}
	if multi {
		d.Root = agg.Dir
		d.PluginDir = pluginDir(abs, agg)
	} else if dir, ok := enclosingPlugin(abs); ok {
		d.Root, d.PluginDir = dir, dir
	}

	headers, found, err := manifest.Load(d.PluginDir)
	if err != nil {
		return nil, apperr.IO("derive project", filepath.Join(d.PluginDir, manifest.RelPath), err)
	}
	d.ManifestFound = found
	d.ID = headers.SymbolicName()
	if d.ID == "" {
		d.ID = filepath.Base(d.PluginDir)
	}
	d.Version = headers.Get(manifest.Version)
	if d.Version == "" {
		d.Version = DefaultVersion
	}
	d.Vendor = headers.Get(manifest.Vendor)
	d.FragmentHost = headers.Get(manifest.FragmentHost)

	d.Platform, err = derivePlatform(agg, d.PluginDir)
	if err != nil {
		return nil, err
	}

	if multi {
		d.HasUIExtension = isDir(d.UIDir())
		d.HasFeature = isFile(filepath.Join(d.FeatureDir(), structure.FeatureFile))
		d.HasSite = isFile(filepath.Join(d.SiteDir(), structure.CategoryFile))
	}
	return d, nil
}

// pluginDir picks the plugin module of a multi-module tree. Inside a module
// the enclosing module with a manifest wins; otherwise the module named after
// the aggregator's base id, then the first listed module with a manifest.
func pluginDir(start string, agg *structure.Aggregator) string {
	inside := strings.HasPrefix(start, agg.Dir+string(filepath.Separator))
	if inside {
		for dir := start; dir != agg.Dir; dir = filepath.Dir(dir) {
			if manifest.Exists(dir) {
				return dir
			}
		}
	}
	if base := agg.BaseID(); base != "" && manifest.Exists(filepath.Join(agg.Dir, base)) {
		return filepath.Join(agg.Dir, base)
	}
	for _, m := range agg.Modules() {
		if manifest.Exists(filepath.Join(agg.Dir, m)) {
			return filepath.Join(agg.Dir, m)
		}
	}
	if inside {
		return start
	}
	return agg.Dir
}

// enclosingPlugin walks up from start to the nearest directory holding a
// manifest.
func enclosingPlugin(start string) (string, bool) {
	for dir := start; ; dir = filepath.Dir(dir) {
		if manifest.Exists(dir) {
			return dir, true
		}
		if filepath.Dir(dir) == dir {
			return "", false
		}
	}
}

// derivePlatform reads tycho.version from the aggregator, then the plugin's
// own pom, falling back to the default platform.
func derivePlatform(agg *structure.Aggregator, pluginDir string) (Platform, error) {
	if agg != nil {
		if p, ok := PlatformForTycho(agg.Property("tycho.version")); ok {
			return p, nil
		}
	}
	pomPath := filepath.Join(pluginDir, structure.PomFile)
	if isFile(pomPath) {
		doc, err := xmldoc.Load(pomPath)
		if err != nil {
			return "", apperr.IO("derive platform", pomPath, err)
		}
		for _, v := range doc.Texts("/project/properties/tycho.version") {
			if p, ok := PlatformForTycho(v); ok {
				return p, nil
			}
		}
	}
	return DefaultPlatform, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
