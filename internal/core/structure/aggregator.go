// Package structure maintains the multi-module descriptors of a plugin tree:
// the aggregator pom.xml, the feature.xml of the distribution feature and the
// category.xml of the p2 site.
//
// Registration is idempotent and additive. Existing documents are edited in
// place with xmldoc.Document.SavePreserving; fresh ones are written with
// xmldoc.SavePretty.
package structure

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beevik/etree"

	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/xmldoc"
)

// Descriptor file names.
const (
	PomFile      = "pom.xml"
	FeatureFile  = "feature.xml"
	CategoryFile = "category.xml"
)

// Sibling module suffixes appended to the base plugin id.
const (
	FeatureSuffix = ".feature"
	SiteSuffix    = ".p2"
	UISuffix      = ".ui"
	ParentSuffix  = ".parent"
)

// PomIndent is the indentation of freshly written poms.
const PomIndent = 4

var modulesPath = []string{"project", "modules"}

// Aggregator is a pom.xml declaring a <modules> section.
type Aggregator struct {
	Dir string
	doc *xmldoc.Document
}

// LoadAggregator loads dir/pom.xml. ok is false when the file is missing or
// has no <modules> section. A pom that cannot be parsed is an I/O error.
func LoadAggregator(dir string) (*Aggregator, bool, error) {
	path := filepath.Join(dir, PomFile)
	doc, err := xmldoc.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperr.IO("load aggregator", path, err)
	}
	if len(doc.Find("/project/modules")) == 0 {
		return nil, false, nil
	}
	return &Aggregator{Dir: dir, doc: doc}, true, nil
}

// FindAggregator searches start and its ancestors for an aggregator pom, then
// the direct children of start in name order.
func FindAggregator(start string) (*Aggregator, bool, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return nil, false, apperr.IO("locate aggregator", start, err)
	}
	for dir := abs; ; {
		agg, ok, err := LoadAggregator(dir)
		if err != nil || ok {
			return agg, ok, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, apperr.IO("locate aggregator", abs, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		agg, ok, err := LoadAggregator(filepath.Join(abs, e.Name()))
		if err != nil || ok {
			return agg, ok, err
		}
	}
	return nil, false, nil
}

// Path returns the pom location.
func (a *Aggregator) Path() string { return a.doc.Path() }

// Modules lists the <module> entries in document order.
func (a *Aggregator) Modules() []string {
	return a.doc.Texts("/project/modules/module")
}

// HasModule reports whether name is already listed.
func (a *Aggregator) HasModule(name string) bool {
	for _, m := range a.Modules() {
		if m == name {
			return true
		}
	}
	return false
}

func (a *Aggregator) text(path string) string {
	if el := a.doc.Root().FindElement(path); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}

// ArtifactID returns /project/artifactId.
func (a *Aggregator) ArtifactID() string { return a.text("./artifactId") }

// GroupID returns /project/groupId, falling back to the parent's.
func (a *Aggregator) GroupID() string {
	if g := a.text("./groupId"); g != "" {
		return g
	}
	return a.text("./parent/groupId")
}

// Version returns the Maven version of the aggregator.
func (a *Aggregator) Version() string {
	if v := a.text("./version"); v != "" {
		return v
	}
	return a.text("./parent/version")
}

// Property returns a <properties> entry, or "".
func (a *Aggregator) Property(name string) string {
	return a.text("./properties/" + name)
}

// BaseID is the plugin id the aggregator was generated for: its artifactId
// without the parent suffix.
func (a *Aggregator) BaseID() string {
	return strings.TrimSuffix(a.ArtifactID(), ParentSuffix)
}

// RegisterModule adds name to the <modules> of the aggregator in rootDir. It
// returns false when the module is already listed.
func RegisterModule(rootDir, name string) (bool, error) {
	agg, ok, err := LoadAggregator(rootDir)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, apperr.State("register module", filepath.Join(rootDir, PomFile), apperr.ErrNoAggregator)
	}
	return agg.Register(name)
}

// Register adds name to the aggregator's <modules> and saves the pom
// preserving its formatting.
func (a *Aggregator) Register(name string) (bool, error) {
	if a.HasModule(name) {
		return false, nil
	}
	module := etree.NewElement("module")
	module.SetText(name)
	if err := a.doc.AppendChild(modulesPath, module); err != nil {
		return false, apperr.IO("register module", a.Path(), err)
	}
	if err := a.doc.SavePreserving(); err != nil {
		return false, apperr.IO("register module", a.Path(), err)
	}
	return true, nil
}

// AggregatorSpec describes a fresh aggregator pom.
type AggregatorSpec struct {
	GroupID      string
	ArtifactID   string
	Version      string // Maven form, e.g. 1.0.0-SNAPSHOT
	TychoVersion string
	JavaVersion  string
	Modules      []string
}

// NewAggregator writes a fresh aggregator pom into dir.
func NewAggregator(dir string, spec AggregatorSpec) error {
	tree := xmldoc.NewTree()
	project := tree.CreateElement("project")
	project.CreateAttr("xmlns", "http://maven.apache.org/POM/4.0.0")
	project.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")
	project.CreateAttr("xsi:schemaLocation", "http://maven.apache.org/POM/4.0.0 http://maven.apache.org/xsd/maven-4.0.0.xsd")
	project.CreateElement("modelVersion").SetText("4.0.0")
	project.CreateElement("groupId").SetText(spec.GroupID)
	project.CreateElement("artifactId").SetText(spec.ArtifactID)
	project.CreateElement("version").SetText(spec.Version)
	project.CreateElement("packaging").SetText("pom")

	props := project.CreateElement("properties")
	props.CreateElement("tycho.version").SetText(spec.TychoVersion)
	props.CreateElement("maven.compiler.release").SetText(spec.JavaVersion)
	props.CreateElement("project.build.sourceEncoding").SetText("UTF-8")

	modules := project.CreateElement("modules")
	for _, m := range spec.Modules {
		modules.CreateElement("module").SetText(m)
	}

	plugins := project.CreateElement("build").CreateElement("plugins")
	tycho := plugins.CreateElement("plugin")
	tycho.CreateElement("groupId").SetText("org.eclipse.tycho")
	tycho.CreateElement("artifactId").SetText("tycho-maven-plugin")
	tycho.CreateElement("version").SetText("${tycho.version}")
	tycho.CreateElement("extensions").SetText("true")

	target := plugins.CreateElement("plugin")
	target.CreateElement("groupId").SetText("org.eclipse.tycho")
	target.CreateElement("artifactId").SetText("target-platform-configuration")
	target.CreateElement("version").SetText("${tycho.version}")
	env := target.CreateElement("configuration").CreateElement("environments").CreateElement("environment")
	env.CreateElement("os").SetText("linux")
	env.CreateElement("ws").SetText("gtk")
	env.CreateElement("arch").SetText("x86_64")

	path := filepath.Join(dir, PomFile)
	if err := xmldoc.SavePretty(tree, path, PomIndent); err != nil {
		return apperr.IO("create aggregator", path, err)
	}
	return nil
}
