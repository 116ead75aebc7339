package structure

import (
	"path/filepath"

	"github.com/beevik/etree"

	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/xmldoc"
)

// DescriptorIndent matches the three-space indentation of Eclipse PDE files.
const DescriptorIndent = 3

// unversioned lets Tycho substitute the built version.
const unversioned = "0.0.0"

// FeaturePlugin is one <plugin> entry of a feature.xml.
type FeaturePlugin struct {
	ID       string
	Fragment bool
}

// FeatureSpec describes a fresh feature.xml.
type FeatureSpec struct {
	ID      string
	Label   string
	Version string // OSGi form, e.g. 1.0.0.qualifier
	Vendor  string
	Plugins []FeaturePlugin
}

// NewFeature writes a fresh feature.xml into dir.
func NewFeature(dir string, spec FeatureSpec) error {
	tree := xmldoc.NewTree()
	feature := tree.CreateElement("feature")
	feature.CreateAttr("id", spec.ID)
	feature.CreateAttr("label", spec.Label)
	feature.CreateAttr("version", spec.Version)
	if spec.Vendor != "" {
		feature.CreateAttr("provider-name", spec.Vendor)
	}
	for _, p := range spec.Plugins {
		feature.AddChild(pluginElement(p.ID, p.Fragment))
	}

	path := filepath.Join(dir, FeatureFile)
	if err := xmldoc.SavePretty(tree, path, DescriptorIndent); err != nil {
		return apperr.IO("create feature", path, err)
	}
	return nil
}

func pluginElement(id string, fragment bool) *etree.Element {
	el := etree.NewElement("plugin")
	el.CreateAttr("id", id)
	el.CreateAttr("version", unversioned)
	if fragment {
		el.CreateAttr("fragment", "true")
	}
	el.CreateAttr("unpack", "false")
	return el
}

// FeaturePlugins lists the plugin ids a feature.xml includes.
func FeaturePlugins(featureDir string) ([]string, error) {
	path := filepath.Join(featureDir, FeatureFile)
	doc, err := xmldoc.Load(path)
	if err != nil {
		return nil, apperr.IO("read feature", path, err)
	}
	var ids []string
	for _, el := range doc.Find("/feature/plugin") {
		ids = append(ids, el.SelectAttrValue("id", ""))
	}
	return ids, nil
}

// RegisterFeaturePlugin adds a <plugin> entry for id to featureDir/feature.xml.
// It returns false when the plugin is already included.
func RegisterFeaturePlugin(featureDir, id string, fragment bool) (bool, error) {
	path := filepath.Join(featureDir, FeatureFile)
	doc, err := xmldoc.Load(path)
	if err != nil {
		return false, apperr.IO("register feature plugin", path, err)
	}
	if len(doc.Find("/feature/plugin[@id='"+id+"']")) > 0 {
		return false, nil
	}
	if err := doc.AppendChild([]string{"feature"}, pluginElement(id, fragment)); err != nil {
		return false, apperr.IO("register feature plugin", path, err)
	}
	if err := doc.SavePreserving(); err != nil {
		return false, apperr.IO("register feature plugin", path, err)
	}
	return true, nil
}
