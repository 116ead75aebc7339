package structure

import (
	"fmt"
	"path/filepath"

	"github.com/beevik/etree"

	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/xmldoc"
)

// UnitKind is the element name of an installable unit in category.xml.
type UnitKind string

const (
	FeatureUnit UnitKind = "feature"
	BundleUnit  UnitKind = "bundle"
)

// CategoryUnit is an installable unit tagged with a category.
type CategoryUnit struct {
	Kind     UnitKind
	ID       string
	Category string
}

// CategorySpec describes a fresh category.xml.
type CategorySpec struct {
	Name  string
	Label string
	Units []CategoryUnit
}

func unitElement(u CategoryUnit) *etree.Element {
	el := etree.NewElement(string(u.Kind))
	el.CreateAttr("id", u.ID)
	el.CreateAttr("version", unversioned)
	if u.Category != "" {
		el.CreateElement("category").CreateAttr("name", u.Category)
	}
	return el
}

// NewCategory writes a fresh category.xml into dir.
func NewCategory(dir string, spec CategorySpec) error {
	tree := xmldoc.NewTree()
	site := tree.CreateElement("site")
	for _, u := range spec.Units {
		site.AddChild(unitElement(u))
	}
	def := site.CreateElement("category-def")
	def.CreateAttr("name", spec.Name)
	def.CreateAttr("label", spec.Label)

	path := filepath.Join(dir, CategoryFile)
	if err := xmldoc.SavePretty(tree, path, DescriptorIndent); err != nil {
		return apperr.IO("create category", path, err)
	}
	return nil
}

// RegisterCategoryUnit adds unit to siteDir/category.xml. It returns false
// when a unit of the same kind and id is already listed.
func RegisterCategoryUnit(siteDir string, unit CategoryUnit) (bool, error) {
	if unit.Kind != FeatureUnit && unit.Kind != BundleUnit {
		return false, apperr.Input("register category unit", fmt.Errorf("unsupported unit kind %q", unit.Kind))
	}
	path := filepath.Join(siteDir, CategoryFile)
	doc, err := xmldoc.Load(path)
	if err != nil {
		return false, apperr.IO("register category unit", path, err)
	}
	if len(doc.Find(fmt.Sprintf("/site/%s[@id='%s']", unit.Kind, unit.ID))) > 0 {
		return false, nil
	}
	if err := doc.AppendChild([]string{"site"}, unitElement(unit)); err != nil {
		return false, apperr.IO("register category unit", path, err)
	}
	if err := doc.SavePreserving(); err != nil {
		return false, apperr.IO("register category unit", path, err)
	}
	return true, nil
}
