package xmldoc_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/bundlewright/internal/core/xmldoc"
)

func element(tag, text string, attrs ...string) *etree.Element {
	el := etree.NewElement(tag)
	if text != "" {
		el.SetText(text)
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		el.CreateAttr(attrs[i], attrs[i+1])
	}
	return el
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write fixture")
	return path
}

const pomFixture = `<?xml version="1.0" encoding="UTF-8"?>
<!-- hand maintained, keep   this   spacing -->
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <modelVersion>4.0.0</modelVersion>
  <artifactId>com.acme.parent</artifactId>
  <modules>
    <module>com.acme.core</module>   <!-- core -->
  </modules>

  <properties><tycho.version>4.0.8</tycho.version></properties>
</project>
`

func TestAppendChild_PreservesSurroundingBytes(t *testing.T) {
	t.Parallel()
	path := writeDoc(t, "pom.xml", pomFixture)

	doc, err := xmldoc.Load(path)
	require.NoError(t, err)
	require.NoError(t, doc.AppendChild([]string{"project", "modules"}, element("module", "com.acme.core.feature")))
	assert.True(t, doc.Changed())
	require.NoError(t, doc.SavePreserving())
	assert.False(t, doc.Changed(), "Save should clear the pending flag")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	expected := strings.Replace(pomFixture,
		"<module>com.acme.core</module>",
		"<module>com.acme.core</module>\n    <module>com.acme.core.feature</module>", 1)
	assert.Equal(t, expected, string(got))
}

func TestAppendChild_InsertionIsTheOnlyDifference(t *testing.T) {
	t.Parallel()
	doc, err := xmldoc.Parse("pom.xml", []byte(pomFixture))
	require.NoError(t, err)
	require.NoError(t, doc.AppendChild([]string{"project", "modules"}, element("module", "x")))

	after := string(doc.Bytes())
	before := pomFixture
	prefix := 0
	for prefix < len(before) && before[prefix] == after[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(before)-prefix && before[len(before)-1-suffix] == after[len(after)-1-suffix] {
		suffix++
	}
	inserted := after[prefix : len(after)-suffix]
	assert.Equal(t, len(before), prefix+suffix, "Original bytes must survive intact around the insertion")
	assert.Contains(t, inserted, "<module>x</module>")
	assert.Less(t, strings.Index(pomFixture, "<modules>"), prefix, "Insertion must fall inside <modules>")
}

func TestAppendChild_CreatesMissingContainer(t *testing.T) {
	t.Parallel()
	src := "<project>\n\t<artifactId>p</artifactId>\n</project>\n"
	doc, err := xmldoc.Parse("pom.xml", []byte(src))
	require.NoError(t, err)

	require.NoError(t, doc.AppendChild([]string{"project", "modules"}, element("module", "a")))
	assert.Equal(t,
		"<project>\n\t<artifactId>p</artifactId>\n\t<modules>\n\t\t<module>a</module>\n\t</modules>\n</project>\n",
		string(doc.Bytes()))
	assert.Equal(t, []string{"a"}, doc.Texts("/project/modules/module"))
}

func TestAppendChild_CreatesNestedContainers(t *testing.T) {
	t.Parallel()
	src := "<a>\n  <x/>\n</a>\n"
	doc, err := xmldoc.Parse("a.xml", []byte(src))
	require.NoError(t, err)

	require.NoError(t, doc.AppendChild([]string{"a", "b", "c"}, element("d", "v")))
	assert.Equal(t,
		"<a>\n  <x/>\n  <b>\n    <c>\n      <d>v</d>\n    </c>\n  </b>\n</a>\n",
		string(doc.Bytes()))
}

func TestAppendChild_SelfClosingTarget(t *testing.T) {
	t.Parallel()
	src := "<project>\n  <modules />\n</project>\n"
	doc, err := xmldoc.Parse("pom.xml", []byte(src))
	require.NoError(t, err)

	require.NoError(t, doc.AppendChild([]string{"project", "modules"}, element("module", "m")))
	assert.Equal(t, "<project>\n  <modules>\n    <module>m</module>\n  </modules>\n</project>\n", string(doc.Bytes()))
}

func TestAppendChild_EmptyInlineTarget(t *testing.T) {
	t.Parallel()
	src := "<project>\n  <modules></modules>\n</project>\n"
	doc, err := xmldoc.Parse("pom.xml", []byte(src))
	require.NoError(t, err)

	require.NoError(t, doc.AppendChild([]string{"project", "modules"}, element("module", "m")))
	assert.Equal(t, "<project>\n  <modules>\n    <module>m</module>\n  </modules>\n</project>\n", string(doc.Bytes()))
}

func TestAppendChild_MultiLineFragmentAndCRLF(t *testing.T) {
	t.Parallel()
	src := "<site>\r\n   <category-def name=\"acme\" label=\"Acme\"/>\r\n</site>\r\n"
	doc, err := xmldoc.Parse("category.xml", []byte(src))
	require.NoError(t, err)

	feature := element("feature", "", "id", "com.acme.feature")
	feature.AddChild(element("category", "", "name", "acme"))
	require.NoError(t, doc.AppendChild([]string{"site"}, feature))

	assert.Equal(t,
		"<site>\r\n   <category-def name=\"acme\" label=\"Acme\"/>\r\n   <feature id=\"com.acme.feature\">\r\n      <category name=\"acme\"/>\r\n   </feature>\r\n</site>\r\n",
		string(doc.Bytes()))
	assert.Len(t, doc.Find("/site/feature[@id='com.acme.feature']/category"), 1)
}

func TestAppendChild_WrongRoot(t *testing.T) {
	t.Parallel()
	doc, err := xmldoc.Parse("feature.xml", []byte("<feature/>"))
	require.NoError(t, err)

	err = doc.AppendChild([]string{"project", "modules"}, element("module", "m"))
	require.ErrorIs(t, err, xmldoc.ErrNoRoot)
	assert.False(t, doc.Changed())
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()
	_, err := xmldoc.Parse("bad.xml", []byte("<project><modules></project>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.xml")
}

func TestSavePreserving_NoEditNoWrite(t *testing.T) {
	t.Parallel()
	path := writeDoc(t, "feature.xml", "<feature   id='x'/>")
	doc, err := xmldoc.Load(path)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	require.NoError(t, doc.SavePreserving(), "No pending edit means no write")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "File should not be recreated without an edit")
}

func TestSavePretty(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "feature.xml")
	tree := xmldoc.NewTree()
	root := tree.CreateElement("feature")
	root.CreateAttr("id", "com.acme.feature")
	plugin := root.CreateElement("plugin")
	plugin.CreateAttr("id", "com.acme")

	require.NoError(t, xmldoc.SavePretty(tree, path, 3))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<feature id=\"com.acme.feature\">\n   <plugin id=\"com.acme\"/>\n</feature>\n",
		string(got))
}
