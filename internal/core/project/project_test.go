// Package project_test contains tests for the project package.
package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/component"
	"github.com/nightconcept/bundlewright/internal/core/project"
)

const salesManifest = `Manifest-Version: 1.0
Bundle-ManifestVersion: 2
Bundle-SymbolicName: org.acme.sales;singleton:=true
Bundle-Version: 2.1.0.qualifier
Bundle-Vendor: Acme
`

const aggregatorPom = `<project>
  <artifactId>org.acme.sales.parent</artifactId>
  <properties>
    <tycho.version>2.7.5</tycho.version>
  </properties>
  <modules>
    <module>org.acme.sales</module>
    <module>org.acme.sales.feature</module>
  </modules>
</project>
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write %s", path)
}

func TestDescriptorNames(t *testing.T) {
	t.Parallel()
	d := &project.Descriptor{ID: "org.acme.sales_order", PluginDir: "/w/p"}

	assert.Equal(t, "sales_order", d.ShortName())
	assert.Equal(t, "SalesOrder", d.BaseName())
	assert.Equal(t, filepath.Join("/w/p", "src", "org", "acme", "sales_order"), d.SourceDir())

	d.Features = []component.Kind{component.Process}
	assert.True(t, d.Enabled(component.Process))
	assert.False(t, d.Enabled(component.Callout))
}

func TestDerive_SingleModule(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "checkout")
	writeFile(t, filepath.Join(dir, "META-INF", "MANIFEST.MF"), salesManifest)

	d, err := project.Derive(dir)
	require.NoError(t, err)
	assert.True(t, d.ManifestFound)
	assert.Equal(t, "org.acme.sales", d.ID, "Attributes after ; must be stripped")
	assert.Equal(t, "2.1.0.qualifier", d.Version)
	assert.Equal(t, "Acme", d.Vendor)
	assert.Equal(t, project.V12, d.Platform, "Newest platform is the fallback")
	assert.False(t, d.MultiModule)
	assert.Equal(t, dir, d.Root)
	assert.Equal(t, dir, d.PluginDir)
}

func TestDerive_FromInsidePlugin(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "META-INF", "MANIFEST.MF"), salesManifest)
	src := filepath.Join(dir, "src", "org", "acme")
	require.NoError(t, os.MkdirAll(src, 0o755))

	d, err := project.Derive(src)
	require.NoError(t, err)
	assert.True(t, d.ManifestFound)
	assert.Equal(t, dir, d.PluginDir)
	assert.Equal(t, dir, d.Root)
}

func TestDerive_PlatformFromPluginPom(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "META-INF", "MANIFEST.MF"), salesManifest)
	writeFile(t, filepath.Join(dir, "pom.xml"), "<project><properties><tycho.version>2.7.5</tycho.version></properties></project>")

	d, err := project.Derive(dir)
	require.NoError(t, err)
	assert.Equal(t, project.V11, d.Platform)
}

func TestDerive_NoManifest(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "org.acme.empty")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	d, err := project.Derive(dir)
	require.NoError(t, err, "A missing manifest is reported through the descriptor")
	assert.False(t, d.ManifestFound)
	assert.Equal(t, "org.acme.empty", d.ID, "Directory name is the fallback id")
	assert.Equal(t, project.DefaultVersion, d.Version)
}

func TestDerive_MultiModule(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pom.xml"), aggregatorPom)
	writeFile(t, filepath.Join(root, "org.acme.sales", "META-INF", "MANIFEST.MF"), salesManifest)
	writeFile(t, filepath.Join(root, "org.acme.sales.feature", "feature.xml"), `<feature id="org.acme.sales.feature"/>`)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "org.acme.sales.ui"), 0o755))

	for name, start := range map[string]string{
		"at aggregator":  root,
		"inside plugin":  filepath.Join(root, "org.acme.sales", "META-INF"),
		"inside feature": filepath.Join(root, "org.acme.sales.feature"),
	} {
		start := start
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			d, err := project.Derive(start)
			require.NoError(t, err)
			assert.True(t, d.MultiModule)
			assert.True(t, d.ManifestFound)
			assert.Equal(t, root, d.Root)
			assert.Equal(t, filepath.Join(root, "org.acme.sales"), d.PluginDir)
			assert.Equal(t, "org.acme.sales", d.ID)
			assert.Equal(t, project.V11, d.Platform, "tycho 2.7.5 selects v11")
			assert.True(t, d.HasFeature)
			assert.True(t, d.HasUIExtension)
			assert.False(t, d.HasSite)
			assert.Equal(t, filepath.Join(root, "org.acme.sales.p2"), d.SiteDir())
		})
	}
}

func TestDerive_MalformedAggregator(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pom.xml"), "<project><modules>")

	_, err := project.Derive(root)
	require.Error(t, err)
	assert.Equal(t, apperr.CategoryIO, apperr.CategoryOf(err))
}

func TestPlatforms(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []project.Platform{project.V11, project.V12}, project.Platforms())

	v11 := project.V11.Spec()
	assert.Equal(t, "11", v11.JavaVersion)
	assert.Equal(t, "2.7.5", v11.TychoVersion)
	assert.Equal(t, "1.3.0", v11.DSVersion)
	assert.Equal(t, "release-11", v11.Branch)
	assert.Equal(t, "JavaSE-11", v11.ExecutionEnvironment)

	v12 := project.V12.Spec()
	assert.Equal(t, "17", v12.JavaVersion)
	assert.Equal(t, "4.0.8", v12.TychoVersion)
	assert.Equal(t, "1.4.0", v12.DSVersion)
	assert.Equal(t, "master", v12.Branch)
	assert.Equal(t, project.V12, project.Platform("bogus").Spec().Name)
}

func TestParsePlatform(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]project.Platform{"v11": project.V11, "11": project.V11, " V12 ": project.V12} {
		got, err := project.ParsePlatform(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
	_, err := project.ParsePlatform("10")
	assert.Error(t, err)
}

func TestPlatformForTycho(t *testing.T) {
	t.Parallel()
	cases := map[string]project.Platform{
		"2.7.5":          project.V11,
		"3.0.0":          project.V12,
		"4.0.8":          project.V12,
		"3.0.0-SNAPSHOT": project.V12,
	}
	for in, want := range cases {
		got, ok := project.PlatformForTycho(in)
		assert.True(t, ok, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
	_, ok := project.PlatformForTycho("${tycho.version}")
	assert.False(t, ok)
}

func TestValidation(t *testing.T) {
	t.Parallel()
	assert.NoError(t, project.ValidatePluginID("org.acme.sales"))
	for _, bad := range []string{"", "sales", "org..acme", "org.acme.", "1org.acme", "org.acme-sales"} {
		err := project.ValidatePluginID(bad)
		require.Error(t, err, "id %q", bad)
		assert.ErrorIs(t, err, apperr.ErrInvalidName)
		assert.Equal(t, apperr.ExitInput, apperr.ExitCode(err))
	}

	assert.NoError(t, project.ValidateClassName("OrderCallout"))
	for _, bad := range []string{"", "orderCallout", "Order-Callout", "Order Callout"} {
		assert.Error(t, project.ValidateClassName(bad), "name %q", bad)
	}

	for _, good := range []string{"1.0.0", "1.0.0.qualifier", "12.3.4.v20240101"} {
		assert.NoError(t, project.ValidateVersion(good), "version %q", good)
	}
	for _, bad := range []string{"1.0", "v1.0.0", "1.0.0.qual ifier", "01.0.0"} {
		assert.Error(t, project.ValidateVersion(bad), "version %q", bad)
	}
}

func TestMavenVersion(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1.0.0-SNAPSHOT", project.MavenVersion("1.0.0.qualifier"))
	assert.Equal(t, "1.0.0", project.MavenVersion("1.0.0"))
	assert.Equal(t, "1.2.3.v1", project.MavenVersion("1.2.3.v1"))
}
