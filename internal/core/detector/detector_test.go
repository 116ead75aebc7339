// Package detector_test contains tests for the detector package.
package detector_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/bundlewright/internal/core/component"
	"github.com/nightconcept/bundlewright/internal/core/detector"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDetect_FirstLevelOnly(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "nested", "Factory.java"), "public class Factory extends AnnotationBasedColumnCalloutFactory {}")

	found, err := detector.Detect(dir, detector.Signatures[component.CalloutFactory])
	require.NoError(t, err)
	assert.False(t, found, "nested files must not be scanned")
}

func TestDetect_IgnoresNonSourceFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.txt"), "extends AnnotationBasedColumnCalloutFactory")

	found, err := detector.Detect(dir, detector.Signatures[component.CalloutFactory])
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFind_ReturnsMatchingFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Order.java"), "public class Order {}")
	writeFile(t, filepath.Join(dir, "MyFactory.java"), "public class MyFactory extends AnnotationBasedColumnCalloutFactory {}")

	path, found, err := detector.Find(dir, detector.Signatures[component.CalloutFactory])
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, filepath.Join(dir, "MyFactory.java"), path)
}

func TestDetect_MissingDirectory(t *testing.T) {
	t.Parallel()

	found, err := detector.Detect(filepath.Join(t.TempDir(), "absent"), []string{"x"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSourceIndex_EventManagerUsesContent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	// A differently named manager is still found...
	writeFile(t, filepath.Join(dir, "Dispatcher.java"), "public class Dispatcher extends AnnotationBasedEventManager {}")
	// ...and a file merely named like one is not.
	other := t.TempDir()
	writeFile(t, filepath.Join(other, "LegacyEventManager.java"), "public class LegacyEventManager {}")

	idx := detector.NewSourceIndex(dir)
	path, ok, err := idx.HasInfrastructure(component.EventManager)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Dispatcher.java", filepath.Base(path))

	_, ok, err = detector.NewSourceIndex(other).HasInfrastructure(component.EventManager)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSourceIndex_UnknownInfrastructure(t *testing.T) {
	t.Parallel()

	_, _, err := detector.NewSourceIndex(t.TempDir()).HasInfrastructure(component.Infra("bogus"))
	require.Error(t, err)
}

func TestFindAll_ReportsDuplicates(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "BFactory.java"), "class BFactory extends AnnotationBasedProcessFactory {}")
	writeFile(t, filepath.Join(dir, "AFactory.java"), "class AFactory implements IProcessFactory {}")
	writeFile(t, filepath.Join(dir, "Other.java"), "class Other {}")

	matches, err := detector.FindAll(dir, detector.Signatures[component.ProcessFactory])
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "AFactory.java", filepath.Base(matches[0]))
	assert.Equal(t, "BFactory.java", filepath.Base(matches[1]))
}
