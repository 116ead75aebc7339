package add

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/bundlewright/internal/core/apperr"
	"github.com/nightconcept/bundlewright/internal/core/component"
	"github.com/nightconcept/bundlewright/internal/core/engine"
	"github.com/nightconcept/bundlewright/internal/core/manifest"
)

const pluginID = "org.acme.sales"

// setupAddTestEnvironment scaffolds a plugin with the given kinds.
func setupAddTestEnvironment(t *testing.T, kinds ...component.Kind) string {
	t.Helper()
	dir := t.TempDir()
	_, err := engine.New().Init(engine.InitRequest{Dir: dir, PluginID: pluginID, Features: kinds})
	require.NoError(t, err)
	return dir
}

// runAddCommand executes the 'add' command within workDir and returns stdout.
func runAddCommand(t *testing.T, workDir string, addCmdArgs ...string) (string, error) {
	t.Helper()

	originalWd, err := os.Getwd()
	require.NoError(t, err, "Failed to get current working directory")
	require.NoError(t, os.Chdir(workDir), "Failed to change to working directory: %s", workDir)
	defer func() {
		require.NoError(t, os.Chdir(originalWd), "Failed to restore original working directory")
	}()
	color.NoColor = true

	var out bytes.Buffer
	app := &cli.App{
		Name:      "bwr-test-add",
		Commands:  []*cli.Command{AddCommand},
		Writer:    &out,
		ErrWriter: &bytes.Buffer{},
		// Let the assertions handle errors from app.Run()
		ExitErrHandler: func(*cli.Context, error) {},
	}
	err = app.Run(append([]string{"bwr-test-add", "add"}, addCmdArgs...))
	return out.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var coder cli.ExitCoder
	require.ErrorAs(t, err, &coder)
	return coder.ExitCode()
}

func TestAddCommand_Callout(t *testing.T) {
	dir := setupAddTestEnvironment(t)

	out, err := runAddCommand(t, dir, "--param", "table=C_Invoice", "--param", "column=C_DocType_ID", "callout", "InvoiceCallout")
	require.NoError(t, err)
	assert.Contains(t, out, "src/org/acme/sales/InvoiceCallout.java")
	assert.Contains(t, out, "src/org/acme/sales/SalesCalloutFactory.java")

	callout, err := os.ReadFile(filepath.Join(dir, "src", "org", "acme", "sales", "InvoiceCallout.java"))
	require.NoError(t, err)
	assert.Contains(t, string(callout), "C_Invoice")
	assert.Contains(t, string(callout), "C_DocType_ID")

	h, _, err := manifest.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, manifest.RequirementsFor(component.Callout).Bundles, manifest.EntryNames(h.Get(manifest.RequireBundle)))
}

func TestAddCommand_ReusesFactory(t *testing.T) {
	dir := setupAddTestEnvironment(t, component.Callout)

	out, err := runAddCommand(t, filepath.Join(dir, "src"), "callout", "SecondCallout")
	require.NoError(t, err)
	assert.Contains(t, out, "reusing existing callout-factory")
	assert.NotContains(t, out, "created src/org/acme/sales/SalesCalloutFactory.java")
}

func TestAddCommand_DirectoryFlag(t *testing.T) {
	dir := setupAddTestEnvironment(t)

	_, err := runAddCommand(t, t.TempDir(), "--directory", dir, "test", "OrderTest")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "src", "org", "acme", "sales", "OrderTest.java"))
}

func TestAddCommand_Errors(t *testing.T) {
	t.Run("missing arguments", func(t *testing.T) {
		_, err := runAddCommand(t, t.TempDir(), "callout")
		assert.Equal(t, apperr.ExitInput, exitCode(t, err))
	})
	t.Run("unknown kind", func(t *testing.T) {
		_, err := runAddCommand(t, t.TempDir(), "widget", "Order")
		assert.Equal(t, apperr.ExitInput, exitCode(t, err))
	})
	t.Run("invalid parameter value", func(t *testing.T) {
		dir := setupAddTestEnvironment(t)
		_, err := runAddCommand(t, dir, "--param", "topic=Sometimes", "event", "OrderEvent")
		assert.Equal(t, apperr.ExitInput, exitCode(t, err))
	})
	t.Run("no manifest", func(t *testing.T) {
		_, err := runAddCommand(t, t.TempDir(), "callout", "OrderCallout")
		assert.Equal(t, apperr.ExitState, exitCode(t, err))
		assert.Contains(t, err.Error(), "no bundle manifest found")
	})
}
