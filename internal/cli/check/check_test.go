package check

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
)

func runCheck(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	app := &cli.App{
		Commands:       []*cli.Command{CheckCmd},
		Writer:         &out,
		ErrWriter:      &bytes.Buffer{},
		ExitErrHandler: func(*cli.Context, error) {},
	}
	err := app.Run(append([]string{"bwr", "check"}, args...))
	return out.String(), err
}

func scaffold(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := engine.New().Init(engine.InitRequest{Dir: dir, PluginID: "org.acme.sales", Features: []component.Kind{component.Event}})
	require.NoError(t, err)
	return dir
}

func TestCheckCommand_Clean(t *testing.T) {
	dir := scaffold(t)

	out, err := runCheck(t, "--directory", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No problems found.")
}

func TestCheckCommand_Warning(t *testing.T) {
	dir := scaffold(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "OSGI-INF", "org.acme.sales.Orphan.xml"), []byte("<component/>"), 0o644))

	out, err := runCheck(t, "--directory", dir)
	require.NoError(t, err, "warnings alone do not fail")
	assert.Contains(t, out, "warning service component is not listed in Service-Component")

	_, err = runCheck(t, "--strict", "--directory", dir)
	var coder cli.ExitCoder
	require.ErrorAs(t, err, &coder)
	assert.Equal(t, apperr.ExitState, coder.ExitCode())
}

func TestCheckCommand_Error(t *testing.T) {
	out, err := runCheck(t, "--directory", t.TempDir())
	assert.Contains(t, out, "error no bundle manifest found")

	var coder cli.ExitCoder
	require.ErrorAs(t, err, &coder)
	assert.Equal(t, apperr.ExitState, coder.ExitCode())
}
