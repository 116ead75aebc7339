package kinds

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestKindsCommand(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	app := &cli.App{Commands: []*cli.Command{KindsCmd}, Writer: &out}

	require.NoError(t, app.Run([]string{"bwr", "kinds"}))
	output := out.String()
	assert.Contains(t, output, "kinds:")
	assert.Contains(t, output, "(needs callout-factory)")
	assert.Contains(t, output, "(needs activator)")
	assert.Contains(t, output, "v12        Java 17, Tycho 4.0.8, DS 1.4.0, JavaSE-17 (default)")
	assert.Contains(t, output, "v11        Java 11, Tycho 2.7.5, DS 1.3.0, JavaSE-11")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("callout")), bytes.Index(out.Bytes(), []byte("process")),
		"kinds are listed in canonical order")
}
