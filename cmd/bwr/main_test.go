package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/nightconcept/bundlewright/internal/core/apperr"
)

func TestRun_ExitCodes(t *testing.T) {
	color.NoColor = true

	t.Run("success", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{"bwr", "kinds"}, &stdout, &stderr)
		assert.Equal(t, apperr.ExitOK, code)
		assert.Contains(t, stdout.String(), "callout")
	})

	t.Run("unknown flag is an input error", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{"bwr", "--no-such-flag"}, &stdout, &stderr)
		assert.Equal(t, apperr.ExitInput, code)
		assert.Contains(t, stderr.String(), "no-such-flag")
	})

	t.Run("classified failure keeps its code", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run([]string{"bwr", "check", "--directory", t.TempDir()}, &stdout, &stderr)
		assert.Equal(t, apperr.ExitState, code)
		assert.Contains(t, stderr.String(), "Error:")
	})
}
