// Package hasher_test contains tests for the hasher package.
package hasher_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/bundlewright/internal/core/hasher"
)

func TestFingerprint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", hasher.Fingerprint(nil))
	assert.Equal(t, "sha256:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", hasher.Fingerprint([]byte("hello")))
}

func TestFingerprintFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "Sales.java")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	got, err := hasher.FingerprintFile(path)
	require.NoError(t, err)
	assert.Equal(t, hasher.Fingerprint([]byte("hello")), got)

	_, err = hasher.FingerprintFile(filepath.Join(dir, "missing.java"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}
