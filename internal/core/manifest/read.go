package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Load reads the manifest of the plugin in pluginDir. found is false when the
// plugin has no manifest.
func Load(pluginDir string) (headers Headers, found bool, err error) {
	manifestPath := filepath.Join(pluginDir, RelPath)
	data, err := os.ReadFile(manifestPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Headers{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading manifest %s: %w", manifestPath, err)
	}
	return Parse(data), true, nil
}

// Exists reports whether pluginDir carries a manifest.
func Exists(pluginDir string) bool {
	info, err := os.Stat(filepath.Join(pluginDir, RelPath))
	return err == nil && !info.IsDir()
}
