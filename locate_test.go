package lasmerge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string, data ...byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestLocateBoundary(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "2025", "AU_12_B_boundary.geojson"))
	touch(t, filepath.Join(root, "2025", "notes", "AU_12_C.txt"))
	touch(t, filepath.Join(root, "2025", "zone", "AU-12-C final.GeoJSON"))

	path, ok := LocateBoundary("AU_12_C", root)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "2025", "zone", "AU-12-C final.GeoJSON"), path)

	_, ok = LocateBoundary("BE_15_D", root)
	assert.False(t, ok)
}

func TestLocateBoundaryFirstMatchWins(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a", "AU_12_C.geojson"))
	touch(t, filepath.Join(root, "b", "AU_12_C.geojson"))
	touch(t, filepath.Join(root, "AU_12_C.shp"))

	path, ok := LocateBoundary("AU_12_C", root)
	require.True(t, ok)
	// 字典序：AU_12_C.shp < a/ < b/
	assert.Equal(t, filepath.Join(root, "AU_12_C.shp"), path)
}

func TestLocateBoundaryMissingRoot(t *testing.T) {
	_, ok := LocateBoundary("AU_12_C", filepath.Join(t.TempDir(), "missing"))
	assert.False(t, ok)
}
