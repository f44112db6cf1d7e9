package lasmerge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func stageTiles(t *testing.T, dir string, names ...string) (paths []string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(dir, n)
		touch(t, p, []byte(n)...)
		paths = append(paths, p)
	}
	return
}

func TestCropAllPartialFailure(t *testing.T) {
	dir := t.TempDir()
	inputs := stageTiles(t, dir, "A.las", "B.las", "C.las")
	engine := newFakeEngine("B.las")
	elog := &ErrorLog{}
	c := NewCropOrchestrator(engine, NewWorkspace(dir+"-work", "Z:"), 2, TARGET_SRID)

	results, err := c.CropAll(context.Background(), "AU_12_C", inputs, NewBoundary("", TARGET_SRID, square100), dir, elog)
	require.NoError(t, err)
	require.Len(t, results, 3)

	want := []string{filepath.Join(dir, "CROP_A.las"), filepath.Join(dir, "CROP_C.las")}
	if diff := cmp.Diff(want, CroppedPaths(results)); diff != "" {
		t.Errorf("cropped mismatch (-want +got):\n%s", diff)
	}
	assert.Error(t, results[1].Err)
	assert.NoFileExists(t, filepath.Join(dir, "CROP_B.las"))
	data, err := os.ReadFile(filepath.Join(dir, "CROP_A.las"))
	require.NoError(t, err)
	assert.Equal(t, "cropped(A.las)", string(data))

	entries := elog.Entries()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0], "AU_12_C")
	assert.Contains(t, entries[0], "B.las")
}

func TestCropAllBoundedConcurrency(t *testing.T) {
	dir := t.TempDir()
	var names []string
	for i := 0; i < 12; i++ {
		names = append(names, fmt.Sprintf("t%02d.las", i))
	}
	inputs := stageTiles(t, dir, names...)
	engine := newFakeEngine()
	engine.delay = 20 * time.Millisecond
	c := NewCropOrchestrator(engine, NewWorkspace(dir), 3, TARGET_SRID)

	results, err := c.CropAll(context.Background(), "S", inputs, NewBoundary("", TARGET_SRID, square100), dir, &ErrorLog{})
	require.NoError(t, err)
	assert.Len(t, CroppedPaths(results), 12)
	assert.LessOrEqual(t, engine.maxActive, int32(3))
	assert.Greater(t, engine.maxActive, int32(1))
}

func TestCropAllSkipsPlaceholders(t *testing.T) {
	dir := t.TempDir()
	inputs := stageTiles(t, dir, "good.las", "Tile 9_Convert to LAS.las")
	engine := newFakeEngine()
	c := NewCropOrchestrator(engine, NewWorkspace(dir), 0, TARGET_SRID)

	results, err := c.CropAll(context.Background(), "S", inputs, NewBoundary("", TARGET_SRID, square100), dir, &ErrorLog{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, inputs[0], results[0].Input)
	require.Len(t, engine.pipelines(), 1)
	assert.Equal(t, inputs[0], engine.pipelines()[0].Stages()[0].Filename)
}

func TestCropAllPolygonIsBoundaryWkt(t *testing.T) {
	dir := t.TempDir()
	inputs := stageTiles(t, dir, "a.las")
	engine := newFakeEngine()
	b := NewBoundary("", TARGET_SRID, square100)
	_, err := NewCropOrchestrator(engine, NewWorkspace(dir), 4, TARGET_SRID).
		CropAll(context.Background(), "S", inputs, b, dir, &ErrorLog{})
	require.NoError(t, err)
	crop := engine.pipelines()[0].Stages()[1]
	assert.Equal(t, StageCrop, crop.Kind)
	assert.Equal(t, b.Wkt, crop.Polygon)
	assert.Equal(t, "EPSG:32748", crop.Srs)
}

func TestCropAllPolicyViolation(t *testing.T) {
	dir := t.TempDir()
	inputs := stageTiles(t, dir, "a.las")
	engine := newFakeEngine()
	_, err := NewCropOrchestrator(engine, NewWorkspace(dir, dir), 4, TARGET_SRID).
		CropAll(context.Background(), "S", inputs, NewBoundary("", TARGET_SRID, square100), dir, &ErrorLog{})
	assert.ErrorIs(t, err, ErrPolicyViolation)
	assert.Empty(t, engine.pipelines())
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder(`Z:\lidar\AREA 3_Convert to las.las`))
	assert.True(t, IsPlaceholder("x_CONVERT_TO_LAS.LAS"))
	assert.False(t, IsPlaceholder("convert_to_las.las"))
	assert.False(t, IsPlaceholder("AU_12_C.las"))
}
