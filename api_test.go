package lasmerge

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundToWkt(t *testing.T) {
	b := orb.Bound{Min: orb.Point{699120.5, 9314650}, Max: orb.Point{702440, 9317980.25}}
	s := BoundToWkt(b)
	assert.Equal(t, "POLYGON((699120.500000 9314650.000000, 699120.500000 9317980.250000, "+
		"702440.000000 9317980.250000, 702440.000000 9314650.000000, 699120.500000 9314650.000000))", s)

	geo, err := wkt.Unmarshal(s)
	require.NoError(t, err)
	assert.Equal(t, b, geo.Bound())
}

func TestOverlapSet(t *testing.T) {
	s := NewOverlapSet()
	assert.True(t, s.Add(TileRecord{Name: "a.las", Path: "/x/a.las"}))
	assert.True(t, s.Add(TileRecord{Name: "c.las", Path: "/x/c.las"}))
	assert.False(t, s.Add(TileRecord{Name: "a.las", Path: "/y/a.las"}))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a.las", "c.las"}, s.Names())
	p, ok := s.path("a.las")
	assert.True(t, ok)
	assert.Equal(t, "/x/a.las", p)
	_, ok = s.path("b.las")
	assert.False(t, ok)

	tiles := s.Tiles()
	tiles[0].Name = "z.las"
	assert.True(t, s.Has("a.las"))
	assert.False(t, s.Has("z.las"))
}
