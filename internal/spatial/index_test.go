package spatial

import (
	"testing"

	"geo-legend/internal/dataset"
	"geo-legend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestLocate(t *testing.T) {
	ds := testutil.Dataset()
	ix := NewIndex(ds.Regions)
	assert.Equal(t, 3, ix.Size())

	r, ok := ix.Locate(29.5, -82.5)
	require.True(t, ok)
	assert.Equal(t, "12001", r.ID)

	r, ok = ix.Locate(29.5, -80.5)
	require.True(t, ok)
	assert.Equal(t, "12005", r.ID)

	_, ok = ix.Locate(35.0, -82.5)
	assert.False(t, ok)

	// 第二次命中走缓存
	r, ok = ix.Locate(29.5, -82.5)
	require.True(t, ok)
	assert.Equal(t, "12001", r.ID)
}

func TestLocateRespectsHoles(t *testing.T) {
	donut := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		{{4, 4}, {6, 4}, {6, 6}, {4, 6}, {4, 4}},
	})
	ix := NewIndex([]dataset.Region{{ID: "d", Geometry: donut}})

	_, ok := ix.Locate(5, 5)
	assert.False(t, ok)
	r, ok := ix.Locate(2, 2)
	require.True(t, ok)
	assert.Equal(t, "d", r.ID)
}

func TestLocateMultiPolygon(t *testing.T) {
	mp := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, mp.Push(testutil.Square(0, 0)))
	require.NoError(t, mp.Push(testutil.Square(5, 5)))
	ix := NewIndex([]dataset.Region{{ID: "keys", Geometry: mp}})

	_, ok := ix.Locate(5.5, 5.5)
	assert.True(t, ok)
	_, ok = ix.Locate(3, 3)
	assert.False(t, ok)
}

func TestIndexSkipsMissingGeometry(t *testing.T) {
	ix := NewIndex([]dataset.Region{{ID: "x"}})
	assert.Equal(t, 0, ix.Size())
	_, ok := ix.Locate(0, 0)
	assert.False(t, ok)
}

func TestEncodeGeohash(t *testing.T) {
	assert.Equal(t, "ezs42", encodeGeohash(42.6, -5.6, 5))
	assert.Len(t, encodeGeohash(29.5, -82.5, hashPrecision), hashPrecision)
}
