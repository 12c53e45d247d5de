package dataset_test

import (
	"testing"

	"geo-legend/internal/dataset"
	"geo-legend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestParseBoundariesFiltersByPrefix(t *testing.T) {
	bs, err := dataset.ParseBoundaries([]byte(testutil.GeoJSON()), "12")
	require.NoError(t, err)
	require.Len(t, bs, 3)
	assert.Equal(t, "12001", bs[0].ID)
	assert.Equal(t, "Alachua", bs[0].Name)
	_, ok := bs[0].Geometry.(*geom.Polygon)
	assert.True(t, ok)

	all, err := dataset.ParseBoundaries([]byte(testutil.GeoJSON()), "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestParseBoundariesSkipsNonAreal(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","id":"12001","properties":{"NAME":"Pt"},"geometry":{"type":"Point","coordinates":[-82,29]}},
		{"type":"Feature","id":"12003","properties":{"NAME":"Multi"},"geometry":{"type":"MultiPolygon","coordinates":[[[[-82,29],[-81,29],[-81,30],[-82,29]]],[[[-80,29],[-79,29],[-79,30],[-80,29]]]]}}
	]}`
	bs, err := dataset.ParseBoundaries([]byte(doc), "12")
	require.NoError(t, err)
	require.Len(t, bs, 1)
	assert.Equal(t, "Multi", bs[0].Name)
	mp, ok := bs[0].Geometry.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 2, mp.NumPolygons())
}

func TestParseBoundariesInvalid(t *testing.T) {
	_, err := dataset.ParseBoundaries([]byte("<html>rate limited</html>"), "12")
	assert.ErrorIs(t, err, dataset.ErrBoundaryParse)

	_, err = dataset.ParseBoundaries([]byte(`{"type":"Feature","geometry":null}`), "12")
	assert.ErrorIs(t, err, dataset.ErrBoundaryParse)
}
