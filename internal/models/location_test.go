package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationPoint(t *testing.T) {
	loc := &Location{Type: "Point", Coordinates: json.RawMessage(`[85.32, 27.71]`)}
	lat, lng, ok := loc.Point()
	require.True(t, ok)
	assert.InDelta(t, 27.71, lat, 1e-9)
	assert.InDelta(t, 85.32, lng, 1e-9)
}

func TestLocationPolygonCentroid(t *testing.T) {
	loc := &Location{
		Type:        "Polygon",
		Coordinates: json.RawMessage(`[[[85.0, 27.0], [85.2, 27.0], [85.2, 27.2], [85.0, 27.2]]]`),
	}
	lat, lng, ok := loc.Point()
	require.True(t, ok)
	assert.InDelta(t, 27.1, lat, 1e-9)
	assert.InDelta(t, 85.1, lng, 1e-9)
}

func TestLocationInvalid(t *testing.T) {
	cases := []*Location{
		nil,
		{Type: "Point"},
		{Type: "Point", Coordinates: json.RawMessage(`"garbage"`)},
		{Type: "LineString", Coordinates: json.RawMessage(`[[0,0],[1,1]]`)},
		{Type: "Point", Coordinates: json.RawMessage(`[0, 0]`)},
		{Type: "Point", Coordinates: json.RawMessage(`[200, 10]`)},
	}
	for _, l := range cases {
		assert.False(t, l.Valid())
	}
}

func TestHaversineKm(t *testing.T) {
	// Kathmandu to Bhaktapur is roughly 12 km.
	d := HaversineKm(27.7172, 85.3240, 27.6710, 85.4298)
	assert.InDelta(t, 11.6, d, 1.0)

	assert.Zero(t, HaversineKm(27.7, 85.3, 27.7, 85.3))
}
