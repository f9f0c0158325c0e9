package models

import (
	"encoding/json"
	"math"
)

// Location is a GeoJSON-style geometry attached to a request or organization.
// Points carry [lng, lat]; polygons carry one or more rings of [lng, lat] pairs.
type Location struct {
	Type        string          `json:"type"` // "Point" or "Polygon"
	Coordinates json.RawMessage `json:"coordinates"`
}

// Point resolves the location to a single lat/lng. For polygons this is the
// centroid of the outer ring. Returns ok=false when the geometry is absent or
// malformed.
func (l *Location) Point() (lat, lng float64, ok bool) {
	if l == nil || len(l.Coordinates) == 0 {
		return 0, 0, false
	}
	switch l.Type {
	case "Point":
		var c [2]float64
		if err := json.Unmarshal(l.Coordinates, &c); err != nil {
			return 0, 0, false
		}
		return c[1], c[0], validCoords(c[1], c[0])
	case "Polygon":
		var rings [][][2]float64
		if err := json.Unmarshal(l.Coordinates, &rings); err != nil || len(rings) == 0 || len(rings[0]) == 0 {
			return 0, 0, false
		}
		var sumLat, sumLng float64
		for _, p := range rings[0] {
			sumLng += p[0]
			sumLat += p[1]
		}
		n := float64(len(rings[0]))
		return sumLat / n, sumLng / n, validCoords(sumLat/n, sumLng/n)
	default:
		return 0, 0, false
	}
}

// Valid reports whether the location resolves to usable coordinates.
func (l *Location) Valid() bool {
	_, _, ok := l.Point()
	return ok
}

func validCoords(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180 && !(lat == 0 && lng == 0)
}

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in kilometers.
// The store computes the same formula in SQL for the radius query; this copy serves
// in-process scoring and map layers.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
