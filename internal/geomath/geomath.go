// Package geomath converts a map guess into points.
package geomath

import (
	"math"

	"github.com/playperu/defenceguesser/internal/defence"
)

const (
	// EarthRadiusKm is the mean Earth radius used by DistanceKm.
	EarthRadiusKm = 6371.0

	// CutoffKm is the distance at and beyond which a guess scores nothing.
	CutoffKm = 4000.0

	// DecayKm is the e-folding distance of the score curve.
	DecayKm = 2000.0
)

// DistanceKm returns the haversine great-circle distance between a and b.
func DistanceKm(a, b defence.Coords) float64 {
	φ1 := a.Lat * math.Pi / 180.0
	φ2 := b.Lat * math.Pi / 180.0
	dφ := (b.Lat - a.Lat) * math.Pi / 180.0
	dλ := (b.Lng - a.Lng) * math.Pi / 180.0

	sinDφ := math.Sin(dφ / 2)
	sinDλ := math.Sin(dλ / 2)

	h := sinDφ*sinDφ + math.Cos(φ1)*math.Cos(φ2)*sinDλ*sinDλ
	// Rounding can push h a hair above 1 for antipodal points.
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// ScoreFromDistance returns round(5000 * exp(-d/2000)) for d below CutoffKm
// and 0 otherwise. Negative distances score as 0 km.
func ScoreFromDistance(km float64) int {
	if math.IsNaN(km) || km >= CutoffKm {
		return 0
	}
	if km < 0 {
		km = 0
	}
	return int(math.Round(defence.MaxLocationPoints * math.Exp(-km/DecayKm)))
}
