package geodesy

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/a-bouts/deviation/latlon"
)

// GreatCircle solves on a sphere of radius latlon.R. It ignores the earth
// flattening and is kept as a reference for the ellipsoidal solvers.
type GreatCircle struct{}

func (GreatCircle) Name() string {
	return "sphere"
}

func (g GreatCircle) Direct(from latlon.LatLon, azimuth float64, meters float64) (latlon.LatLon, error) {
	if err := checkDirect(g, from, azimuth, meters); err != nil {
		return latlon.LatLon{}, err
	}

	φ1 := latlon.ToRadians(from.Lat)
	λ1 := latlon.ToRadians(from.Lon)
	θ := latlon.ToRadians(azimuth)

	δ := meters / latlon.R

	φ2 := math.Asin(math.Sin(φ1)*math.Cos(δ) + math.Cos(φ1)*math.Sin(δ)*math.Cos(θ))
	λ2 := λ1 + math.Atan2(math.Sin(θ)*math.Sin(δ)*math.Cos(φ1), math.Cos(δ)-math.Sin(φ1)*math.Sin(φ2))

	lat := latlon.ToDegrees(φ2)
	lon := latlon.Wrap180(latlon.ToDegrees(λ2))

	return checkPoint(g, latlon.LatLon{Lat: lat, Lon: lon})
}

func (g GreatCircle) Inverse(from, to latlon.LatLon) (float64, error) {
	a := s2.LatLngFromDegrees(from.Lat, from.Lon)
	b := s2.LatLngFromDegrees(to.Lat, to.Lon)

	return checkDistance(g, a.Distance(b).Radians()*latlon.R)
}
