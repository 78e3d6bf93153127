package geodesy

import (
	"fmt"

	"github.com/StefanSchroeder/Golang-Ellipsoid/ellipsoid"

	"github.com/a-bouts/deviation/latlon"
)

var wgs84 = ellipsoid.Init(
	"WGS84",
	ellipsoid.Degrees,
	ellipsoid.Meter,
	ellipsoid.LongitudeIsSymmetric,
	ellipsoid.BearingNotSymmetric)

// roundTripTolerance is how far in meters the end point of an inverse
// solution, travelled back with the direct formula, may land from the target
const roundTripTolerance = 1.0

// Vincenty solves on the WGS84 ellipsoid with Vincenty's iterative
// formulae. Nearly antipodal points may fail to converge.
type Vincenty struct{}

func (Vincenty) Name() string {
	return "vincenty"
}

func (v Vincenty) Direct(from latlon.LatLon, azimuth float64, meters float64) (latlon.LatLon, error) {
	if err := checkDirect(v, from, azimuth, meters); err != nil {
		return latlon.LatLon{}, err
	}
	if meters == 0 {
		return from, nil
	}

	lat, lon := wgs84.At(from.Lat, from.Lon, meters, latlon.Wrap360(azimuth))

	return checkPoint(v, latlon.LatLon{Lat: lat, Lon: latlon.Wrap180(lon)})
}

func (v Vincenty) Inverse(from, to latlon.LatLon) (float64, error) {
	if from == to {
		return 0, nil
	}

	d, bearing := wgs84.To(from.Lat, from.Lon, to.Lat, to.Lon)
	d, err := checkDistance(v, d)
	if err != nil {
		return 0, err
	}

	// the inverse iteration gives up silently after a fixed number of
	// loops, so a solution is only kept if it leads back to the target
	lat, lon := wgs84.At(from.Lat, from.Lon, d, bearing)
	miss, err := GreatCircle{}.Inverse(to, latlon.LatLon{Lat: lat, Lon: latlon.Wrap180(lon)})
	if err != nil || miss > roundTripTolerance {
		return 0, fmt.Errorf("%w: %s inverse (%s) to (%s) misses the target by %.0f m", ErrNoConvergence, v.Name(), from, to, miss)
	}

	return d, nil
}
