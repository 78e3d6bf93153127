package geodesy

import (
	"github.com/tidwall/geodesic"

	"github.com/a-bouts/deviation/latlon"
)

// Karney solves on the WGS84 ellipsoid with Karney's algorithms. It stays
// accurate for long haul and nearly antipodal points.
type Karney struct{}

func (Karney) Name() string {
	return "karney"
}

func (k Karney) Direct(from latlon.LatLon, azimuth float64, meters float64) (latlon.LatLon, error) {
	if err := checkDirect(k, from, azimuth, meters); err != nil {
		return latlon.LatLon{}, err
	}

	var lat, lon float64
	geodesic.WGS84.Direct(from.Lat, from.Lon, azimuth, meters, &lat, &lon, nil)

	return checkPoint(k, latlon.LatLon{Lat: lat, Lon: lon})
}

func (k Karney) Inverse(from, to latlon.LatLon) (float64, error) {
	var s12 float64
	geodesic.WGS84.Inverse(from.Lat, from.Lon, to.Lat, to.Lon, &s12, nil, nil)

	return checkDistance(k, s12)
}
