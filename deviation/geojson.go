package deviation

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/a-bouts/deviation/latlon"
)

// trackSteps is the number of segments of the planned and actual tracks
const trackSteps = 32

// FeatureCollection maps a computed result: the origin, planned and actual
// end points, and the planned and actual tracks sampled along the geodesic.
// Track longitudes are unwrapped so a track crossing the antimeridian stays
// continuous.
func (c *Calculator) FeatureCollection(r Request, res Result) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()

	fc.Append(pointFeature("origin", res.Origin))
	fc.Append(pointFeature("planned", res.Planned))
	fc.Append(pointFeature("actual", res.Actual))

	planned, err := c.track(r.Origin, r.Heading, r.Distance*MetersPerMile)
	if err != nil {
		return nil, err
	}
	f := geojson.NewFeature(planned)
	f.Properties["name"] = "planned track"
	f.Properties["heading"] = r.Heading
	fc.Append(f)

	actual, err := c.track(r.Origin, r.Heading+r.HeadingDeviation, r.Distance*MetersPerMile)
	if err != nil {
		return nil, err
	}
	f = geojson.NewFeature(actual)
	f.Properties["name"] = "actual track"
	f.Properties["heading"] = r.Heading + r.HeadingDeviation
	fc.Append(f)

	f = geojson.NewFeature(orb.LineString{toPoint(res.Planned), unwrapPoint(toPoint(res.Planned), res.Actual)})
	f.Properties["name"] = "deviation"
	f.Properties["geodesic"] = res.Geodesic
	f.Properties["trigonometric"] = res.Trigonometric
	f.Properties["difference"] = res.Difference
	fc.Append(f)

	return fc, nil
}

func (c *Calculator) track(origin latlon.LatLon, azimuth, meters float64) (orb.LineString, error) {
	ls := make(orb.LineString, 0, trackSteps+1)
	ls = append(ls, toPoint(origin))
	for i := 1; i <= trackSteps; i++ {
		p, err := c.solver.Direct(origin, azimuth, meters*float64(i)/trackSteps)
		if err != nil {
			return nil, err
		}
		ls = append(ls, unwrapPoint(ls[len(ls)-1], p))
	}
	return ls, nil
}

func pointFeature(name string, p latlon.LatLon) *geojson.Feature {
	f := geojson.NewFeature(toPoint(p))
	f.Properties["name"] = name
	f.Properties["link"] = p.MapsLink()
	return f
}

func toPoint(p latlon.LatLon) orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// unwrapPoint shifts p's longitude by whole turns to be within 180° of prev
func unwrapPoint(prev orb.Point, p latlon.LatLon) orb.Point {
	lon := p.Lon
	for lon-prev.Lon() > 180 {
		lon -= 360
	}
	for lon-prev.Lon() < -180 {
		lon += 360
	}
	return orb.Point{lon, p.Lat}
}
