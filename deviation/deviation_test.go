package deviation

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-bouts/deviation/geodesy"
	"github.com/a-bouts/deviation/latlon"
)

var earhart = Request{
	Origin:           latlon.LatLon{Lat: -6.728, Lon: 146.994},
	Heading:          78,
	Distance:         2556,
	HeadingDeviation: 1,
	DecimalPlaces:    2,
}

func calculators(t *testing.T) map[string]*Calculator {
	cs := map[string]*Calculator{}
	for _, name := range geodesy.Names() {
		s, err := geodesy.Lookup(name)
		require.NoError(t, err)
		cs[name] = New(s)
	}
	return cs
}

func TestEarhart(t *testing.T) {
	for name, c := range calculators(t) {
		res, err := c.Compute(earhart)
		require.NoError(t, err, name)

		assert.InDelta(t, 41.6, res.Geodesic, 1.5, name)
		assert.Equal(t, 44.62, res.Trigonometric, name)
		assert.Equal(t, Round(math.Abs(res.Geodesic-res.Trigonometric), 2), res.Difference, name)
		assert.True(t, res.Difference > 0, name)
		assert.Equal(t, earhart.Origin, res.Origin, name)
	}
}

func TestEarhartSphere(t *testing.T) {
	res, err := New(geodesy.GreatCircle{}).Compute(earhart)
	require.NoError(t, err)

	assert.Equal(t, 41.57, res.Geodesic)
	assert.Equal(t, 44.62, res.Trigonometric)
	assert.Equal(t, 3.05, res.Difference)
}

func TestZeroDeviation(t *testing.T) {
	for name, c := range calculators(t) {
		for _, heading := range []float64{0, 45, 78, 180, 359} {
			r := earhart
			r.Heading = heading
			r.HeadingDeviation = 0
			r.DecimalPlaces = 6

			res, err := c.Compute(r)
			require.NoError(t, err, name)
			assert.Equal(t, 0.0, res.Geodesic, "%s heading %f", name, heading)
			assert.Equal(t, 0.0, res.Trigonometric, "%s heading %f", name, heading)
			assert.Equal(t, 0.0, res.Difference, "%s heading %f", name, heading)
			assert.Equal(t, res.Planned, res.Actual, name)
		}
	}
}

func TestZeroDistance(t *testing.T) {
	for name, c := range calculators(t) {
		for _, dev := range []float64{-45, -1, 1, 10, 135} {
			r := earhart
			r.Distance = 0
			r.HeadingDeviation = dev

			res, err := c.Compute(r)
			require.NoError(t, err, name)
			assert.Equal(t, 0.0, res.Geodesic, "%s deviation %f", name, dev)
			assert.Equal(t, 0.0, res.Trigonometric, "%s deviation %f", name, dev)
			assert.Equal(t, 0.0, res.Difference, "%s deviation %f", name, dev)
		}
	}
}

func TestSmallDeviationShortDistance(t *testing.T) {
	origins := []latlon.LatLon{
		{Lat: 0, Lon: 0},
		{Lat: 40.7128, Lon: -74.006},
		{Lat: -33.86, Lon: 151.2},
		{Lat: 64.1, Lon: -21.9},
	}

	for name, c := range calculators(t) {
		for _, o := range origins {
			for _, dev := range []float64{-5, -1, 0.5, 3, 5} {
				for _, dist := range []float64{10, 50, 100} {
					r := Request{Origin: o, Heading: 60, Distance: dist, HeadingDeviation: dev, DecimalPlaces: 6}

					res, err := c.Compute(r)
					require.NoError(t, err, name)
					assert.InDelta(t, res.Trigonometric, res.Geodesic, 0.1, "%s %v dev %f dist %f", name, o, dev, dist)
				}
			}
		}
	}
}

func TestDifference(t *testing.T) {
	for name, c := range calculators(t) {
		for _, dev := range []float64{-30, -2, 1, 7.5, 45, 120} {
			for _, places := range []int{0, 1, 2, 5, 10} {
				r := earhart
				r.HeadingDeviation = dev
				r.DecimalPlaces = places

				res, err := c.Compute(r)
				require.NoError(t, err, name)
				assert.True(t, res.Difference >= 0, name)
				assert.Equal(t, Round(math.Abs(res.Geodesic-res.Trigonometric), places), res.Difference, "%s dev %f places %d", name, dev, places)
			}
		}
	}
}

func TestSymmetry(t *testing.T) {
	c := New(geodesy.Karney{})

	r := Request{Origin: latlon.LatLon{Lat: 0, Lon: 0}, Heading: 0, Distance: 500, HeadingDeviation: 5, DecimalPlaces: 6}
	right, err := c.Compute(r)
	require.NoError(t, err)
	r.HeadingDeviation = -5
	left, err := c.Compute(r)
	require.NoError(t, err)

	assert.InDelta(t, right.Geodesic, left.Geodesic, 1e-6)
	assert.Equal(t, right.Trigonometric, left.Trigonometric)
	assert.InDelta(t, right.Actual.Lon, -left.Actual.Lon, 1e-9)

	for name, c := range calculators(t) {
		r := earhart
		r.DecimalPlaces = 6
		right, err := c.Compute(r)
		require.NoError(t, err, name)
		r.HeadingDeviation = -r.HeadingDeviation
		left, err := c.Compute(r)
		require.NoError(t, err, name)

		assert.Equal(t, right.Trigonometric, left.Trigonometric, name)
		assert.InEpsilon(t, right.Geodesic, left.Geodesic, 0.01, name)
	}
}

func TestTangentUndefined(t *testing.T) {
	c := New(geodesy.Karney{})

	for _, dev := range []float64{90, -90, 270, -270, 450} {
		r := earhart
		r.HeadingDeviation = dev

		_, err := c.Compute(r)
		assert.True(t, errors.Is(err, ErrTangentUndefined), "deviation %f: %v", dev, err)
	}

	for _, dev := range []float64{89.9, -89.9, 180, -180} {
		r := earhart
		r.HeadingDeviation = dev

		_, err := c.Compute(r)
		assert.NoError(t, err, "deviation %f", dev)
	}
}

func TestTrigonometric(t *testing.T) {
	d, err := Trigonometric(2556, 1)
	require.NoError(t, err)
	assert.InDelta(t, 44.6151, d, 1e-4)

	d, err = Trigonometric(100, -45)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, d, 1e-9)

	_, err = Trigonometric(100, 90)
	assert.True(t, errors.Is(err, ErrTangentUndefined))

	d, err = Trigonometric(0, 10)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
}

func TestInvalidRequest(t *testing.T) {
	c := New(geodesy.Karney{})

	cases := map[string]func(r *Request){
		"negative distance": func(r *Request) { r.Distance = -1 },
		"infinite distance": func(r *Request) { r.Distance = math.Inf(1) },
		"nan heading":       func(r *Request) { r.Heading = math.NaN() },
		"nan deviation":     func(r *Request) { r.HeadingDeviation = math.NaN() },
		"negative places":   func(r *Request) { r.DecimalPlaces = -1 },
		"too many places":   func(r *Request) { r.DecimalPlaces = MaxDecimalPlaces + 1 },
		"latitude":          func(r *Request) { r.Origin.Lat = 90.5 },
		"longitude":         func(r *Request) { r.Origin.Lon = -200 },
	}

	for name, mutate := range cases {
		r := earhart
		mutate(&r)

		_, err := c.Compute(r)
		assert.True(t, errors.Is(err, ErrInvalidRequest), "%s: %v", name, err)
	}
}

type failingSolver struct {
	geodesy.Karney
	failInverse bool
}

func (f failingSolver) Direct(from latlon.LatLon, azimuth float64, meters float64) (latlon.LatLon, error) {
	if f.failInverse {
		return f.Karney.Direct(from, azimuth, meters)
	}
	return latlon.LatLon{}, geodesy.ErrNoConvergence
}

func (f failingSolver) Inverse(from, to latlon.LatLon) (float64, error) {
	return 0, geodesy.ErrNoConvergence
}

func TestSolverFailure(t *testing.T) {
	_, err := New(failingSolver{}).Compute(earhart)
	assert.True(t, errors.Is(err, geodesy.ErrNoConvergence))

	_, err = New(failingSolver{failInverse: true}).Compute(earhart)
	assert.True(t, errors.Is(err, geodesy.ErrNoConvergence))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 2.67, Round(2.675, 2))
	assert.Equal(t, 0.12, Round(0.125, 2))
	assert.Equal(t, 0.38, Round(0.375, 2))
	assert.Equal(t, 2.0, Round(2.5, 0))
	assert.Equal(t, 4.0, Round(3.5, 0))
	assert.Equal(t, 44.62, Round(44.61514595652, 2))
	assert.Equal(t, 1.5, Round(1.5, 10))
	assert.True(t, math.IsInf(Round(math.Inf(1), 2), 1))
}

func TestRoundIdempotent(t *testing.T) {
	values := []float64{0, 1.0 / 3, 2.675, 41.574764148704126, 44.615145956524145, 1e-7, 12345.678901234, 0.1 + 0.2}
	for _, v := range values {
		for places := 0; places <= MaxDecimalPlaces; places++ {
			once := Round(v, places)
			assert.Equal(t, once, Round(once, places), "Round(%v, %d)", v, places)
		}
	}
}

func TestLinks(t *testing.T) {
	res, err := New(geodesy.Karney{}).Compute(earhart)
	require.NoError(t, err)

	links := res.Links()
	assert.Equal(t, "https://www.google.com/maps/?q=-6.728,146.994", links.Origin)
	assert.Equal(t, res.Planned.MapsLink(), links.Planned)
	assert.Equal(t, res.Actual.MapsLink(), links.Actual)
}

func TestFeatureCollection(t *testing.T) {
	c := New(geodesy.Karney{})
	res, err := c.Compute(earhart)
	require.NoError(t, err)

	fc, err := c.FeatureCollection(earhart, res)
	require.NoError(t, err)
	require.Len(t, fc.Features, 6)

	assert.Equal(t, "origin", fc.Features[0].Properties["name"])
	assert.Equal(t, orb.Point{146.994, -6.728}, fc.Features[0].Geometry)
	assert.Equal(t, "planned", fc.Features[1].Properties["name"])
	assert.Equal(t, "actual", fc.Features[2].Properties["name"])

	for _, f := range fc.Features[3:5] {
		ls, ok := f.Geometry.(orb.LineString)
		require.True(t, ok)
		require.Len(t, ls, trackSteps+1)
		for i := 1; i < len(ls); i++ {
			assert.True(t, math.Abs(ls[i].Lon()-ls[i-1].Lon()) < 180, "track crosses antimeridian discontinuously")
		}
		// the Earhart track ends east of the antimeridian
		assert.True(t, ls[len(ls)-1].Lon() > 180)
	}

	_, err = fc.MarshalJSON()
	assert.NoError(t, err)
}

func TestVincentyNoConvergence(t *testing.T) {
	r := Request{Origin: latlon.LatLon{Lat: 0.3, Lon: 0}, Heading: 85, Distance: 6210, HeadingDeviation: 180, DecimalPlaces: 2}

	_, err := New(geodesy.Vincenty{}).Compute(r)
	assert.True(t, errors.Is(err, geodesy.ErrNoConvergence), "%v", err)

	res, err := New(geodesy.Karney{}).Compute(r)
	require.NoError(t, err)
	assert.True(t, res.Geodesic > 12337.42, "%f", res.Geodesic)
}

func TestDistanceOverflow(t *testing.T) {
	r := earhart
	r.Distance = 1e306

	_, err := New(geodesy.Karney{}).Compute(r)
	assert.True(t, errors.Is(err, ErrInvalidRequest), "%v", err)
}
