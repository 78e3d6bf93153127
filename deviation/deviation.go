// Package deviation compares two estimates of the lateral deviation caused
// by a heading error over a straight line trip: the geodesic distance
// between the planned and actual end points, and the flat earth
// approximation distance * tan(deviation).
package deviation

import (
	"errors"
	"fmt"
	"math"

	"github.com/a-bouts/deviation/geodesy"
	"github.com/a-bouts/deviation/latlon"
)

// MetersPerMile is the conversion used both ways
const MetersPerMile = 1609.34

// MaxDecimalPlaces bounds Request.DecimalPlaces
const MaxDecimalPlaces = 15

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrTangentUndefined = errors.New("tangent undefined for heading deviation")
)

type Request struct {
	Origin           latlon.LatLon
	Heading          float64 // degrees from true North
	Distance         float64 // miles
	HeadingDeviation float64 // degrees, positive to the right
	DecimalPlaces    int
}

type Result struct {
	Geodesic      float64       `json:"geodesic"`
	Trigonometric float64       `json:"trigonometric"`
	Difference    float64       `json:"difference"`
	Origin        latlon.LatLon `json:"origin"`
	Planned       latlon.LatLon `json:"planned"`
	Actual        latlon.LatLon `json:"actual"`
}

type Links struct {
	Origin  string `json:"origin"`
	Planned string `json:"planned"`
	Actual  string `json:"actual"`
}

func (r Result) Links() Links {
	return Links{
		Origin:  r.Origin.MapsLink(),
		Planned: r.Planned.MapsLink(),
		Actual:  r.Actual.MapsLink(),
	}
}

// Calculator holds no state besides its solver and can be shared between
// goroutines.
type Calculator struct {
	solver geodesy.Solver
}

func New(solver geodesy.Solver) *Calculator {
	return &Calculator{solver: solver}
}

func (c *Calculator) Solver() geodesy.Solver {
	return c.solver
}

func (r Request) Validate() error {
	if err := r.Origin.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
	}
	if !finite(r.Distance) || r.Distance < 0 {
		return fmt.Errorf("%w: distance %v must be a non negative number of miles", ErrInvalidRequest, r.Distance)
	}
	if !finite(r.Distance * MetersPerMile) {
		return fmt.Errorf("%w: distance %v overflows in meters", ErrInvalidRequest, r.Distance)
	}
	if !finite(r.Heading) {
		return fmt.Errorf("%w: heading %v", ErrInvalidRequest, r.Heading)
	}
	if !finite(r.HeadingDeviation) {
		return fmt.Errorf("%w: heading deviation %v", ErrInvalidRequest, r.HeadingDeviation)
	}
	if r.DecimalPlaces < 0 || r.DecimalPlaces > MaxDecimalPlaces {
		return fmt.Errorf("%w: decimal places %d not in [0,%d]", ErrInvalidRequest, r.DecimalPlaces, MaxDecimalPlaces)
	}
	return nil
}

func (c *Calculator) Compute(r Request) (Result, error) {
	if err := r.Validate(); err != nil {
		return Result{}, err
	}

	trig, err := Trigonometric(r.Distance, r.HeadingDeviation)
	if err != nil {
		return Result{}, err
	}

	meters := r.Distance * MetersPerMile

	planned, err := c.solver.Direct(r.Origin, r.Heading, meters)
	if err != nil {
		return Result{}, fmt.Errorf("planned end point: %w", err)
	}
	actual, err := c.solver.Direct(r.Origin, r.Heading+r.HeadingDeviation, meters)
	if err != nil {
		return Result{}, fmt.Errorf("actual end point: %w", err)
	}

	d, err := c.solver.Inverse(actual, planned)
	if err != nil {
		return Result{}, fmt.Errorf("deviation: %w", err)
	}

	geo := Round(d/MetersPerMile, r.DecimalPlaces)
	trig = Round(trig, r.DecimalPlaces)

	return Result{
		Geodesic:      geo,
		Trigonometric: trig,
		Difference:    Round(math.Abs(geo-trig), r.DecimalPlaces),
		Origin:        r.Origin,
		Planned:       planned,
		Actual:        actual,
	}, nil
}

// Trigonometric returns |distance * tan(deviation)|, the opposite side of
// a flat right triangle. Deviations of 90° modulo 180° have no tangent.
func Trigonometric(distance, deviation float64) (float64, error) {
	if math.Abs(math.Remainder(deviation, 180)) == 90 {
		return 0, fmt.Errorf("%w: %v°", ErrTangentUndefined, deviation)
	}

	d := math.Abs(distance * math.Tan(latlon.ToRadians(deviation)))
	if !finite(d) {
		return 0, fmt.Errorf("%w: %v°", ErrTangentUndefined, deviation)
	}
	return d, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
