// Package geodesy solves the direct and inverse geodesic problems on an
// earth model. Distances are in meters and azimuths in degrees from true
// North.
package geodesy

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/a-bouts/deviation/latlon"
)

var (
	ErrNoConvergence = errors.New("geodesic solver did not converge")
	ErrUnknownSolver = errors.New("unknown solver")
	ErrInvalidInput  = errors.New("invalid geodesic input")
)

type Solver interface {
	// Direct returns the point reached travelling meters along azimuth from
	// from.
	Direct(from latlon.LatLon, azimuth float64, meters float64) (latlon.LatLon, error)
	// Inverse returns the length in meters of the shortest path between
	// from and to.
	Inverse(from, to latlon.LatLon) (float64, error)
	Name() string
}

// Default is the solver used when none is requested.
const Default = "karney"

var solvers = map[string]Solver{
	"karney":   Karney{},
	"vincenty": Vincenty{},
	"sphere":   GreatCircle{},
}

// Lookup returns the solver registered under name. An empty name selects
// Default.
func Lookup(name string) (Solver, error) {
	if name == "" {
		name = Default
	}
	s, ok := solvers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSolver, name)
	}
	return s, nil
}

// Names lists the registered solvers, sorted.
func Names() []string {
	names := make([]string, 0, len(solvers))
	for n := range solvers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func checkDirect(s Solver, from latlon.LatLon, azimuth float64, meters float64) error {
	if err := from.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if !finite(azimuth) || !finite(meters) {
		return fmt.Errorf("%w: %s direct azimuth=%v distance=%v", ErrInvalidInput, s.Name(), azimuth, meters)
	}
	return nil
}

func checkPoint(s Solver, p latlon.LatLon) (latlon.LatLon, error) {
	if !finite(p.Lat) || !finite(p.Lon) {
		return latlon.LatLon{}, fmt.Errorf("%w: %s direct gave (%v,%v)", ErrNoConvergence, s.Name(), p.Lat, p.Lon)
	}
	return p, nil
}

func checkDistance(s Solver, d float64) (float64, error) {
	if !finite(d) || d < 0 {
		return 0, fmt.Errorf("%w: %s inverse gave %v", ErrNoConvergence, s.Name(), d)
	}
	return d, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
