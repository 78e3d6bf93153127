package latlon

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const π = math.Pi

// R is the mean earth radius in meters
const R = 6371e3

var (
	ErrMalformedCoordinates = errors.New("malformed coordinates")
	ErrOutOfRange           = errors.New("coordinates out of range")
)

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Parse reads a "lat,lon" string in decimal degrees, e.g. "-6.728, 146.994".
func Parse(s string) (LatLon, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 2 {
		return LatLon{}, fmt.Errorf("%w: %q: want 2 comma separated fields, got %d", ErrMalformedCoordinates, s, len(fields))
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return LatLon{}, fmt.Errorf("%w: latitude %q", ErrMalformedCoordinates, fields[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return LatLon{}, fmt.Errorf("%w: longitude %q", ErrMalformedCoordinates, fields[1])
	}

	p := LatLon{Lat: lat, Lon: lon}
	if err := p.Validate(); err != nil {
		return LatLon{}, err
	}
	return p, nil
}

// Validate checks lat is in [-90,90] and lon in [-180,180]
func (p LatLon) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v", ErrOutOfRange, p.Lat)
	}
	if math.IsNaN(p.Lon) || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %v", ErrOutOfRange, p.Lon)
	}
	return nil
}

func (p LatLon) String() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lon, 'f', -1, 64)
}

// MapsLink returns a Google Maps link centered on p
func (p LatLon) MapsLink() string {
	return "https://www.google.com/maps/?q=" + p.String()
}

func ToRadians(a float64) float64 {
	return a * π / 180.0
}

func ToDegrees(a float64) float64 {
	return a * 180.0 / π
}

func Wrap360(d float64) float64 {
	if 0.0 <= d && d < 360.0 {
		return d
	}
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}

func Wrap180(d float64) float64 {
	if -180.0 <= d && d <= 180.0 {
		return d
	}
	d = math.Mod(d, 360.0)
	if d < -180.0 {
		d += 360.0
	} else if d > 180.0 {
		d -= 360.0
	}
	return d
}
