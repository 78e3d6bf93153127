// Deviation computes, from the command line, how far a heading deviation
// takes you from a planned destination.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/a-bouts/deviation/deviation"
	"github.com/a-bouts/deviation/geodesy"
	"github.com/a-bouts/deviation/latlon"
)

// DeviationCommand stores the values given on the command line
type DeviationCommand struct {
	Coordinates   string  // "lat,lon" of the origin
	Heading       float64 // degrees from true North
	Distance      float64 // miles
	Deviation     float64 // degrees, positive to the right
	DecimalPlaces int
	Solver        string
	JSON          bool
	GeoJSON       bool
}

func (dc *DeviationCommand) request() (*deviation.Calculator, deviation.Request, error) {
	solver, err := geodesy.Lookup(dc.Solver)
	if err != nil {
		return nil, deviation.Request{}, err
	}
	origin, err := latlon.Parse(dc.Coordinates)
	if err != nil {
		return nil, deviation.Request{}, err
	}
	return deviation.New(solver), deviation.Request{
		Origin:           origin,
		Heading:          dc.Heading,
		Distance:         dc.Distance,
		HeadingDeviation: dc.Deviation,
		DecimalPlaces:    dc.DecimalPlaces,
	}, nil
}

// Run computes the deviation and writes it to out
func (dc *DeviationCommand) Run(out io.Writer) error {
	c, r, err := dc.request()
	if err != nil {
		return err
	}

	res, err := c.Compute(r)
	if err != nil {
		return err
	}

	switch {
	case dc.GeoJSON:
		fc, err := c.FeatureCollection(r, res)
		if err != nil {
			return err
		}
		return json.NewEncoder(out).Encode(fc)
	case dc.JSON:
		type result struct {
			deviation.Result
			Solver string          `json:"solver"`
			Links  deviation.Links `json:"links"`
		}
		return json.NewEncoder(out).Encode(result{Result: res, Solver: c.Solver().Name(), Links: res.Links()})
	}

	links := res.Links()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Deviation from Target Destination (%s)\t%v mi\n", c.Solver().Name(), res.Geodesic)
	fmt.Fprintf(w, "Deviation from Target Destination (Trigonometric)\t%v mi\n", res.Trigonometric)
	fmt.Fprintf(w, "Difference in Deviations\t%v mi\n", res.Difference)
	fmt.Fprintf(w, "Starting Point\t%s\n", links.Origin)
	fmt.Fprintf(w, "Planned Ending Point\t%s\n", links.Planned)
	fmt.Fprintf(w, "Actual Ending Point\t%s\n", links.Actual)
	return w.Flush()
}

func configure(app *kingpin.Application) *DeviationCommand {
	dc := &DeviationCommand{}

	app.Flag("coordinates", "Initial coordinates as 'lat,lon' in decimal degrees").Short('c').Default("-6.728, 146.994").StringVar(&dc.Coordinates)
	app.Flag("heading", "Initial heading in degrees from true North").Short('H').Default("78").Float64Var(&dc.Heading)
	app.Flag("distance", "Distance travelled in miles").Short('d').Default("2556").Float64Var(&dc.Distance)
	app.Flag("deviation", "Heading deviation in degrees, positive to the right").Short('D').Default("1").Float64Var(&dc.Deviation)
	app.Flag("decimal-places", "Decimal places of the results").Short('p').Default("2").IntVar(&dc.DecimalPlaces)
	app.Flag("solver", "Geodesic solver").Short('s').Default(geodesy.Default).EnumVar(&dc.Solver, geodesy.Names()...)
	app.Flag("json", "Print the result as JSON").BoolVar(&dc.JSON)
	app.Flag("geojson", "Print the result as a GeoJSON feature collection").BoolVar(&dc.GeoJSON)

	return dc
}

func main() {
	app := kingpin.New("deviation", "Compare geodesic and trigonometric estimates of a heading deviation.")
	dc := configure(app)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := dc.Run(os.Stdout); err != nil {
		log.Fatal(err)
	}
}
