package deviation

import (
	"math"
	"strconv"
)

// Round returns the float nearest to the decimal rounding of v's exact
// binary value to places digits, ties to even. 2.675 is stored below the
// tie and gives 2.67, 0.125 is an exact tie and gives 0.12.
//
// Round(Round(v, n), n) == Round(v, n).
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || places < 0 {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	if err != nil {
		return v
	}
	return r
}
