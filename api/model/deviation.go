package model

import (
	"github.com/a-bouts/deviation/deviation"
)

// DefaultDecimalPlaces applies when a request leaves decimalPlaces out
const DefaultDecimalPlaces = 2

type Deviation struct {
	Coordinates   string  `json:"coordinates"`
	Heading       float64 `json:"heading"`
	Distance      float64 `json:"distance"`
	Deviation     float64 `json:"deviation"`
	DecimalPlaces int     `json:"decimalPlaces"`
	Solver        string  `json:"solver"`
}

type Result struct {
	deviation.Result
	Solver string          `json:"solver"`
	Links  deviation.Links `json:"links"`
}

type Error struct {
	Error string `json:"error"`
}
