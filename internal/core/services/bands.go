package services

import "math"

// band maps every value up to and including upTo onto value.
type band[T any] struct {
	upTo  float64
	value T
}

// pickBand returns the first band whose upper bound is at least t. Bands must
// be sorted ascending and end with an unbounded catch-all; values below the
// first bound clamp into it.
func pickBand[T any](bands []band[T], t float64) T {
	for _, b := range bands {
		if t <= b.upTo {
			return b.value
		}
	}

	return bands[len(bands)-1].value
}

var unbounded = math.Inf(1)
