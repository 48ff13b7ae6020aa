package progress

import (
	"errors"
	"math"
)

// ErrNoDisplayableData signals that a series has no points to scale. It is
// a soft condition: the caller renders an empty state instead of a chart.
var ErrNoDisplayableData = errors.New("no displayable data")

// Scale is the numeric contract a chart renders against: the padded display
// range and six evenly spaced tick values across it.
type Scale struct {
	ActualMin  float64    `json:"actual_min"`
	ActualMax  float64    `json:"actual_max"`
	DisplayMin float64    `json:"display_min"`
	DisplayMax float64    `json:"display_max"`
	Ticks      [6]float64 `json:"ticks"`
}

// ScaleSeries computes the display bounds and tick values for a series.
// A constant series gets synthetic padding so the line does not render as a
// flat point pinned to the plot's vertical center.
func ScaleSeries(s Series) (Scale, error) {
	if len(s) == 0 {
		return Scale{}, ErrNoDisplayableData
	}

	min, max := s[0].Value, s[0].Value
	for _, p := range s[1:] {
		if p.Value < min {
			min = p.Value
		}
		if p.Value > max {
			max = p.Value
		}
	}

	displayMin, displayMax := min, max
	if min == max {
		pad := constantSeriesPad(math.Abs(max))
		displayMin = min - pad
		displayMax = max + pad
	}

	scale := Scale{
		ActualMin:  min,
		ActualMax:  max,
		DisplayMin: displayMin,
		DisplayMax: displayMax,
	}
	span := displayMax - displayMin
	for i := range scale.Ticks {
		scale.Ticks[i] = displayMin + span*float64(i)/5
	}
	return scale, nil
}

// constantSeriesPad sizes the padding around a degenerate flat series by
// the magnitude of its value.
func constantSeriesPad(magnitude float64) float64 {
	switch {
	case magnitude >= 100:
		return magnitude * 0.2
	case magnitude >= 10:
		return magnitude * 0.1
	default:
		return math.Max(magnitude*0.1, 1)
	}
}
