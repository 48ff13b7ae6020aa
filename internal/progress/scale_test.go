package progress

import (
	"errors"
	"math"
	"testing"
)

func seriesOf(values ...float64) Series {
	s := make(Series, len(values))
	for i, v := range values {
		s[i] = Point{Index: i, Value: v, Count: 1}
	}
	return s
}

func TestScaleSeriesEmpty(t *testing.T) {
	_, err := ScaleSeries(nil)
	if !errors.Is(err, ErrNoDisplayableData) {
		t.Errorf("ScaleSeries(nil) error = %v, want ErrNoDisplayableData", err)
	}
}

func TestScaleSeriesNormalRange(t *testing.T) {
	scale, err := ScaleSeries(seriesOf(10, 30, 20))
	if err != nil {
		t.Fatal(err)
	}
	if scale.DisplayMin != 10 || scale.DisplayMax != 30 {
		t.Errorf("display range = [%v, %v], want [10, 30]", scale.DisplayMin, scale.DisplayMax)
	}
	want := [6]float64{10, 14, 18, 22, 26, 30}
	for i, tick := range scale.Ticks {
		if math.Abs(tick-want[i]) > 1e-9 {
			t.Errorf("tick %d = %v, want %v", i, tick, want[i])
		}
	}
}

// A flat series must be padded so the line does not render as a point at the
// plot's vertical center, and the ticks must still strictly increase.
func TestScaleSeriesConstantPadding(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantPad float64
	}{
		{"magnitude at least 100 pads 20 percent", 200, 40},
		{"magnitude at least 10 pads 10 percent", 50, 5},
		{"small magnitude pads at least one unit", 3, 1},
		{"zero pads one unit", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scale, err := ScaleSeries(seriesOf(tt.value, tt.value, tt.value, tt.value, tt.value))
			if err != nil {
				t.Fatal(err)
			}
			if scale.DisplayMin != tt.value-tt.wantPad || scale.DisplayMax != tt.value+tt.wantPad {
				t.Errorf("display range = [%v, %v], want [%v, %v]",
					scale.DisplayMin, scale.DisplayMax, tt.value-tt.wantPad, tt.value+tt.wantPad)
			}
			if !(scale.DisplayMin < tt.value && tt.value < scale.DisplayMax) {
				t.Errorf("value %v not strictly inside [%v, %v]",
					tt.value, scale.DisplayMin, scale.DisplayMax)
			}
			for i := 1; i < len(scale.Ticks); i++ {
				if scale.Ticks[i] <= scale.Ticks[i-1] {
					t.Errorf("ticks not strictly increasing: %v", scale.Ticks)
					break
				}
			}
		})
	}
}

func TestScaleSeriesSinglePoint(t *testing.T) {
	scale, err := ScaleSeries(seriesOf(50))
	if err != nil {
		t.Fatal(err)
	}
	if !(scale.DisplayMin < 50 && 50 < scale.DisplayMax) {
		t.Errorf("single point 50 not padded: [%v, %v]", scale.DisplayMin, scale.DisplayMax)
	}
}

func TestScaleSeriesTickEndpoints(t *testing.T) {
	scale, err := ScaleSeries(seriesOf(12.5, 87.5))
	if err != nil {
		t.Fatal(err)
	}
	if scale.Ticks[0] != scale.DisplayMin {
		t.Errorf("first tick %v != displayMin %v", scale.Ticks[0], scale.DisplayMin)
	}
	if math.Abs(scale.Ticks[5]-scale.DisplayMax) > 1e-9 {
		t.Errorf("last tick %v != displayMax %v", scale.Ticks[5], scale.DisplayMax)
	}
}
