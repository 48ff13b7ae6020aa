package progress

import "time"

// ExerciseKind discriminates which family of logged entry a record belongs
// to, which in turn decides which metrics are meaningful for it.
type ExerciseKind string

const (
	KindExercise ExerciseKind = "exercise"
	KindShooting ExerciseKind = "shooting"
	KindDrill    ExerciseKind = "drill"
	KindSprint   ExerciseKind = "sprint"
	KindHit      ExerciseKind = "hit"
	KindField    ExerciseKind = "field"
	KindRally    ExerciseKind = "rally"
)

// Metric identifies one derived numeric quantity computable from a record.
type Metric string

const (
	MetricReps        Metric = "reps"
	MetricWeight      Metric = "weight"
	MetricRepsXWeight Metric = "reps_x_weight"
	MetricAttempted   Metric = "attempted"
	MetricMade        Metric = "made"
	MetricPercentage  Metric = "percentage"
	MetricDistance    Metric = "distance"
	MetricTimeMin     Metric = "time_min"
	MetricAvgTimeSec  Metric = "avg_time_sec"
	MetricCompleted   Metric = "completed"
	MetricPoints      Metric = "points"
)

// Metrics lists every valid metric, used for input validation at the edges.
var Metrics = []Metric{
	MetricReps, MetricWeight, MetricRepsXWeight,
	MetricAttempted, MetricMade, MetricPercentage,
	MetricDistance, MetricTimeMin, MetricAvgTimeSec,
	MetricCompleted, MetricPoints,
}

// Valid reports whether m is one of the known metrics.
func (m Metric) Valid() bool {
	for _, known := range Metrics {
		if m == known {
			return true
		}
	}
	return false
}

// Record is one logged set/attempt within a session. Numeric fields are
// sparse: a nil pointer means the field does not apply to this record's
// kind, which is different from a logged zero.
type Record struct {
	SessionID   string
	Exercise    string
	Kind        ExerciseKind
	PerformedAt time.Time // calendar date, time-of-day carries no meaning

	Reps       *float64
	Weight     *float64
	Attempted  *float64
	Made       *float64
	Distance   *float64
	TimeMin    *float64
	AvgTimeSec *float64
	Points     *float64
	Completed  bool
}

// Compute maps a record and a requested metric to a numeric value. The
// second return is false when the record carries no data for that metric;
// the caller treats that as "no data point", never as an error. Invalid
// metric/kind combinations degrade to false the same way.
func Compute(r Record, m Metric) (float64, bool) {
	switch m {
	case MetricReps:
		return deref(r.Reps)
	case MetricWeight:
		return deref(r.Weight)
	case MetricRepsXWeight:
		reps, ok := deref(r.Reps)
		if !ok {
			return 0, false
		}
		weight, ok := deref(r.Weight)
		if !ok {
			return 0, false
		}
		return reps * weight, true
	case MetricAttempted:
		return deref(r.Attempted)
	case MetricMade:
		return deref(r.Made)
	case MetricPercentage:
		attempted, ok := deref(r.Attempted)
		if !ok || attempted == 0 {
			return 0, false
		}
		made, ok := deref(r.Made)
		if !ok {
			return 0, false
		}
		pct := made / attempted * 100
		// Bad data can record more makes than attempts; clamp rather
		// than report an impossible percentage.
		if pct > 100 {
			pct = 100
		}
		return pct, true
	case MetricDistance:
		return deref(r.Distance)
	case MetricTimeMin:
		return deref(r.TimeMin)
	case MetricAvgTimeSec:
		return deref(r.AvgTimeSec)
	case MetricCompleted:
		if r.Completed {
			return 1, true
		}
		return 0, true
	case MetricPoints:
		return deref(r.Points)
	}
	return 0, false
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}
