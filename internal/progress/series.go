package progress

import (
	"math"
	"strings"
	"time"
)

// FillMode controls what happens to buckets that received no values.
type FillMode int

const (
	// FillSparse drops empty buckets from the output series entirely.
	FillSparse FillMode = iota
	// FillZero keeps every bucket, reporting 0 for the empty ones, so line
	// charts do not visually join across gaps that never happened.
	FillZero
)

// Point is one aggregated bucket of a series: its position in the grid, its
// calendar span, and the mean of the metric values that landed in it.
type Point struct {
	Index int       `json:"index"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Value float64   `json:"value"`
	Count int       `json:"count"`
}

// Series is an aggregated progress series, ordered by ascending bucket
// index (oldest first).
type Series []Point

// Aggregate assigns each record's metric value to the bucket containing its
// performed date and reduces every bucket to the arithmetic mean of its
// values, rounded to two decimals. Records outside [grid start, yesterday],
// records whose exercise is not in names, and records with no value for the
// metric contribute nothing. The input is never mutated.
func Aggregate(records []Record, names []string, metric Metric, plan Plan, today time.Time, fill FillMode) Series {
	nameSet := make(map[string]struct{}, len(names))
	for _, n := range names {
		nameSet[normalizeName(n)] = struct{}{}
	}

	today = Midnight(today)
	totalDays := plan.TotalDays()

	sums := make([]float64, plan.BucketCount)
	counts := make([]int, plan.BucketCount)

	for _, r := range records {
		if _, ok := nameSet[normalizeName(r.Exercise)]; !ok {
			continue
		}

		daysAgo := daysBetween(Midnight(r.PerformedAt), today)
		// Today (daysAgo 0) is incomplete and excluded; anything older
		// than the grid start is out of range.
		if daysAgo < 1 || daysAgo > totalDays {
			continue
		}

		value, ok := Compute(r, metric)
		if !ok {
			continue
		}

		idx := plan.BucketCount - 1 - (daysAgo-1)/plan.BucketSizeDays
		if idx < 0 {
			idx = 0
		} else if idx >= plan.BucketCount {
			idx = plan.BucketCount - 1
		}
		sums[idx] += value
		counts[idx]++
	}

	windows := plan.Windows(today)
	series := make(Series, 0, plan.BucketCount)
	for i, w := range windows {
		if counts[i] == 0 {
			if fill == FillZero {
				series = append(series, Point{Index: w.Index, Start: w.Start, End: w.End})
			}
			continue
		}
		series = append(series, Point{
			Index: w.Index,
			Start: w.Start,
			End:   w.End,
			Value: round2(sums[i] / float64(counts[i])),
			Count: counts[i],
		})
	}
	return series
}

// round2 rounds to two decimal places, the canonical precision for bucket
// aggregates.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// daysBetween counts whole calendar days from a to b. The calendar dates
// are re-anchored in UTC before subtracting so DST transitions cannot skew
// the count.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}

func normalizeName(s string) string {
	return stripSpaces(strings.ToLower(s))
}
