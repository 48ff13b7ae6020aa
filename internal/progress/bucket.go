package progress

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange is returned by PlanFor when the requested day range is not
// one of the supported values. Callers that want the historical behavior of
// silently falling back to the 7-day plan use PlanOrDefault instead.
var ErrInvalidRange = errors.New("unsupported day range")

// Plan describes how a day range is partitioned into buckets.
type Plan struct {
	RangeDays      int
	BucketCount    int
	BucketSizeDays int
}

// bucketPlans is the fixed range -> bucketing table. Ranges other than these
// are rejected by PlanFor.
var bucketPlans = map[int]Plan{
	7:   {RangeDays: 7, BucketCount: 7, BucketSizeDays: 1},
	30:  {RangeDays: 30, BucketCount: 4, BucketSizeDays: 7},
	90:  {RangeDays: 90, BucketCount: 6, BucketSizeDays: 15},
	180: {RangeDays: 180, BucketCount: 6, BucketSizeDays: 30},
	360: {RangeDays: 360, BucketCount: 6, BucketSizeDays: 60},
}

// PlanFor returns the bucket plan for a supported day range.
func PlanFor(rangeDays int) (Plan, error) {
	plan, ok := bucketPlans[rangeDays]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %d", ErrInvalidRange, rangeDays)
	}
	return plan, nil
}

// PlanOrDefault returns the plan for rangeDays, falling back to the 7-day
// plan for unrecognized values.
func PlanOrDefault(rangeDays int) Plan {
	plan, err := PlanFor(rangeDays)
	if err != nil {
		return bucketPlans[7]
	}
	return plan
}

// TotalDays is the number of calendar days the plan's grid spans.
func (p Plan) TotalDays() int {
	return p.BucketCount * p.BucketSizeDays
}

// Window is one bucket's calendar span. Start and End are inclusive
// midnight-normalized dates; Index ascends from the oldest window (0) to
// the most recent (BucketCount-1).
type Window struct {
	Index int
	Start time.Time
	End   time.Time
}

// Windows lays out the plan's buckets backward from yesterday. today is the
// caller's notion of the current date (normalized to its midnight); today
// itself is always excluded since it is still incomplete. The returned
// windows are contiguous: Start(b+1) == End(b) + 1 day.
func (p Plan) Windows(today time.Time) []Window {
	today = Midnight(today)
	gridStart := today.AddDate(0, 0, -p.TotalDays())

	windows := make([]Window, p.BucketCount)
	for i := 0; i < p.BucketCount; i++ {
		start := gridStart.AddDate(0, 0, i*p.BucketSizeDays)
		windows[i] = Window{
			Index: i,
			Start: start,
			End:   start.AddDate(0, 0, p.BucketSizeDays-1),
		}
	}
	return windows
}

// Midnight truncates t to its calendar date in t's own location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
