package progress

import "time"

// maxStreak caps the consecutive-day count; anything past this reads the
// same to a user.
const maxStreak = 999

// StreakState is the derived streak summary for one activity kind. Total is
// the all-time row count for that kind and is unrelated to the streak walk.
type StreakState struct {
	Total  int64 `json:"total"`
	Streak int   `json:"streak"`
}

// ComputeStreak walks backward over the user's recent activity dates and
// counts consecutive logged days. The walk starts at today (UTC) when today
// is logged, otherwise at yesterday, so an unbroken streak is not reset just
// because nothing has been logged yet today. Timestamps may be in any
// location and any order; they are normalized to UTC-midnight dates first.
func ComputeStreak(dates []time.Time, total int64, now time.Time) StreakState {
	if len(dates) == 0 {
		return StreakState{Total: total}
	}

	logged := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		logged[utcMidnight(d)] = struct{}{}
	}

	day := utcMidnight(now)
	if _, ok := logged[day]; !ok {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for streak < maxStreak {
		if _, ok := logged[day]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}

	return StreakState{Total: total, Streak: streak}
}

func utcMidnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
