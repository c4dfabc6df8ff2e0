package service

import (
	"time"

	"anoa.com/vxrank/internal/entity"
)

const (
	DailyChallengeLimit = 5

	DailyLimitMessage = "You have reached your daily limit of 5 challenges!"
)

// startOfDay truncates t to midnight in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameCalendarDay compares dates only, ignoring time of day.
func SameCalendarDay(a, b time.Time, loc *time.Location) bool {
	return startOfDay(a, loc).Equal(startOfDay(b, loc))
}

// EffectiveDailyCount is the number of challenges that count against today's
// quota. A stored count from an earlier day reads as zero; the reset is only
// written back when a challenge is accepted.
func EffectiveDailyCount(p entity.Profile, now time.Time, loc *time.Location) int {
	if p.DailyChallengeDate.IsZero() || !SameCalendarDay(p.DailyChallengeDate, now, loc) {
		return 0
	}
	return p.DailyChallengesCompleted
}
