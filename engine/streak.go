package engine

import (
	"time"

	"github.com/elementa-lab/elementa_api/model"
)

const dateLayout = "2006-01-02"

// DateKey formats t as the calendar-date string streaks and daily challenges
// compare against. All day-boundary decisions are plain string equality on
// these keys.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// AdvanceStreak applies one activity signal for the given day and returns the
// updated streak plus whether anything changed. Rules:
//
//	same calendar day as last activity  -> no-op
//	exactly the day after               -> streak + 1
//	anything else (gap, or first ever)  -> streak resets to 1
//
// TotalDaysActive counts distinct active days and LongestStreak never
// decreases.
func AdvanceStreak(s model.StreakData, today time.Time) (model.StreakData, bool) {
	todayKey := DateKey(today)
	if s.LastActiveDate == todayKey {
		return s, false
	}

	yesterdayKey := DateKey(today.AddDate(0, 0, -1))
	if s.LastActiveDate == yesterdayKey {
		s.CurrentStreak++
	} else {
		s.CurrentStreak = 1
	}

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.LastActiveDate = todayKey
	s.TotalDaysActive++
	return s, true
}
