// model/progress.go
package model

import (
	"encoding/json"
	"time"
)

// StreakData tracks consecutive-day activity. LastActiveDate is a calendar
// date string (YYYY-MM-DD) or empty before the first recorded activity.
type StreakData struct {
	CurrentStreak   int    `json:"current_streak"`
	LongestStreak   int    `json:"longest_streak"`
	LastActiveDate  string `json:"last_active_date"`
	TotalDaysActive int    `json:"total_days_active"`
}

// ChallengeInstance is one day-scoped mini-goal. Progress is clamped to
// Target; the XP reward is granted exactly once, when Completed first flips.
type ChallengeInstance struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	XPReward    int       `json:"xp_reward"`
	Type        string    `json:"type"` // lesson, quiz, flashcard
	Target      int       `json:"target"`
	Progress    int       `json:"progress"`
	Completed   bool      `json:"completed"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ChallengeSet is the day's challenges. It is replaced wholesale whenever the
// stored date differs from the current date; instances never carry over.
type ChallengeSet struct {
	Date       string              `json:"date"`
	Challenges []ChallengeInstance `json:"challenges"`
}

// Requirement is the unlock rule of an achievement, compared >= against the
// matching snapshot field.
type Requirement struct {
	Type  string `json:"type"` // xp, lessons, quizzes, streak, level
	Value int    `json:"value"`
}

// AchievementDefinition is a static catalog entry; the catalog is fixed at
// process start and never persisted per user.
type AchievementDefinition struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Icon        string      `json:"icon"`
	Requirement Requirement `json:"requirement"`
}

// ProgressSnapshot is the flattened view the achievement rules are evaluated
// against.
type ProgressSnapshot struct {
	XP               int
	Level            int
	CompletedLessons int
	QuizCount        int
	BestQuizScore    int
	Streak           int
}

// UserProgress is the remote per-learner record row. Set- and map-valued
// fields are stored as JSON columns, one column per top-level field so
// partial updates touch only what changed.
type UserProgress struct {
	ID                   string          `json:"id" gorm:"primaryKey"`
	UserKey              string          `json:"user_key" gorm:"uniqueIndex;not null"`
	XP                   int             `json:"xp" gorm:"default:0"`
	Level                int             `json:"level" gorm:"default:1"`
	CurrentStreak        int             `json:"current_streak" gorm:"default:0"`
	LongestStreak        int             `json:"longest_streak" gorm:"default:0"`
	LastActiveDate       string          `json:"last_active_date"`
	TotalDaysActive      int             `json:"total_days_active" gorm:"default:0"`
	CompletedLessons     json.RawMessage `json:"completed_lessons" gorm:"type:jsonb"`
	QuizScores           json.RawMessage `json:"quiz_scores" gorm:"type:jsonb"`
	UnlockedAchievements json.RawMessage `json:"unlocked_achievements" gorm:"type:jsonb"`
	DailyChallenges      json.RawMessage `json:"daily_challenges" gorm:"type:jsonb"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// ProgressRecord is the typed in-memory form the engines operate on.
type ProgressRecord struct {
	UserKey              string         `json:"user_key"`
	XP                   int            `json:"xp"`
	Level                int            `json:"level"`
	Streak               StreakData     `json:"streak"`
	CompletedLessons     []string       `json:"completed_lessons"`
	QuizScores           map[string]int `json:"quiz_scores"`
	UnlockedAchievements []string       `json:"unlocked_achievements"`
	DailyChallenges      ChallengeSet   `json:"daily_challenges"`
}

// NewProgressRecord returns the default record created on first access.
func NewProgressRecord(userKey string) *ProgressRecord {
	return &ProgressRecord{
		UserKey:              userKey,
		XP:                   0,
		Level:                1,
		Streak:               StreakData{},
		CompletedLessons:     []string{},
		QuizScores:           map[string]int{},
		UnlockedAchievements: []string{},
		DailyChallenges:      ChallengeSet{},
	}
}

func (r *ProgressRecord) HasLesson(lessonID string) bool {
	for _, id := range r.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

func (r *ProgressRecord) HasAchievement(achievementID string) bool {
	for _, id := range r.UnlockedAchievements {
		if id == achievementID {
			return true
		}
	}
	return false
}

func (r *ProgressRecord) BestQuizScore() int {
	best := 0
	for _, score := range r.QuizScores {
		if score > best {
			best = score
		}
	}
	return best
}

func (r *ProgressRecord) Snapshot() ProgressSnapshot {
	return ProgressSnapshot{
		XP:               r.XP,
		Level:            r.Level,
		CompletedLessons: len(r.CompletedLessons),
		QuizCount:        len(r.QuizScores),
		BestQuizScore:    r.BestQuizScore(),
		Streak:           r.Streak.CurrentStreak,
	}
}

// ProgressUpdate is a partial update of a record. Nil fields are untouched;
// non-nil fields replace the stored value of that field only.
type ProgressUpdate struct {
	XP                   *int           `json:"xp,omitempty"`
	Level                *int           `json:"level,omitempty"`
	Streak               *StreakData    `json:"streak,omitempty"`
	CompletedLessons     []string       `json:"completed_lessons,omitempty"`
	QuizScores           map[string]int `json:"quiz_scores,omitempty"`
	UnlockedAchievements []string       `json:"unlocked_achievements,omitempty"`
	DailyChallenges      *ChallengeSet  `json:"daily_challenges,omitempty"`
}

// IsEmpty reports whether the update would touch nothing.
func (u ProgressUpdate) IsEmpty() bool {
	return u.XP == nil && u.Level == nil && u.Streak == nil &&
		u.CompletedLessons == nil && u.QuizScores == nil &&
		u.UnlockedAchievements == nil && u.DailyChallenges == nil
}
