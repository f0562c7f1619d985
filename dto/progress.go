package dto

import "github.com/elementa-lab/elementa_api/model"

// ==================== REQUESTS ====================

type AddXPRequest struct {
	Amount int `json:"amount" validate:"required,gt=0,lte=10000"`
}

type CompleteLessonRequest struct {
	LessonID string `json:"lesson_id" validate:"required,max=128"`
}

type SaveQuizScoreRequest struct {
	QuizID string `json:"quiz_id" validate:"required,max=128"`
	Score  int    `json:"score" validate:"gte=0,lte=100"`
}

type UnlockAchievementRequest struct {
	AchievementID string `json:"achievement_id" validate:"required,max=128"`
}

type UpdateChallengeProgressRequest struct {
	Type   string `json:"type" validate:"required,oneof=lesson quiz flashcard"`
	Amount int    `json:"amount" validate:"required,gt=0,lte=1000"`
}

// ==================== RESPONSES ====================

// ProgressResponse is the read-only snapshot of a learner's progress. Backend
// reports which store served the record (remote or local).
type ProgressResponse struct {
	UserKey              string             `json:"user_key"`
	XP                   int                `json:"xp"`
	Level                int                `json:"level"`
	Title                string             `json:"title"`
	LevelProgress        int                `json:"level_progress"`
	Streak               model.StreakData   `json:"streak"`
	CompletedLessons     []string           `json:"completed_lessons"`
	QuizScores           map[string]int     `json:"quiz_scores"`
	UnlockedAchievements []string           `json:"unlocked_achievements"`
	DailyChallenges      model.ChallengeSet `json:"daily_challenges"`
	Backend              string             `json:"backend"`
}

type XPResponse struct {
	XP            int    `json:"xp"`
	Level         int    `json:"level"`
	Title         string `json:"title"`
	LevelProgress int    `json:"level_progress"`
	LeveledUp     bool   `json:"leveled_up"`
}

type StreakResponse struct {
	Streak  model.StreakData `json:"streak"`
	Updated bool             `json:"updated"`
}

type QuizScoreResponse struct {
	QuizID    string `json:"quiz_id"`
	BestScore int    `json:"best_score"`
	Improved  bool   `json:"improved"`
}

type AchievementResponse struct {
	Achievement model.AchievementDefinition `json:"achievement"`
	Unlocked    bool                        `json:"unlocked"`
}

type ChallengeSetResponse struct {
	Challenges model.ChallengeSet `json:"challenges"`
	BonusXP    int                `json:"bonus_xp"`
}

type CatalogResponse struct {
	Achievements []model.AchievementDefinition `json:"achievements"`
}

type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	UserKey string `json:"user_key"`
	XP      int    `json:"xp"`
	Level   int    `json:"level"`
	Title   string `json:"title"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}
