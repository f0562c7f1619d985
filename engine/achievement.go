package engine

import (
	"github.com/elementa-lab/elementa_api/model"
	"github.com/elementa-lab/elementa_api/shared"
)

// PerfectQuizID is the one catalog entry with a non-threshold rule: it
// unlocks only when the best quiz score is exactly 100.
const PerfectQuizID = "perfect_quiz"

// achievementCatalog is fixed at process start. Unlocks are permanent, so
// entries must never be removed once shipped; renaming IDs orphans unlocks.
var achievementCatalog = []model.AchievementDefinition{
	{
		ID:          "first_lesson",
		Name:        "First Steps",
		Description: "Complete your first lesson",
		Icon:        "🧪",
		Requirement: model.Requirement{Type: shared.RequirementTypeLessons, Value: 1},
	},
	{
		ID:          "five_lessons",
		Name:        "Getting Serious",
		Description: "Complete 5 lessons",
		Icon:        "📘",
		Requirement: model.Requirement{Type: shared.RequirementTypeLessons, Value: 5},
	},
	{
		ID:          "ten_lessons",
		Name:        "Dedicated Student",
		Description: "Complete 10 lessons",
		Icon:        "🎓",
		Requirement: model.Requirement{Type: shared.RequirementTypeLessons, Value: 10},
	},
	{
		ID:          "twenty_lessons",
		Name:        "Course Crusher",
		Description: "Complete 20 lessons",
		Icon:        "🏫",
		Requirement: model.Requirement{Type: shared.RequirementTypeLessons, Value: 20},
	},
	{
		ID:          "first_quiz",
		Name:        "Quiz Taker",
		Description: "Finish your first quiz",
		Icon:        "✏️",
		Requirement: model.Requirement{Type: shared.RequirementTypeQuizzes, Value: 1},
	},
	{
		ID:          "five_quizzes",
		Name:        "Quiz Whiz",
		Description: "Finish 5 different quizzes",
		Icon:        "🧠",
		Requirement: model.Requirement{Type: shared.RequirementTypeQuizzes, Value: 5},
	},
	{
		ID:          PerfectQuizID,
		Name:        "Perfectionist",
		Description: "Score 100% on a quiz",
		Icon:        "💯",
		Requirement: model.Requirement{Type: shared.RequirementTypeQuizzes, Value: 100},
	},
	{
		ID:          "streak_3",
		Name:        "Warming Up",
		Description: "Learn 3 days in a row",
		Icon:        "🔥",
		Requirement: model.Requirement{Type: shared.RequirementTypeStreak, Value: 3},
	},
	{
		ID:          "streak_7",
		Name:        "On Fire",
		Description: "Learn 7 days in a row",
		Icon:        "⚡",
		Requirement: model.Requirement{Type: shared.RequirementTypeStreak, Value: 7},
	},
	{
		ID:          "streak_30",
		Name:        "Unstoppable",
		Description: "Learn 30 days in a row",
		Icon:        "🌋",
		Requirement: model.Requirement{Type: shared.RequirementTypeStreak, Value: 30},
	},
	{
		ID:          "xp_1000",
		Name:        "XP Collector",
		Description: "Earn 1000 total XP",
		Icon:        "⭐",
		Requirement: model.Requirement{Type: shared.RequirementTypeXP, Value: 1000},
	},
	{
		ID:          "level_5",
		Name:        "Rising Star",
		Description: "Reach level 5",
		Icon:        "🚀",
		Requirement: model.Requirement{Type: shared.RequirementTypeLevel, Value: 5},
	},
}

// AchievementCatalog returns the full static catalog.
func AchievementCatalog() []model.AchievementDefinition {
	out := make([]model.AchievementDefinition, len(achievementCatalog))
	copy(out, achievementCatalog)
	return out
}

// AchievementByID looks up one catalog entry.
func AchievementByID(id string) (model.AchievementDefinition, bool) {
	for _, def := range achievementCatalog {
		if def.ID == id {
			return def, true
		}
	}
	return model.AchievementDefinition{}, false
}

// Qualifies reports whether a snapshot satisfies one definition's rule.
func Qualifies(def model.AchievementDefinition, snap model.ProgressSnapshot) bool {
	if def.ID == PerfectQuizID {
		return snap.BestQuizScore == 100
	}
	switch def.Requirement.Type {
	case shared.RequirementTypeXP:
		return snap.XP >= def.Requirement.Value
	case shared.RequirementTypeLessons:
		return snap.CompletedLessons >= def.Requirement.Value
	case shared.RequirementTypeQuizzes:
		return snap.QuizCount >= def.Requirement.Value
	case shared.RequirementTypeStreak:
		return snap.Streak >= def.Requirement.Value
	case shared.RequirementTypeLevel:
		return snap.Level >= def.Requirement.Value
	}
	return false
}

// EvaluateAchievements returns catalog IDs that qualify under the snapshot
// and are not already unlocked, in catalog order.
func EvaluateAchievements(snap model.ProgressSnapshot, unlocked []string) []string {
	have := make(map[string]bool, len(unlocked))
	for _, id := range unlocked {
		have[id] = true
	}

	var newly []string
	for _, def := range achievementCatalog {
		if have[def.ID] {
			continue
		}
		if Qualifies(def, snap) {
			newly = append(newly, def.ID)
		}
	}
	return newly
}
