package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elementa-lab/elementa_api/model"
	"github.com/elementa-lab/elementa_api/shared"
)

func TestAchievementCatalog_Shape(t *testing.T) {
	catalog := AchievementCatalog()
	assert.Len(t, catalog, 12)

	types := map[string]int{}
	seen := map[string]bool{}
	for _, def := range catalog {
		assert.False(t, seen[def.ID], "duplicate id %s", def.ID)
		seen[def.ID] = true
		assert.NotEmpty(t, def.Name)
		assert.NotEmpty(t, def.Description)
		types[def.Requirement.Type]++
	}

	for _, rt := range []string{
		shared.RequirementTypeXP,
		shared.RequirementTypeLessons,
		shared.RequirementTypeQuizzes,
		shared.RequirementTypeStreak,
		shared.RequirementTypeLevel,
	} {
		assert.Greater(t, types[rt], 0, "no catalog entry of type %s", rt)
	}
}

func TestAchievementByID(t *testing.T) {
	def, ok := AchievementByID("first_lesson")
	assert.True(t, ok)
	assert.Equal(t, shared.RequirementTypeLessons, def.Requirement.Type)

	_, ok = AchievementByID("no_such_badge")
	assert.False(t, ok)
}

func TestEvaluateAchievements_Thresholds(t *testing.T) {
	snap := model.ProgressSnapshot{
		XP:               1000,
		Level:            5,
		CompletedLessons: 5,
		QuizCount:        1,
		Streak:           3,
	}

	newly := EvaluateAchievements(snap, nil)
	assert.ElementsMatch(t, []string{
		"first_lesson", "five_lessons",
		"first_quiz",
		"streak_3",
		"xp_1000",
		"level_5",
	}, newly)
}

func TestEvaluateAchievements_SkipsUnlocked(t *testing.T) {
	snap := model.ProgressSnapshot{CompletedLessons: 1}

	newly := EvaluateAchievements(snap, []string{"first_lesson"})
	assert.Empty(t, newly)
}

func TestEvaluateAchievements_PerfectQuizExact(t *testing.T) {
	snap := model.ProgressSnapshot{QuizCount: 1, BestQuizScore: 99}
	newly := EvaluateAchievements(snap, []string{"first_quiz"})
	assert.NotContains(t, newly, PerfectQuizID)

	snap.BestQuizScore = 100
	newly = EvaluateAchievements(snap, []string{"first_quiz"})
	assert.Contains(t, newly, PerfectQuizID)
}

func TestEvaluateAchievements_CatalogOrder(t *testing.T) {
	snap := model.ProgressSnapshot{CompletedLessons: 20}
	newly := EvaluateAchievements(snap, nil)
	assert.Equal(t, []string{"first_lesson", "five_lessons", "ten_lessons", "twenty_lessons"}, newly)
}

func TestQualifies_UnknownTypeNeverQualifies(t *testing.T) {
	def := model.AchievementDefinition{
		ID:          "bogus",
		Requirement: model.Requirement{Type: "minutes", Value: 1},
	}
	assert.False(t, Qualifies(def, model.ProgressSnapshot{XP: 9999}))
}
