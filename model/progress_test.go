package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity_StorageKey(t *testing.T) {
	assert.Equal(t, "user-1", Identity{UserID: "User-1"}.StorageKey())
	assert.Equal(t, "guest_dev_1", Identity{DeviceID: "dev 1"}.StorageKey())

	// a signed-in learner's device id never leaks into the key
	assert.Equal(t, "u1", Identity{UserID: "u1", DeviceID: "dev"}.StorageKey())
}

func TestNewProgressRecord(t *testing.T) {
	r := NewProgressRecord("u1")

	assert.Equal(t, 0, r.XP)
	assert.Equal(t, 1, r.Level)
	assert.NotNil(t, r.CompletedLessons)
	assert.NotNil(t, r.QuizScores)
	assert.NotNil(t, r.UnlockedAchievements)
	assert.Empty(t, r.DailyChallenges.Date)
}

func TestProgressRecord_Lookups(t *testing.T) {
	r := NewProgressRecord("u1")
	r.CompletedLessons = []string{"l1", "l2"}
	r.UnlockedAchievements = []string{"first_lesson"}
	r.QuizScores = map[string]int{"q1": 70, "q2": 95}

	assert.True(t, r.HasLesson("l1"))
	assert.False(t, r.HasLesson("l3"))
	assert.True(t, r.HasAchievement("first_lesson"))
	assert.False(t, r.HasAchievement("streak_3"))
	assert.Equal(t, 95, r.BestQuizScore())
}

func TestProgressRecord_Snapshot(t *testing.T) {
	r := NewProgressRecord("u1")
	r.XP = 320
	r.Level = 3
	r.CompletedLessons = []string{"l1", "l2", "l3"}
	r.QuizScores = map[string]int{"q1": 100}
	r.Streak.CurrentStreak = 4

	snap := r.Snapshot()
	assert.Equal(t, 320, snap.XP)
	assert.Equal(t, 3, snap.Level)
	assert.Equal(t, 3, snap.CompletedLessons)
	assert.Equal(t, 1, snap.QuizCount)
	assert.Equal(t, 100, snap.BestQuizScore)
	assert.Equal(t, 4, snap.Streak)
}

func TestProgressUpdate_IsEmpty(t *testing.T) {
	assert.True(t, ProgressUpdate{}.IsEmpty())

	xp := 10
	assert.False(t, ProgressUpdate{XP: &xp}.IsEmpty())
	assert.False(t, ProgressUpdate{CompletedLessons: []string{}}.IsEmpty())
}
