package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelOf_Thresholds(t *testing.T) {
	assert.Equal(t, 1, LevelOf(0))
	assert.Equal(t, 1, LevelOf(99))
	assert.Equal(t, 2, LevelOf(100))
	assert.Equal(t, 2, LevelOf(299))
	assert.Equal(t, 3, LevelOf(300))
	assert.Equal(t, 5, LevelOf(1000))
	assert.Equal(t, 11, LevelOf(5500))
	assert.Equal(t, 11, LevelOf(999999))
}

func TestLevelOf_NegativeXP(t *testing.T) {
	assert.Equal(t, 1, LevelOf(-50))
}

func TestLevelOf_Monotonic(t *testing.T) {
	prev := 0
	for xp := 0; xp <= 6000; xp += 25 {
		level := LevelOf(xp)
		assert.GreaterOrEqual(t, level, prev, "level dropped at xp=%d", xp)
		prev = level
	}
}

func TestTitleOf(t *testing.T) {
	assert.Equal(t, "Curious Observer", TitleOf(1))
	assert.Equal(t, "Master Alchemist", TitleOf(11))

	// out of range clamps instead of panicking
	assert.Equal(t, "Curious Observer", TitleOf(0))
	assert.Equal(t, "Master Alchemist", TitleOf(99))
}

func TestXPForLevel(t *testing.T) {
	assert.Equal(t, 0, XPForLevel(1))
	assert.Equal(t, 100, XPForLevel(2))
	assert.Equal(t, 5500, XPForLevel(11))
	assert.Equal(t, -1, XPForLevel(0))
	assert.Equal(t, -1, XPForLevel(12))
}

func TestProgressWithinLevel(t *testing.T) {
	assert.Equal(t, 0, ProgressWithinLevel(0))
	assert.Equal(t, 50, ProgressWithinLevel(50))
	assert.Equal(t, 0, ProgressWithinLevel(100))
	assert.Equal(t, 50, ProgressWithinLevel(200))
	assert.Equal(t, 100, ProgressWithinLevel(5500))
	assert.Equal(t, 100, ProgressWithinLevel(10000))
}
