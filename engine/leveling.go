// Package engine holds the pure progression rules. Nothing in here touches
// storage or the network; the services layer loads a record, runs these
// functions over it, and persists whichever fields changed.
package engine

// levelThresholds[i] is the minimum total XP for level i+1. A learner's level
// is always derived from XP; the stored level is only a cache of this
// computation.
var levelThresholds = []int{0, 100, 300, 600, 1000, 1500, 2100, 2800, 3600, 4500, 5500}

var levelTitles = []string{
	"Curious Observer",
	"Lab Novice",
	"Element Explorer",
	"Bond Builder",
	"Reaction Runner",
	"Molecule Mapper",
	"Formula Wrangler",
	"Synthesis Specialist",
	"Catalyst Commander",
	"Periodic Pro",
	"Master Alchemist",
}

// LevelOf returns the level for a total XP amount, the highest threshold not
// exceeding xp. Negative xp maps to level 1.
func LevelOf(xp int) int {
	level := 1
	for i, threshold := range levelThresholds {
		if xp >= threshold {
			level = i + 1
		} else {
			break
		}
	}
	return level
}

// TitleOf returns the display title for a level. Out-of-range levels clamp to
// the nearest catalog entry.
func TitleOf(level int) string {
	if level < 1 {
		level = 1
	}
	if level > len(levelTitles) {
		level = len(levelTitles)
	}
	return levelTitles[level-1]
}

func MaxLevel() int {
	return len(levelThresholds)
}

// XPForLevel returns the total XP needed to reach a level, or -1 when the
// level is out of range.
func XPForLevel(level int) int {
	if level < 1 || level > len(levelThresholds) {
		return -1
	}
	return levelThresholds[level-1]
}

// ProgressWithinLevel returns how far, in percent, xp sits between the
// current level's threshold and the next one. At the maximum level it
// reports 100.
func ProgressWithinLevel(xp int) int {
	level := LevelOf(xp)
	if level >= len(levelThresholds) {
		return 100
	}
	floor := levelThresholds[level-1]
	ceil := levelThresholds[level]
	if xp <= floor {
		return 0
	}
	pct := (xp - floor) * 100 / (ceil - floor)
	if pct > 100 {
		pct = 100
	}
	return pct
}
