package engine

import (
	"time"

	"github.com/elementa-lab/elementa_api/model"
	"github.com/elementa-lab/elementa_api/shared"
)

// GenerateDailyChallenges builds the fixed set of three challenges for one
// calendar day. IDs embed the date key so a regenerated set is never confused
// with yesterday's.
func GenerateDailyChallenges(today time.Time) model.ChallengeSet {
	dateKey := DateKey(today)
	expiresAt := time.Date(today.Year(), today.Month(), today.Day(), 23, 59, 59, 0, today.Location())

	return model.ChallengeSet{
		Date: dateKey,
		Challenges: []model.ChallengeInstance{
			{
				ID:          "daily_lesson_" + dateKey,
				Title:       "Daily Discovery",
				Description: "Complete 1 lesson today",
				XPReward:    20,
				Type:        shared.ChallengeTypeLesson,
				Target:      1,
				ExpiresAt:   expiresAt,
			},
			{
				ID:          "daily_quiz_" + dateKey,
				Title:       "Quiz Gauntlet",
				Description: "Answer 5 quiz questions today",
				XPReward:    30,
				Type:        shared.ChallengeTypeQuiz,
				Target:      5,
				ExpiresAt:   expiresAt,
			},
			{
				ID:          "daily_flashcard_" + dateKey,
				Title:       "Memory Lab",
				Description: "Review 10 flashcards today",
				XPReward:    25,
				Type:        shared.ChallengeTypeFlashcard,
				Target:      10,
				ExpiresAt:   expiresAt,
			},
		},
	}
}

// ChallengeSetStale reports whether a stored set belongs to a different day
// and must be replaced wholesale.
func ChallengeSetStale(set model.ChallengeSet, today time.Time) bool {
	return set.Date != DateKey(today)
}

// AdvanceChallenges adds amount to every challenge of the given type and
// returns the updated set plus the bonus XP earned by challenges that
// completed in this call. Progress clamps at the target and completed
// challenges never pay out twice.
func AdvanceChallenges(set model.ChallengeSet, challengeType string, amount int) (model.ChallengeSet, int) {
	if amount <= 0 {
		return set, 0
	}

	bonus := 0
	updated := make([]model.ChallengeInstance, len(set.Challenges))
	copy(updated, set.Challenges)

	for i := range updated {
		c := &updated[i]
		if c.Type != challengeType || c.Completed {
			continue
		}
		c.Progress += amount
		if c.Progress >= c.Target {
			c.Progress = c.Target
			c.Completed = true
			bonus += c.XPReward
		}
	}

	set.Challenges = updated
	return set, bonus
}
