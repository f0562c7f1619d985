package shared

const (
	UserID   = "user_id"
	DeviceID = "device_id"

	// Locals key the auth middleware stores the resolved model.Identity under.
	IdentityKey = "identity"

	// NotificationBus event names consumed by the UI feedback widgets.
	EventXPUpdated           = "xp_updated"
	EventStreakUpdated       = "streak_updated"
	EventAchievementUnlocked = "achievement_unlocked"

	ChallengeTypeLesson    = "lesson"
	ChallengeTypeQuiz      = "quiz"
	ChallengeTypeFlashcard = "flashcard"

	RequirementTypeXP      = "xp"
	RequirementTypeLessons = "lessons"
	RequirementTypeQuizzes = "quizzes"
	RequirementTypeStreak  = "streak"
	RequirementTypeLevel   = "level"
)
