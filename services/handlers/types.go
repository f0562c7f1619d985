package handlers

import (
	goctx "context"

	"github.com/elementa-lab/elementa_api/dto"
	"github.com/elementa-lab/elementa_api/model"
)

// ProgressServiceInterface is what the HTTP layer needs from the progress
// service.
type ProgressServiceInterface interface {
	GetProgress(ctx goctx.Context, identity model.Identity) (*dto.ProgressResponse, error)
	GetDailyChallenges(ctx goctx.Context, identity model.Identity) (*dto.ChallengeSetResponse, error)
	GetAchievementCatalog() *dto.CatalogResponse
	GetLeaderboard(limit int) (*dto.LeaderboardResponse, error)

	AddXP(ctx goctx.Context, identity model.Identity, amount int) (*dto.XPResponse, error)
	CompleteLesson(ctx goctx.Context, identity model.Identity, lessonID string) (*dto.ProgressResponse, error)
	SaveQuizScore(ctx goctx.Context, identity model.Identity, quizID string, score int) (*dto.QuizScoreResponse, error)
	CheckStreak(ctx goctx.Context, identity model.Identity) (*dto.StreakResponse, error)
	UnlockAchievement(ctx goctx.Context, identity model.Identity, achievementID string) (*dto.AchievementResponse, error)
	UpdateChallengeProgress(ctx goctx.Context, identity model.Identity, challengeType string, amount int) (*dto.ChallengeSetResponse, error)
}
