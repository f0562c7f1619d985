package handlers

import (
	goctx "context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/elementa-lab/elementa_api/dto"
	"github.com/elementa-lab/elementa_api/model"
	"github.com/elementa-lab/elementa_api/shared"
)

type stubProgressService struct {
	lastLesson string
	lastAmount int
}

func (s *stubProgressService) GetProgress(_ goctx.Context, identity model.Identity) (*dto.ProgressResponse, error) {
	return &dto.ProgressResponse{UserKey: identity.StorageKey(), Level: 1, Backend: "remote"}, nil
}

func (s *stubProgressService) GetDailyChallenges(goctx.Context, model.Identity) (*dto.ChallengeSetResponse, error) {
	return &dto.ChallengeSetResponse{}, nil
}

func (s *stubProgressService) GetAchievementCatalog() *dto.CatalogResponse {
	return &dto.CatalogResponse{}
}

func (s *stubProgressService) GetLeaderboard(int) (*dto.LeaderboardResponse, error) {
	return &dto.LeaderboardResponse{}, nil
}

func (s *stubProgressService) AddXP(_ goctx.Context, _ model.Identity, amount int) (*dto.XPResponse, error) {
	s.lastAmount = amount
	return &dto.XPResponse{XP: amount, Level: 1}, nil
}

func (s *stubProgressService) CompleteLesson(_ goctx.Context, _ model.Identity, lessonID string) (*dto.ProgressResponse, error) {
	s.lastLesson = lessonID
	return &dto.ProgressResponse{CompletedLessons: []string{lessonID}}, nil
}

func (s *stubProgressService) SaveQuizScore(_ goctx.Context, _ model.Identity, quizID string, score int) (*dto.QuizScoreResponse, error) {
	return &dto.QuizScoreResponse{QuizID: quizID, BestScore: score, Improved: true}, nil
}

func (s *stubProgressService) CheckStreak(goctx.Context, model.Identity) (*dto.StreakResponse, error) {
	return &dto.StreakResponse{Updated: true}, nil
}

func (s *stubProgressService) UnlockAchievement(_ goctx.Context, _ model.Identity, achievementID string) (*dto.AchievementResponse, error) {
	if achievementID == "no_such_badge" {
		return nil, shared.NewNotFoundError(nil, "Unknown achievement")
	}
	return &dto.AchievementResponse{Unlocked: true}, nil
}

func (s *stubProgressService) UpdateChallengeProgress(goctx.Context, model.Identity, string, int) (*dto.ChallengeSetResponse, error) {
	return &dto.ChallengeSetResponse{BonusXP: 20}, nil
}

func testApp(stub *stubProgressService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := shared.GetAppError(err); ok {
				return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
			}
			return shared.ResponseJSON(c, fiber.StatusInternalServerError, "Internal Server Error", nil)
		},
	})

	app.Use(func(c *fiber.Ctx) error {
		c.Locals(shared.IdentityKey, model.Identity{UserID: "u1"})
		return c.Next()
	})

	h := NewProgressHandler(stub)
	app.Get("/progress", h.GetProgress)
	app.Post("/progress/xp", h.AddXP)
	app.Post("/progress/lessons/complete", h.CompleteLesson)
	app.Post("/progress/achievements/unlock", h.UnlockAchievement)
	return app
}

func decodeEnvelope(t *testing.T, body io.Reader) shared.Response {
	t.Helper()
	var envelope shared.Response
	assert.NoError(t, json.NewDecoder(body).Decode(&envelope))
	return envelope
}

func TestProgressHandler_GetProgress(t *testing.T) {
	app := testApp(&stubProgressService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/progress", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	envelope := decodeEnvelope(t, resp.Body)
	assert.Equal(t, 200, envelope.Code)

	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "u1", data["user_key"])
}

func TestProgressHandler_AddXP(t *testing.T) {
	stub := &stubProgressService{}
	app := testApp(stub)

	req := httptest.NewRequest("POST", "/progress/xp", strings.NewReader(`{"amount":50}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 50, stub.lastAmount)
}

func TestProgressHandler_AddXPValidation(t *testing.T) {
	app := testApp(&stubProgressService{})

	req := httptest.NewRequest("POST", "/progress/xp", strings.NewReader(`{"amount":0}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestProgressHandler_CompleteLesson(t *testing.T) {
	stub := &stubProgressService{}
	app := testApp(stub)

	req := httptest.NewRequest("POST", "/progress/lessons/complete", strings.NewReader(`{"lesson_id":"L1"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "L1", stub.lastLesson)
}

func TestProgressHandler_UnknownAchievement(t *testing.T) {
	app := testApp(&stubProgressService{})

	req := httptest.NewRequest("POST", "/progress/achievements/unlock", strings.NewReader(`{"achievement_id":"no_such_badge"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
