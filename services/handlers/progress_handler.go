package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/elementa-lab/elementa_api/dto"
	"github.com/elementa-lab/elementa_api/model"
	"github.com/elementa-lab/elementa_api/shared"
)

type ProgressHandler struct {
	progressSvc ProgressServiceInterface
}

func NewProgressHandler(progressSvc ProgressServiceInterface) *ProgressHandler {
	return &ProgressHandler{progressSvc: progressSvc}
}

func identityFromCtx(c *fiber.Ctx) model.Identity {
	if identity, ok := c.Locals(shared.IdentityKey).(model.Identity); ok {
		return identity
	}
	return model.Identity{}
}

// GetProgress godoc
// @Summary Get the caller's progress snapshot
// @Tags progress
// @Produce json
// @Success 200 {object} dto.ProgressResponse
// @Router /api/v1/progress [get]
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	resp, err := h.progressSvc.GetProgress(c.UserContext(), identityFromCtx(c))
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, resp)
}

// AddXP godoc
// @Summary Grant XP to the caller
// @Tags progress
// @Accept json
// @Produce json
// @Param request body dto.AddXPRequest true "XP amount"
// @Success 200 {object} dto.XPResponse
// @Router /api/v1/progress/xp [post]
func (h *ProgressHandler) AddXP(c *fiber.Ctx) error {
	var req dto.AddXPRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.ValidateStruct(req); err != nil {
		return shared.NewBadRequestError(err, dto.FormatValidationErrors(err))
	}

	resp, err := h.progressSvc.AddXP(c.UserContext(), identityFromCtx(c), req.Amount)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, resp)
}

// CompleteLesson godoc
// @Summary Record a lesson completion
// @Tags progress
// @Accept json
// @Produce json
// @Param request body dto.CompleteLessonRequest true "Lesson id"
// @Success 200 {object} dto.ProgressResponse
// @Router /api/v1/progress/lessons/complete [post]
func (h *ProgressHandler) CompleteLesson(c *fiber.Ctx) error {
	var req dto.CompleteLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.ValidateStruct(req); err != nil {
		return shared.NewBadRequestError(err, dto.FormatValidationErrors(err))
	}

	resp, err := h.progressSvc.CompleteLesson(c.UserContext(), identityFromCtx(c), req.LessonID)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, resp)
}

// SaveQuizScore godoc
// @Summary Record a quiz result
// @Tags progress
// @Accept json
// @Produce json
// @Param request body dto.SaveQuizScoreRequest true "Quiz result"
// @Success 200 {object} dto.QuizScoreResponse
// @Router /api/v1/progress/quizzes/score [post]
func (h *ProgressHandler) SaveQuizScore(c *fiber.Ctx) error {
	var req dto.SaveQuizScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.ValidateStruct(req); err != nil {
		return shared.NewBadRequestError(err, dto.FormatValidationErrors(err))
	}

	resp, err := h.progressSvc.SaveQuizScore(c.UserContext(), identityFromCtx(c), req.QuizID, req.Score)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, resp)
}

// CheckStreak godoc
// @Summary Apply today's activity to the caller's streak
// @Tags progress
// @Produce json
// @Success 200 {object} dto.StreakResponse
// @Router /api/v1/progress/streak/check [post]
func (h *ProgressHandler) CheckStreak(c *fiber.Ctx) error {
	resp, err := h.progressSvc.CheckStreak(c.UserContext(), identityFromCtx(c))
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, resp)
}

// UnlockAchievement godoc
// @Summary Unlock a catalog achievement
// @Tags achievements
// @Accept json
// @Produce json
// @Param request body dto.UnlockAchievementRequest true "Achievement id"
// @Success 200 {object} dto.AchievementResponse
// @Router /api/v1/progress/achievements/unlock [post]
func (h *ProgressHandler) UnlockAchievement(c *fiber.Ctx) error {
	var req dto.UnlockAchievementRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.ValidateStruct(req); err != nil {
		return shared.NewBadRequestError(err, dto.FormatValidationErrors(err))
	}

	resp, err := h.progressSvc.UnlockAchievement(c.UserContext(), identityFromCtx(c), req.AchievementID)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, resp)
}

// UpdateChallengeProgress godoc
// @Summary Advance today's challenges of one type
// @Tags challenges
// @Accept json
// @Produce json
// @Param request body dto.UpdateChallengeProgressRequest true "Challenge progress"
// @Success 200 {object} dto.ChallengeSetResponse
// @Router /api/v1/progress/challenges/advance [post]
func (h *ProgressHandler) UpdateChallengeProgress(c *fiber.Ctx) error {
	var req dto.UpdateChallengeProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.ValidateStruct(req); err != nil {
		return shared.NewBadRequestError(err, dto.FormatValidationErrors(err))
	}

	resp, err := h.progressSvc.UpdateChallengeProgress(c.UserContext(), identityFromCtx(c), req.Type, req.Amount)
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, resp)
}

// GetDailyChallenges godoc
// @Summary Get today's challenge set
// @Tags challenges
// @Produce json
// @Success 200 {object} dto.ChallengeSetResponse
// @Router /api/v1/progress/challenges [get]
func (h *ProgressHandler) GetDailyChallenges(c *fiber.Ctx) error {
	resp, err := h.progressSvc.GetDailyChallenges(c.UserContext(), identityFromCtx(c))
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, resp)
}

// GetAchievementCatalog godoc
// @Summary List all achievements
// @Tags achievements
// @Produce json
// @Success 200 {object} dto.CatalogResponse
// @Router /api/v1/achievements [get]
func (h *ProgressHandler) GetAchievementCatalog(c *fiber.Ctx) error {
	return shared.ResponseOK(c, h.progressSvc.GetAchievementCatalog())
}

// GetLeaderboard godoc
// @Summary All-time XP leaderboard
// @Tags progress
// @Produce json
// @Param limit query int false "Max entries (default 10)"
// @Success 200 {object} dto.LeaderboardResponse
// @Router /api/v1/leaderboard [get]
func (h *ProgressHandler) GetLeaderboard(c *fiber.Ctx) error {
	resp, err := h.progressSvc.GetLeaderboard(c.QueryInt("limit", 10))
	if err != nil {
		return err
	}
	return shared.ResponseOK(c, resp)
}
