package services

import (
	"errors"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"github.com/elementa-lab/elementa_api/services/handlers"
	"github.com/elementa-lab/elementa_api/shared"
)

const HTTP_SVC = "http_svc"

// HttpService is the public API surface. It wires the progress handlers
// behind auth, rate limiting and monitoring middleware and blocks in Start
// until shutdown.
type HttpService struct {
	context.DefaultService

	app  *fiber.App
	port string
}

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	svc.port = envOr("HTTP_PORT", "8080")
	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	progressSvc := svc.Service(PROGRESS_SVC).(*ProgressService)
	authSvc := svc.Service(AUTH_SVC).(*AuthService)
	rateLimitSvc := svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	monitoringSvc := svc.Service(MONITORING_SVC).(*MonitoringService)

	svc.app = fiber.New(fiber.Config{
		AppName:      "elementa_api",
		ErrorHandler: errorHandler,
	})

	svc.app.Use(recover.New())
	svc.app.Use(cors.New())
	svc.app.Use(monitoringSvc.Middleware())

	svc.app.Get("/ping", func(c *fiber.Ctx) error {
		return shared.ResponseOK(c, nil)
	})

	h := handlers.NewProgressHandler(progressSvc)

	api := svc.app.Group("/api/v1", authSvc.OptionalAuth())

	read := rateLimitSvc.Middleware("read")
	write := rateLimitSvc.Middleware("write")

	api.Get("/progress", read, h.GetProgress)
	api.Post("/progress/xp", write, h.AddXP)
	api.Post("/progress/lessons/complete", write, h.CompleteLesson)
	api.Post("/progress/quizzes/score", write, h.SaveQuizScore)
	api.Post("/progress/streak/check", write, h.CheckStreak)
	api.Post("/progress/achievements/unlock", write, h.UnlockAchievement)
	api.Get("/progress/challenges", read, h.GetDailyChallenges)
	api.Post("/progress/challenges/advance", write, h.UpdateChallengeProgress)
	api.Get("/achievements", read, h.GetAchievementCatalog)
	api.Get("/leaderboard", read, h.GetLeaderboard)

	log.Infof("http_svc listening on :%s", svc.port)
	return svc.app.Listen(":" + svc.port)
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// errorHandler maps service errors onto the response envelope. AppErrors keep
// their status; anything else is a 500 with the detail kept out of the body.
func errorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("unhandled error")
	return shared.ResponseJSON(c, fiber.StatusInternalServerError, "Internal Server Error", nil)
}
