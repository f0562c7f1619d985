package services

import (
	goctx "context"
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/elementa-lab/elementa_api/dto"
	"github.com/elementa-lab/elementa_api/engine"
	"github.com/elementa-lab/elementa_api/model"
	"github.com/elementa-lab/elementa_api/shared"
)

const PROGRESS_SVC = "progress_svc"

// XP granted for completing a lesson. Challenge bonuses come on top, through
// the same award path.
const lessonCompletionXP = 25

// ProgressService implements the gamification operations: XP and levels,
// streaks, achievements and daily challenges. It owns no state of its own;
// every operation loads the learner's record, applies the engine rules and
// persists only the fields that changed.
type ProgressService struct {
	context.DefaultService

	store ProgressStore
	bus   *NotificationService
	sql   *PostgresService

	now func() time.Time
}

func (svc ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Start() error {
	if svc.store == nil {
		svc.store = svc.Service(STORE_SVC).(*ProgressStoreService)
	}
	if svc.bus == nil {
		svc.bus = svc.Service(NOTIFICATION_SVC).(*NotificationService)
	}
	if svc.sql == nil {
		if sqlSvc, ok := svc.Service(POSTGRES_SVC).(*PostgresService); ok {
			svc.sql = sqlSvc
		}
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return nil
}

// ==================== READS ====================

// GetProgress returns the learner's full progress snapshot, healing the
// stored level and rotating stale daily challenges on the way out.
func (svc *ProgressService) GetProgress(ctx goctx.Context, identity model.Identity) (*dto.ProgressResponse, error) {
	record, backend := svc.load(ctx, identity)
	return svc.toResponse(record, backend), nil
}

func (svc *ProgressService) GetDailyChallenges(ctx goctx.Context, identity model.Identity) (*dto.ChallengeSetResponse, error) {
	record, _ := svc.load(ctx, identity)
	return &dto.ChallengeSetResponse{Challenges: record.DailyChallenges}, nil
}

func (svc *ProgressService) GetAchievementCatalog() *dto.CatalogResponse {
	return &dto.CatalogResponse{Achievements: engine.AchievementCatalog()}
}

// GetLeaderboard ranks learners by all-time XP. Only remote records rank;
// guest progress lives in the local cache and is invisible here.
func (svc *ProgressService) GetLeaderboard(limit int) (*dto.LeaderboardResponse, error) {
	if svc.sql == nil {
		return nil, shared.NewInternalError(fmt.Errorf("leaderboard backend unavailable"), "Leaderboard unavailable")
	}
	rows, err := svc.sql.GetTopProgress(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, dto.LeaderboardEntry{
			Rank:    i + 1,
			UserKey: row.UserKey,
			XP:      row.XP,
			Level:   row.Level,
			Title:   engine.TitleOf(row.Level),
		})
	}
	return &dto.LeaderboardResponse{Entries: entries}, nil
}

// ==================== MUTATIONS ====================

// AddXP grants XP directly. XP only ever increases; the level is derived from
// the new total.
func (svc *ProgressService) AddXP(ctx goctx.Context, identity model.Identity, amount int) (*dto.XPResponse, error) {
	if amount <= 0 {
		return nil, shared.NewBadRequestError(nil, "XP amount must be positive")
	}

	record, _ := svc.load(ctx, identity)
	leveledUp := svc.awardXP(ctx, identity, record, amount)
	svc.unlockEarned(ctx, identity, record)

	return &dto.XPResponse{
		XP:            record.XP,
		Level:         record.Level,
		Title:         engine.TitleOf(record.Level),
		LevelProgress: engine.ProgressWithinLevel(record.XP),
		LeveledUp:     leveledUp,
	}, nil
}

// CompleteLesson records a lesson completion. Re-completing a lesson is a
// no-op; a first completion grants XP and advances the daily lesson
// challenge.
func (svc *ProgressService) CompleteLesson(ctx goctx.Context, identity model.Identity, lessonID string) (*dto.ProgressResponse, error) {
	if lessonID == "" {
		return nil, shared.NewBadRequestError(nil, "Lesson id required")
	}

	record, backend := svc.load(ctx, identity)
	if record.HasLesson(lessonID) {
		return svc.toResponse(record, backend), nil
	}

	record.CompletedLessons = append(record.CompletedLessons, lessonID)
	svc.save(ctx, identity, model.ProgressUpdate{CompletedLessons: record.CompletedLessons})

	svc.awardXP(ctx, identity, record, lessonCompletionXP)
	svc.advanceChallenges(ctx, identity, record, shared.ChallengeTypeLesson, 1)
	svc.unlockEarned(ctx, identity, record)

	return svc.toResponse(record, backend), nil
}

// SaveQuizScore records a quiz result, keeping only the best score per quiz.
// Every submission counts as an attempt toward the daily quiz challenge.
func (svc *ProgressService) SaveQuizScore(ctx goctx.Context, identity model.Identity, quizID string, score int) (*dto.QuizScoreResponse, error) {
	if quizID == "" {
		return nil, shared.NewBadRequestError(nil, "Quiz id required")
	}
	if score < 0 || score > 100 {
		return nil, shared.NewBadRequestError(nil, "Score must be between 0 and 100")
	}

	record, _ := svc.load(ctx, identity)

	best, seen := record.QuizScores[quizID]
	improved := !seen || score > best
	if improved {
		record.QuizScores[quizID] = score
		svc.save(ctx, identity, model.ProgressUpdate{QuizScores: record.QuizScores})
		best = score
	}

	svc.advanceChallenges(ctx, identity, record, shared.ChallengeTypeQuiz, 1)
	svc.unlockEarned(ctx, identity, record)

	return &dto.QuizScoreResponse{QuizID: quizID, BestScore: best, Improved: improved}, nil
}

// CheckStreak applies today's activity signal to the learner's streak.
// Calling it twice on the same day changes nothing and publishes nothing.
func (svc *ProgressService) CheckStreak(ctx goctx.Context, identity model.Identity) (*dto.StreakResponse, error) {
	record, _ := svc.load(ctx, identity)

	updated, changed := engine.AdvanceStreak(record.Streak, svc.now())
	if changed {
		record.Streak = updated
		svc.save(ctx, identity, model.ProgressUpdate{Streak: &updated})
		svc.bus.Publish(shared.EventStreakUpdated, StreakUpdatedPayload{
			UserKey:       record.UserKey,
			CurrentStreak: updated.CurrentStreak,
			LongestStreak: updated.LongestStreak,
		})
		svc.unlockEarned(ctx, identity, record)
	}

	return &dto.StreakResponse{Streak: record.Streak, Updated: changed}, nil
}

// UnlockAchievement unlocks one catalog achievement directly. Unlocks are
// permanent and idempotent; exactly one event fires per new unlock.
func (svc *ProgressService) UnlockAchievement(ctx goctx.Context, identity model.Identity, achievementID string) (*dto.AchievementResponse, error) {
	def, ok := engine.AchievementByID(achievementID)
	if !ok {
		return nil, shared.NewNotFoundError(nil, "Unknown achievement")
	}

	record, _ := svc.load(ctx, identity)
	if record.HasAchievement(achievementID) {
		return &dto.AchievementResponse{Achievement: def, Unlocked: false}, nil
	}

	svc.unlock(ctx, identity, record, def)
	return &dto.AchievementResponse{Achievement: def, Unlocked: true}, nil
}

// UpdateChallengeProgress advances today's challenges of one type. Completing
// a challenge pays its XP reward through the normal award path.
func (svc *ProgressService) UpdateChallengeProgress(ctx goctx.Context, identity model.Identity, challengeType string, amount int) (*dto.ChallengeSetResponse, error) {
	switch challengeType {
	case shared.ChallengeTypeLesson, shared.ChallengeTypeQuiz, shared.ChallengeTypeFlashcard:
	default:
		return nil, shared.NewBadRequestError(nil, "Unknown challenge type")
	}
	if amount <= 0 {
		return nil, shared.NewBadRequestError(nil, "Amount must be positive")
	}

	record, _ := svc.load(ctx, identity)
	bonus := svc.advanceChallenges(ctx, identity, record, challengeType, amount)
	svc.unlockEarned(ctx, identity, record)

	return &dto.ChallengeSetResponse{Challenges: record.DailyChallenges, BonusXP: bonus}, nil
}

// ==================== INTERNALS ====================

// load fetches the record and heals it: the level always re-derives from XP,
// and a challenge set from another day is replaced wholesale. Corrections are
// persisted immediately.
func (svc *ProgressService) load(ctx goctx.Context, identity model.Identity) (*model.ProgressRecord, Backend) {
	record, backend := svc.store.Load(ctx, identity)

	if level := engine.LevelOf(record.XP); level != record.Level {
		log.WithFields(log.Fields{
			"user_key": record.UserKey,
			"stored":   record.Level,
			"derived":  level,
		}).Warn("stored level out of sync with xp, correcting")
		record.Level = level
		svc.save(ctx, identity, model.ProgressUpdate{Level: &level})
	}

	if engine.ChallengeSetStale(record.DailyChallenges, svc.now()) {
		fresh := engine.GenerateDailyChallenges(svc.now())
		record.DailyChallenges = fresh
		svc.save(ctx, identity, model.ProgressUpdate{DailyChallenges: &fresh})
	}

	return record, backend
}

func (svc *ProgressService) save(ctx goctx.Context, identity model.Identity, update model.ProgressUpdate) {
	svc.store.Save(ctx, identity, update)
}

// awardXP is the single XP entry point. Reports whether the award crossed a
// level threshold.
func (svc *ProgressService) awardXP(ctx goctx.Context, identity model.Identity, record *model.ProgressRecord, amount int) bool {
	record.XP += amount
	newLevel := engine.LevelOf(record.XP)
	leveledUp := newLevel > record.Level
	record.Level = newLevel

	xp, level := record.XP, record.Level
	svc.save(ctx, identity, model.ProgressUpdate{XP: &xp, Level: &level})

	xpGranted.Add(float64(amount))
	svc.bus.Publish(shared.EventXPUpdated, XPUpdatedPayload{
		UserKey: record.UserKey,
		XP:      record.XP,
		Level:   record.Level,
		Gained:  amount,
	})
	return leveledUp
}

// advanceChallenges moves today's challenges forward and pays completion
// bonuses. Returns the bonus XP granted.
func (svc *ProgressService) advanceChallenges(ctx goctx.Context, identity model.Identity, record *model.ProgressRecord, challengeType string, amount int) int {
	updated, bonus := engine.AdvanceChallenges(record.DailyChallenges, challengeType, amount)
	record.DailyChallenges = updated
	svc.save(ctx, identity, model.ProgressUpdate{DailyChallenges: &updated})

	if bonus > 0 {
		challengesCompleted.Inc()
		svc.awardXP(ctx, identity, record, bonus)
	}
	return bonus
}

// unlockEarned evaluates the catalog against the current record and unlocks
// everything newly earned.
func (svc *ProgressService) unlockEarned(ctx goctx.Context, identity model.Identity, record *model.ProgressRecord) {
	for _, id := range engine.EvaluateAchievements(record.Snapshot(), record.UnlockedAchievements) {
		def, ok := engine.AchievementByID(id)
		if !ok {
			continue
		}
		svc.unlock(ctx, identity, record, def)
	}
}

func (svc *ProgressService) unlock(ctx goctx.Context, identity model.Identity, record *model.ProgressRecord, def model.AchievementDefinition) {
	record.UnlockedAchievements = append(record.UnlockedAchievements, def.ID)
	svc.save(ctx, identity, model.ProgressUpdate{UnlockedAchievements: record.UnlockedAchievements})

	achievementsUnlocked.Inc()
	svc.bus.Publish(shared.EventAchievementUnlocked, AchievementUnlockedPayload{
		UserKey:       record.UserKey,
		AchievementID: def.ID,
		Name:          def.Name,
		Icon:          def.Icon,
	})
}

func (svc *ProgressService) toResponse(record *model.ProgressRecord, backend Backend) *dto.ProgressResponse {
	return &dto.ProgressResponse{
		UserKey:              record.UserKey,
		XP:                   record.XP,
		Level:                record.Level,
		Title:                engine.TitleOf(record.Level),
		LevelProgress:        engine.ProgressWithinLevel(record.XP),
		Streak:               record.Streak,
		CompletedLessons:     record.CompletedLessons,
		QuizScores:           record.QuizScores,
		UnlockedAchievements: record.UnlockedAchievements,
		DailyChallenges:      record.DailyChallenges,
		Backend:              string(backend),
	}
}
