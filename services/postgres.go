package services

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/elementa-lab/elementa_api/model"
	"github.com/elementa-lab/elementa_api/shared"
)

const POSTGRES_SVC = "postgres_svc"

// PostgresService owns the remote progress backend. It is the authoritative
// store for authenticated learners; guests never touch it.
type PostgresService struct {
	context.DefaultService

	db  *gorm.DB
	dsn string
}

func (svc PostgresService) Id() string {
	return POSTGRES_SVC
}

func (svc *PostgresService) Db() *gorm.DB {
	return svc.db
}

func (svc *PostgresService) Configure(ctx *context.Context) error {
	svc.dsn = os.Getenv("DATABASE_DSN")
	if svc.dsn == "" {
		svc.dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			envOr("POSTGRES_HOST", "localhost"),
			envOr("POSTGRES_USER", "postgres"),
			os.Getenv("POSTGRES_PASSWORD"),
			envOr("POSTGRES_DB", "elementa"),
			envOr("POSTGRES_PORT", "5432"),
			envOr("POSTGRES_SSLMODE", "disable"),
		)
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *PostgresService) Start() error {
	var err error
	maxRetries := 5
	for attempt := 1; attempt <= maxRetries; attempt++ {
		svc.db, err = gorm.Open(postgres.Open(svc.dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err == nil {
			break
		}
		wait := time.Duration(attempt) * 2 * time.Second
		log.WithError(err).Warnf("postgres connect attempt %d/%d failed, retrying in %s", attempt, maxRetries, wait)
		time.Sleep(wait)
	}
	if err != nil {
		return fmt.Errorf("postgres unavailable after %d attempts: %w", maxRetries, err)
	}

	if err := svc.db.AutoMigrate(&model.UserProgress{}); err != nil {
		return err
	}

	log.Info("postgres_svc started")
	return nil
}

func (svc *PostgresService) Shutdown() {
	if svc.db == nil {
		return
	}
	if sqlDB, err := svc.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// HandleError maps storage errors onto API errors and logs the unexpected
// ones.
func (svc *PostgresService) HandleError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(err, "Record not found")
	}
	log.WithError(err).Error("database error")
	return shared.NewInternalError(err, "Database error")
}

// ==================== PROGRESS ====================

func (svc *PostgresService) GetProgressByKey(userKey string) (*model.UserProgress, error) {
	var row model.UserProgress
	err := svc.db.Where("user_key = ?", userKey).First(&row).Error
	if err != nil {
		return nil, svc.HandleError(err)
	}
	return &row, nil
}

func (svc *PostgresService) CreateProgress(row *model.UserProgress) error {
	if row.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return shared.NewInternalError(err, "Failed to generate id")
		}
		row.ID = id.String()
	}
	return svc.HandleError(svc.db.Create(row).Error)
}

// UpdateProgressFields writes only the given columns for one learner so
// concurrent writers of different fields never clobber each other.
func (svc *PostgresService) UpdateProgressFields(userKey string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	result := svc.db.Model(&model.UserProgress{}).
		Where("user_key = ?", userKey).
		Updates(fields)
	if result.Error != nil {
		return svc.HandleError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError(gorm.ErrRecordNotFound, "Progress record not found")
	}
	return nil
}

// GetTopProgress returns the all-time XP leaderboard rows.
func (svc *PostgresService) GetTopProgress(limit int) ([]model.UserProgress, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var rows []model.UserProgress
	err := svc.db.
		Order("xp DESC, updated_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, svc.HandleError(err)
	}
	return rows, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
