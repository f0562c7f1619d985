package services

import (
	goctx "context"
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"github.com/elementa-lab/elementa_api/model"
	"github.com/elementa-lab/elementa_api/shared"
)

// remoteProgressStore maps progress records onto the postgres row. Writes are
// per-field column updates, so two writers touching different fields merge
// instead of overwriting each other; the same field is last-write-wins.
type remoteProgressStore struct {
	sql *PostgresService
}

func (s *remoteProgressStore) Load(ctx goctx.Context, userKey string) (*model.ProgressRecord, error) {
	row, err := s.sql.GetProgressByKey(userKey)
	if err != nil {
		appErr, ok := shared.GetAppError(err)
		if !ok || appErr.StatusCode != 404 {
			return nil, err
		}
		// first access creates the default record
		record := model.NewProgressRecord(userKey)
		if err := s.sql.CreateProgress(recordToRow(record)); err != nil {
			return nil, err
		}
		return record, nil
	}
	return rowToRecord(row), nil
}

func (s *remoteProgressStore) Save(ctx goctx.Context, userKey string, update model.ProgressUpdate) error {
	fields := map[string]interface{}{}

	if update.XP != nil {
		fields["xp"] = *update.XP
	}
	if update.Level != nil {
		fields["level"] = *update.Level
	}
	if update.Streak != nil {
		fields["current_streak"] = update.Streak.CurrentStreak
		fields["longest_streak"] = update.Streak.LongestStreak
		fields["last_active_date"] = update.Streak.LastActiveDate
		fields["total_days_active"] = update.Streak.TotalDaysActive
	}
	if update.CompletedLessons != nil {
		raw, err := json.Marshal(update.CompletedLessons)
		if err != nil {
			return err
		}
		fields["completed_lessons"] = raw
	}
	if update.QuizScores != nil {
		raw, err := json.Marshal(update.QuizScores)
		if err != nil {
			return err
		}
		fields["quiz_scores"] = raw
	}
	if update.UnlockedAchievements != nil {
		raw, err := json.Marshal(update.UnlockedAchievements)
		if err != nil {
			return err
		}
		fields["unlocked_achievements"] = raw
	}
	if update.DailyChallenges != nil {
		raw, err := json.Marshal(update.DailyChallenges)
		if err != nil {
			return err
		}
		fields["daily_challenges"] = raw
	}

	return s.sql.UpdateProgressFields(userKey, fields)
}

func recordToRow(r *model.ProgressRecord) *model.UserProgress {
	row := &model.UserProgress{
		UserKey:         r.UserKey,
		XP:              r.XP,
		Level:           r.Level,
		CurrentStreak:   r.Streak.CurrentStreak,
		LongestStreak:   r.Streak.LongestStreak,
		LastActiveDate:  r.Streak.LastActiveDate,
		TotalDaysActive: r.Streak.TotalDaysActive,
	}
	row.CompletedLessons, _ = json.Marshal(r.CompletedLessons)
	row.QuizScores, _ = json.Marshal(r.QuizScores)
	row.UnlockedAchievements, _ = json.Marshal(r.UnlockedAchievements)
	row.DailyChallenges, _ = json.Marshal(r.DailyChallenges)
	return row
}

// rowToRecord converts a stored row back to the typed record. A malformed
// JSON column resets that field to its default instead of failing the load.
func rowToRecord(row *model.UserProgress) *model.ProgressRecord {
	record := model.NewProgressRecord(row.UserKey)
	record.XP = row.XP
	record.Level = row.Level
	record.Streak = model.StreakData{
		CurrentStreak:   row.CurrentStreak,
		LongestStreak:   row.LongestStreak,
		LastActiveDate:  row.LastActiveDate,
		TotalDaysActive: row.TotalDaysActive,
	}

	unmarshalField(row.CompletedLessons, &record.CompletedLessons, row.UserKey, "completed_lessons")
	unmarshalField(row.QuizScores, &record.QuizScores, row.UserKey, "quiz_scores")
	unmarshalField(row.UnlockedAchievements, &record.UnlockedAchievements, row.UserKey, "unlocked_achievements")
	unmarshalField(row.DailyChallenges, &record.DailyChallenges, row.UserKey, "daily_challenges")
	return record
}

func unmarshalField(raw json.RawMessage, out interface{}, userKey, field string) {
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"user_key": userKey,
			"field":    field,
		}).Warn("malformed stored field, using default")
	}
}
