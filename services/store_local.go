package services

import (
	goctx "context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/elementa-lab/elementa_api/model"
)

// localProgressStore keeps one redis key per top-level progress field, under
// progress:{user_key}:{field}. Keys carry no TTL; guest progress survives
// until the learner signs in or the cache is flushed.
type localProgressStore struct {
	cache *RedisService
}

func localKey(userKey, field string) string {
	return fmt.Sprintf("progress:%s:%s", userKey, field)
}

func (s *localProgressStore) Load(ctx goctx.Context, userKey string) (*model.ProgressRecord, error) {
	if !s.cache.Available() {
		return nil, fmt.Errorf("local cache not available")
	}

	record := model.NewProgressRecord(userKey)

	if v, err := s.cache.Get(ctx, localKey(userKey, "xp")); err == nil {
		if xp, perr := strconv.Atoi(v); perr == nil {
			record.XP = xp
		} else {
			log.WithField("user_key", userKey).Warn("malformed cached xp, using default")
		}
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	if v, err := s.cache.Get(ctx, localKey(userKey, "level")); err == nil {
		if level, perr := strconv.Atoi(v); perr == nil {
			record.Level = level
		}
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	if err := s.getJSONField(ctx, userKey, "streak", &record.Streak); err != nil {
		return nil, err
	}
	if err := s.getJSONField(ctx, userKey, "completed_lessons", &record.CompletedLessons); err != nil {
		return nil, err
	}
	if err := s.getJSONField(ctx, userKey, "quiz_scores", &record.QuizScores); err != nil {
		return nil, err
	}
	if err := s.getJSONField(ctx, userKey, "unlocked_achievements", &record.UnlockedAchievements); err != nil {
		return nil, err
	}
	if err := s.getJSONField(ctx, userKey, "daily_challenges", &record.DailyChallenges); err != nil {
		return nil, err
	}

	return record, nil
}

// getJSONField fills out from the cached field. Missing keys and malformed
// payloads both leave the default in place; only infrastructure errors
// propagate.
func (s *localProgressStore) getJSONField(ctx goctx.Context, userKey, field string, out interface{}) error {
	err := s.cache.GetJSON(ctx, localKey(userKey, field), out)
	if err == nil || errors.Is(err, redis.Nil) {
		return nil
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		log.WithFields(log.Fields{"user_key": userKey, "field": field}).
			Warn("malformed cached field, using default")
		return nil
	}
	return err
}

func (s *localProgressStore) Save(ctx goctx.Context, userKey string, update model.ProgressUpdate) error {
	if !s.cache.Available() {
		return fmt.Errorf("local cache not available")
	}

	if update.XP != nil {
		if err := s.cache.Set(ctx, localKey(userKey, "xp"), *update.XP, 0); err != nil {
			return err
		}
	}
	if update.Level != nil {
		if err := s.cache.Set(ctx, localKey(userKey, "level"), *update.Level, 0); err != nil {
			return err
		}
	}
	if update.Streak != nil {
		if err := s.cache.SetJSON(ctx, localKey(userKey, "streak"), update.Streak, 0); err != nil {
			return err
		}
	}
	if update.CompletedLessons != nil {
		if err := s.cache.SetJSON(ctx, localKey(userKey, "completed_lessons"), update.CompletedLessons, 0); err != nil {
			return err
		}
	}
	if update.QuizScores != nil {
		if err := s.cache.SetJSON(ctx, localKey(userKey, "quiz_scores"), update.QuizScores, 0); err != nil {
			return err
		}
	}
	if update.UnlockedAchievements != nil {
		if err := s.cache.SetJSON(ctx, localKey(userKey, "unlocked_achievements"), update.UnlockedAchievements, 0); err != nil {
			return err
		}
	}
	if update.DailyChallenges != nil {
		if err := s.cache.SetJSON(ctx, localKey(userKey, "daily_challenges"), update.DailyChallenges, 0); err != nil {
			return err
		}
	}
	return nil
}
