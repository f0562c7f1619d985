package services

import (
	goctx "context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const REDIS_SVC = "redis_svc"

// RedisService backs the local progress cache and the rate limiter. Every
// method nil-guards the client so a failed connection degrades features
// instead of panicking.
type RedisService struct {
	context.DefaultService

	redis *redis.Client
	addr  string
	pass  string
	db    int
}

func (svc RedisService) Id() string {
	return REDIS_SVC
}

func (svc *RedisService) Configure(ctx *context.Context) error {
	svc.addr = envOr("REDIS_ADDR", "localhost:6379")
	svc.pass = os.Getenv("REDIS_PASSWORD")
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		svc.db = db
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *RedisService) Start() error {
	client := redis.NewClient(&redis.Options{
		Addr:     svc.addr,
		Password: svc.pass,
		DB:       svc.db,
	})

	pingCtx, cancel := goctx.WithTimeout(goctx.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("redis unreachable, local cache and rate limiting disabled")
		return nil
	}

	svc.redis = client
	log.Info("redis_svc started")
	return nil
}

func (svc *RedisService) Shutdown() {
	if svc.redis != nil {
		_ = svc.redis.Close()
	}
}

func (svc *RedisService) Available() bool {
	return svc.redis != nil
}

func (svc *RedisService) Set(ctx goctx.Context, key string, value interface{}, expiry time.Duration) error {
	if svc.redis == nil {
		return fmt.Errorf("redis not available")
	}
	return svc.redis.Set(ctx, key, value, expiry).Err()
}

func (svc *RedisService) SetJSON(ctx goctx.Context, key string, value interface{}, expiry time.Duration) error {
	if svc.redis == nil {
		return fmt.Errorf("redis not available")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return svc.redis.Set(ctx, key, data, expiry).Err()
}

func (svc *RedisService) Get(ctx goctx.Context, key string) (string, error) {
	if svc.redis == nil {
		return "", fmt.Errorf("redis not available")
	}
	return svc.redis.Get(ctx, key).Result()
}

// GetJSON unmarshals the stored value into out. Returns redis.Nil when the
// key does not exist.
func (svc *RedisService) GetJSON(ctx goctx.Context, key string, out interface{}) error {
	if svc.redis == nil {
		return fmt.Errorf("redis not available")
	}
	data, err := svc.redis.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (svc *RedisService) Delete(ctx goctx.Context, keys ...string) error {
	if svc.redis == nil {
		return fmt.Errorf("redis not available")
	}
	return svc.redis.Del(ctx, keys...).Err()
}

func (svc *RedisService) Exists(ctx goctx.Context, key string) (bool, error) {
	if svc.redis == nil {
		return false, fmt.Errorf("redis not available")
	}
	n, err := svc.redis.Exists(ctx, key).Result()
	return n > 0, err
}

func (svc *RedisService) Increment(ctx goctx.Context, key string) (int64, error) {
	if svc.redis == nil {
		return 0, fmt.Errorf("redis not available")
	}
	return svc.redis.Incr(ctx, key).Result()
}

func (svc *RedisService) Expire(ctx goctx.Context, key string, expiry time.Duration) error {
	if svc.redis == nil {
		return fmt.Errorf("redis not available")
	}
	return svc.redis.Expire(ctx, key, expiry).Err()
}
