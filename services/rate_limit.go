package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/elementa-lab/elementa_api/shared"
)

const RATE_LIMIT_SVC = "rate_limit_svc"

// RateLimitConfig is a fixed-window limit for one endpoint class.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

var rateLimitConfigs = map[string]RateLimitConfig{
	"read":  {MaxRequests: 120, Window: time.Minute},
	"write": {MaxRequests: 60, Window: time.Minute},
}

// RateLimitService throttles per caller using redis fixed windows. With redis
// down it fails open; progress writes matter more than throttling.
type RateLimitService struct {
	context.DefaultService

	cache *RedisService
}

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Start() error {
	svc.cache = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// Middleware enforces the named limit class per identity (or device, or
// client IP as a last resort).
func (svc *RateLimitService) Middleware(class string) fiber.Handler {
	cfg, ok := rateLimitConfigs[class]
	if !ok {
		cfg = rateLimitConfigs["write"]
	}

	return func(c *fiber.Ctx) error {
		if !svc.cache.Available() {
			return c.Next()
		}

		identity := CurrentIdentity(c)
		caller := identity.StorageKey()
		if caller == "guest_" {
			caller = "ip_" + c.IP()
		}

		key := fmt.Sprintf("rl:%s:%s", class, caller)
		count, err := svc.cache.Increment(c.UserContext(), key)
		if err != nil {
			log.WithError(err).Warn("rate limit counter failed, allowing request")
			return c.Next()
		}
		if count == 1 {
			if err := svc.cache.Expire(c.UserContext(), key, cfg.Window); err != nil {
				log.WithError(err).Warn("rate limit expiry failed")
			}
		}
		if count > int64(cfg.MaxRequests) {
			return shared.NewTooManyRequestsError(errors.New("rate limit exceeded"), "Too many requests")
		}
		return c.Next()
	}
}
