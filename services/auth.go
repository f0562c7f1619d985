package services

import (
	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/elementa-lab/elementa_api/model"
	"github.com/elementa-lab/elementa_api/shared"
)

const AUTH_SVC = "auth_svc"

// AuthService resolves the caller's identity for each request. A valid bearer
// token yields an authenticated identity; otherwise the X-Device-ID header
// scopes the caller as a guest whose progress lives only in the local cache.
type AuthService struct {
	context.DefaultService

	jwtSvc *JWTService
}

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Start() error {
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	return nil
}

// OptionalAuth accepts both authenticated and guest callers. An invalid or
// expired token degrades to guest rather than failing, matching the silent
// fallback of the store.
func (svc *AuthService) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := svc.resolve(c)
		if !identity.Authenticated() && identity.DeviceID == "" {
			return shared.NewBadRequestError(nil, "X-Device-ID header required for guest access")
		}
		c.Locals(shared.IdentityKey, identity)
		return c.Next()
	}
}

// RequiredAuth rejects guests. Used for surfaces that only make sense for
// signed-in learners.
func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := svc.resolve(c)
		if !identity.Authenticated() {
			return shared.NewUnauthorizedError(nil, "Authentication required")
		}
		c.Locals(shared.IdentityKey, identity)
		return c.Next()
	}
}

func (svc *AuthService) resolve(c *fiber.Ctx) model.Identity {
	deviceID := c.Get("X-Device-ID")

	token := svc.jwtSvc.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		return model.Identity{DeviceID: deviceID}
	}

	identity, err := svc.jwtSvc.VerifyToken(token)
	if err != nil {
		log.WithError(err).Debug("token rejected, treating caller as guest")
		return model.Identity{DeviceID: deviceID}
	}
	identity.DeviceID = deviceID
	return *identity
}

// CurrentIdentity reads the identity the middleware stored on the request.
func CurrentIdentity(c *fiber.Ctx) model.Identity {
	if identity, ok := c.Locals(shared.IdentityKey).(model.Identity); ok {
		return identity
	}
	return model.Identity{}
}
