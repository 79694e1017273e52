package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tasklist-api/internal/auth"
	"tasklist-api/pkg/logger"
)

// UserIDLocal is the c.Locals key holding the authenticated user id.
const UserIDLocal = "userID"

type TokenVerifier interface {
	Verify(token string) (int, error)
}

// UseToken rejects requests without a valid bearer token. A missing token is
// 401; a token that is present but invalid or expired is 403. On success the
// user id is stored in c.Locals before the next handler runs.
func UseToken(tokens TokenVerifier, log *logger.Loggers) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var userID int
		token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err == nil {
			userID, err = tokens.Verify(token)
		}
		if err != nil {
			status, msg := fiber.StatusForbidden, "invalid token"
			switch {
			case errors.Is(err, auth.ErrTokenMissing):
				status, msg = fiber.StatusUnauthorized, "no token provided"
			case errors.Is(err, auth.ErrTokenExpired):
				msg = "token expired"
			}
			log.Security.Warn("Rejected token",
				zap.String("reason", msg),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			return c.Status(status).JSON(fiber.Map{"error": msg})
		}

		c.Locals(UserIDLocal, userID)
		return c.Next()
	}
}

// bearerToken extracts the credential from "Bearer <token>". A header with no
// credential after the scheme counts as missing; any scheme other than Bearer
// is an invalid credential.
func bearerToken(header string) (string, error) {
	scheme, token, _ := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if token == "" {
		return "", auth.ErrTokenMissing
	}
	if !strings.EqualFold(scheme, "Bearer") {
		return "", auth.ErrTokenInvalid
	}
	return token, nil
}

// UserID returns the id stored by UseToken.
func UserID(c *fiber.Ctx) (int, bool) {
	id, ok := c.Locals(UserIDLocal).(int)
	return id, ok && id > 0
}
