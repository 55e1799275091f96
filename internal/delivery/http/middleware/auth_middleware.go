package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"petromatch/internal/pkg/jwt"
)

// CtxUserIDKey holds the authenticated user's uuid.UUID in fiber locals.
const CtxUserIDKey = "user_id"

// AccessTokenVerifier is satisfied by jwt.HMACService. Refresh tokens must
// be rejected by the implementation.
type AccessTokenVerifier interface {
	VerifyAccessToken(token string) (uuid.UUID, error)
}

type AuthMiddleware struct {
	tokens AccessTokenVerifier
}

func NewAuthMiddleware(tokens AccessTokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Missing bearer token", nil, nil)
		}

		userID, err := m.tokens.VerifyAccessToken(token)
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
		case err != nil:
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		c.Locals(CtxUserIDKey, userID)
		return c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
