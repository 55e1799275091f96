package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petromatch/internal/pkg/jwt"
)

type tokenTable map[string]uuid.UUID

func (t tokenTable) VerifyAccessToken(token string) (uuid.UUID, error) {
	switch token {
	case "expired":
		return uuid.Nil, jwt.ErrTokenExpired
	}
	id, ok := t[token]
	if !ok {
		return uuid.Nil, jwt.ErrTokenInvalid
	}
	return id, nil
}

func newApp(logs *bytes.Buffer, tokens AccessTokenVerifier) *fiber.App {
	logger := log.New(logs, "", 0)
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(logger, "/health").Middleware())
	app.Use(NewErrorMiddleware(logger).Middleware())
	app.Get("/health", func(c fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/panic", func(c fiber.Ctx) error { panic("kaboom") })
	app.Get("/boom", func(c fiber.Ctx) error { return errors.New("db down") })
	app.Get("/me", NewAuthMiddleware(tokens).Middleware(), func(c fiber.Ctx) error {
		return c.SendString(c.Locals(CtxUserIDKey).(uuid.UUID).String())
	})
	return app
}

func statusOf(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthMiddleware(t *testing.T) {
	alice := uuid.New()
	app := newApp(&bytes.Buffer{}, tokenTable{"good": alice})

	cases := []struct {
		header string
		status int
	}{
		{"", fiber.StatusUnauthorized},
		{"Basic good", fiber.StatusUnauthorized},
		{"Bearer ", fiber.StatusUnauthorized},
		{"Bearer expired", fiber.StatusUnauthorized},
		{"Bearer forged", fiber.StatusUnauthorized},
		{"bearer good", fiber.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		status, body := statusOf(t, app, req)
		assert.Equal(t, tc.status, status, "header=%q", tc.header)
		if status == fiber.StatusOK {
			assert.Equal(t, alice.String(), body)
		}
	}
}

func TestAuthMiddleware_ExpiredMessage(t *testing.T) {
	app := newApp(&bytes.Buffer{}, tokenTable{})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer expired")

	_, body := statusOf(t, app, req)
	var env struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	assert.Equal(t, "Token expired", env.Message)
}

func TestErrorMiddleware_HidesInternalErrors(t *testing.T) {
	logs := &bytes.Buffer{}
	app := newApp(logs, tokenTable{})

	status, body := statusOf(t, app, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.NotContains(t, body, "db down")
	assert.Contains(t, logs.String(), "db down")
	assert.Contains(t, logs.String(), "HTTP request error | rid=")

	status, _ = statusOf(t, app, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Contains(t, logs.String(), "kaboom")
}

func TestAccessLog_RequestIDAndSkip(t *testing.T) {
	logs := &bytes.Buffer{}
	app := newApp(logs, tokenTable{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
	assert.NotContains(t, logs.String(), "HTTP access")

	req = httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(HeaderRequestID, "rid-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "rid-123", resp.Header.Get(HeaderRequestID))
	assert.Contains(t, logs.String(), "rid=rid-123")
	assert.Contains(t, logs.String(), "status=500")
}
