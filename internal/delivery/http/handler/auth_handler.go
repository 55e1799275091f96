package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"petromatch/internal/delivery/http/dto"
	"petromatch/internal/delivery/http/middleware"
	"petromatch/internal/pkg/response"
	"petromatch/internal/usecase"
)

type AuthHandler struct {
	uc  usecase.AuthUsecase
	now func() time.Time
}

func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc, now: time.Now}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	s, err := h.uc.Register(c.Context(), req.Email, req.Password)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "created", h.authResponse(s, true))
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	s, err := h.uc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.authResponse(s, true))
}

// Refresh takes the refresh token from the JSON body, falling back to the
// Authorization header for clients that send it as a bearer.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var req dto.RefreshRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
		}
	}
	if req.RefreshToken == "" {
		req.RefreshToken, _ = middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
	}
	if req.RefreshToken == "" {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Missing refresh token", nil, nil)
	}

	s, err := h.uc.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, h.authResponse(s, false))
}

// Me needs the auth middleware in front of it.
func (h *AuthHandler) Me(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	usr, err := h.uc.Me(c.Context(), userID)
	if errors.Is(err, usecase.ErrUnauthorized) {
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	}
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}

func (h *AuthHandler) authResponse(s usecase.Session, withUser bool) dto.AuthResponse {
	out := dto.AuthResponse{
		AccessToken:  s.Tokens.AccessToken,
		RefreshToken: s.Tokens.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.Tokens.AccessExpiresAt.Sub(h.now()).Round(time.Second).Seconds()),
	}
	if withUser {
		u := dto.NewUserResponse(s.User)
		out.User = &u
	}
	return out
}
