package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"petromatch/internal/delivery/http/middleware"
	"petromatch/internal/pkg/response"
	"petromatch/internal/usecase"
)

func currentUserID(c fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return userID, nil
}

// mapUsecaseError turns usecase sentinels into HTTP errors. Anything
// unrecognised is a 500.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrTaskNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Task not found", nil, err)
	case errors.Is(err, usecase.ErrNoListings):
		return middleware.NewAppError(fiber.StatusNotFound, "Task has no listings", nil, err)
	case errors.Is(err, usecase.ErrScheduleNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Notification schedule not found", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrCVNotFound):
		return middleware.NewAppError(fiber.StatusPreconditionFailed, "No CV on file; upload one first", nil, err)
	case errors.Is(err, usecase.ErrDuplicateScrape):
		return middleware.NewAppError(fiber.StatusConflict, "An identical scrape was just submitted", nil, err)
	case errors.Is(err, usecase.ErrUnsupportedCVFormat):
		return middleware.NewAppError(fiber.StatusBadRequest, "Only .txt, .pdf, .doc, .docx files are allowed", nil, err)
	case errors.Is(err, usecase.ErrCVTooLarge):
		return middleware.NewAppError(fiber.StatusRequestEntityTooLarge, "CV file too large", nil, err)
	case errors.Is(err, usecase.ErrEmailTaken):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
	case errors.Is(err, usecase.ErrSessionExpired):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
