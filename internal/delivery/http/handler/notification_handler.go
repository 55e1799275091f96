package handler

import (
	"github.com/gofiber/fiber/v3"

	"petromatch/internal/delivery/http/dto"
	"petromatch/internal/delivery/http/middleware"
	"petromatch/internal/domain/user"
	"petromatch/internal/pkg/response"
	"petromatch/internal/usecase"
)

type NotificationHandler struct {
	uc usecase.NotificationUsecase
}

func NewNotificationHandler(uc usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/email", h.Upsert)
	r.Get("/email", h.Get)
	r.Delete("/email", h.Delete)
}

func (h *NotificationHandler) Upsert(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.NotificationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	n, err := h.uc.Upsert(c.Context(), userID, req.CronSchedule)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, notificationResponse(n))
}

func (h *NotificationHandler) Get(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	n, err := h.uc.Get(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, notificationResponse(n))
}

func (h *NotificationHandler) Delete(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), userID); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func notificationResponse(n user.EmailNotification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:           n.ID,
		CronSchedule: n.CronSchedule,
		LastSent:     n.LastSent,
		CreatedAt:    n.CreatedAt,
	}
}
