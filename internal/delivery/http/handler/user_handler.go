package handler

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v3"

	"petromatch/internal/delivery/http/dto"
	"petromatch/internal/delivery/http/middleware"
	"petromatch/internal/pkg/response"
	"petromatch/internal/usecase"
)

type UserHandler struct {
	cvs        usecase.CVUsecase
	prefs      usecase.LocationPreferenceUsecase
	maxCVBytes int64
}

func NewUserHandler(cvs usecase.CVUsecase, prefs usecase.LocationPreferenceUsecase, maxCVBytes int64) *UserHandler {
	return &UserHandler{cvs: cvs, prefs: prefs, maxCVBytes: maxCVBytes}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/cv", h.UploadCV)
	r.Get("/cv", h.GetCV)
	r.Get("/cv/content", h.GetCVContent)
	r.Get("/location-preferences", h.ListLocationPreferences)
	r.Post("/location-preferences", h.ReplaceLocationPreferences)
}

// UploadCV accepts multipart form field "file". A new upload replaces the
// stored CV.
func (h *UserHandler) UploadCV(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Missing file", nil, err)
	}
	if h.maxCVBytes > 0 && fh.Size > h.maxCVBytes {
		return mapUsecaseError(usecase.ErrCVTooLarge)
	}

	f, err := fh.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
	}
	defer f.Close()

	var r io.Reader = f
	if h.maxCVBytes > 0 {
		r = io.LimitReader(f, h.maxCVBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable file", nil, err)
	}

	cv, err := h.cvs.Upload(c.Context(), userID, fh.Filename, data)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "created", dto.CVResponse{
		ID:        cv.ID,
		Filename:  cv.Filename,
		Degraded:  cv.Degraded,
		CreatedAt: cv.CreatedAt,
	})
}

func (h *UserHandler) GetCV(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	cv, err := h.cvs.Get(c.Context(), userID)
	if err != nil {
		return mapCVReadError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CVResponse{
		ID:        cv.ID,
		Filename:  cv.Filename,
		Degraded:  cv.Degraded,
		CreatedAt: cv.CreatedAt,
	})
}

func (h *UserHandler) GetCVContent(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	cv, err := h.cvs.Get(c.Context(), userID)
	if err != nil {
		return mapCVReadError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CVContentResponse{
		Filename: cv.Filename,
		Content:  cv.Content,
	})
}

func (h *UserHandler) ListLocationPreferences(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	prefs, err := h.prefs.List(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	out := make([]dto.LocationPreferenceResponse, 0, len(prefs))
	for _, p := range prefs {
		out = append(out, dto.LocationPreferenceResponse{ID: p.ID, Location: p.Location, CreatedAt: p.CreatedAt})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

// ReplaceLocationPreferences overwrites the whole preference list.
func (h *UserHandler) ReplaceLocationPreferences(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.LocationPreferencesRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	prefs, err := h.prefs.Replace(c.Context(), userID, req.Locations)
	if err != nil {
		return mapUsecaseError(err)
	}
	out := make([]dto.LocationPreferenceResponse, 0, len(prefs))
	for _, p := range prefs {
		out = append(out, dto.LocationPreferenceResponse{ID: p.ID, Location: p.Location, CreatedAt: p.CreatedAt})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

// A missing CV is a plain 404 on reads; only matching treats it as a
// failed precondition.
func mapCVReadError(err error) error {
	if errors.Is(err, usecase.ErrCVNotFound) {
		return middleware.NewAppError(fiber.StatusNotFound, "No CV on file", nil, err)
	}
	return mapUsecaseError(err)
}
