package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"petromatch/internal/delivery/http/dto"
	"petromatch/internal/delivery/http/middleware"
	"petromatch/internal/pkg/response"
	"petromatch/internal/usecase"
)

type JobsHandler struct {
	boards   usecase.BoardUsecase
	scrape   usecase.ScrapeUsecase
	matching usecase.MatchingUsecase
}

func NewJobsHandler(boards usecase.BoardUsecase, scrape usecase.ScrapeUsecase, matching usecase.MatchingUsecase) *JobsHandler {
	return &JobsHandler{boards: boards, scrape: scrape, matching: matching}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/boards", h.ListBoards)
	r.Post("/scrape", h.Scrape)
	r.Get("/tasks", h.ListTasks)
	r.Get("/status/:task_id", h.Status)
	r.Get("/results/:task_id", h.Results)
	r.Post("/match", h.Match)
	r.Get("/matches/:task_id", h.Matches)
}

func (h *JobsHandler) ListBoards(c fiber.Ctx) error {
	boards, err := h.boards.List(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.BoardResponse, 0, len(boards))
	for _, b := range boards {
		out = append(out, dto.BoardResponse{
			ID:            b.ID,
			Name:          b.Name,
			BaseURL:       b.BaseURL,
			LoginRequired: b.LoginRequired,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

// Scrape answers 202 as soon as the task is queued; clients poll Status.
func (h *JobsHandler) Scrape(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.ScrapeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	t, err := h.scrape.Submit(c.Context(), userID, req.BoardIDs)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusAccepted, "accepted", dto.ScrapeResponse{TaskID: t.ID, Status: string(t.Status)})
}

func (h *JobsHandler) ListTasks(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	tasks, err := h.scrape.List(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}
	out := make([]dto.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, dto.NewTaskResponse(t))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *JobsHandler) Status(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	taskID, err := taskIDParam(c)
	if err != nil {
		return err
	}

	t, err := h.scrape.Status(c.Context(), userID, taskID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewTaskResponse(t))
}

func (h *JobsHandler) Results(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	taskID, err := taskIDParam(c)
	if err != nil {
		return err
	}

	listings, err := h.scrape.Results(c.Context(), userID, taskID)
	if err != nil {
		return mapUsecaseError(err)
	}
	out := make([]dto.ListingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, dto.NewListingResponse(l))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *JobsHandler) Match(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.MatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	if req.TaskID <= 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "task_id is required", nil, nil)
	}

	n, err := h.matching.Run(c.Context(), userID, req.TaskID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.MatchRunResponse{MatchesCreated: n})
}

func (h *JobsHandler) Matches(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	taskID, err := taskIDParam(c)
	if err != nil {
		return err
	}

	ms, err := h.matching.List(c.Context(), userID, taskID)
	if err != nil {
		return mapUsecaseError(err)
	}
	out := make([]dto.MatchResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, dto.NewMatchResponse(m))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func taskIDParam(c fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("task_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid task id", nil, err)
	}
	return id, nil
}
