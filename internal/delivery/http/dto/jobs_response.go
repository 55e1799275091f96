package dto

import (
	"time"

	"petromatch/internal/domain/job"
	"petromatch/internal/domain/match"
	"petromatch/internal/domain/task"
)

type BoardResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	BaseURL       string `json:"base_url"`
	LoginRequired bool   `json:"login_required"`
}

type ScrapeRequest struct {
	BoardIDs []int64 `json:"board_ids"`
}

type ScrapeResponse struct {
	TaskID int64  `json:"task_id"`
	Status string `json:"status"`
}

type TaskResponse struct {
	TaskID    int64     `json:"task_id"`
	Status    string    `json:"status"`
	BoardIDs  []int64   `json:"board_ids,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewTaskResponse(t task.ScrapeTask) TaskResponse {
	return TaskResponse{
		TaskID:    t.ID,
		Status:    string(t.Status),
		BoardIDs:  t.BoardIDs,
		Error:     t.Error,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type ListingResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

func NewListingResponse(l job.Listing) ListingResponse {
	return ListingResponse{
		ID:          l.ID,
		Title:       l.Title,
		Company:     l.Company,
		Location:    l.Location,
		URL:         l.URL,
		Description: l.Description,
	}
}

type MatchRequest struct {
	TaskID int64 `json:"task_id"`
}

type MatchRunResponse struct {
	MatchesCreated int `json:"matches_created"`
}

type MatchResponse struct {
	ID        int64           `json:"id"`
	Listing   ListingResponse `json:"listing"`
	Score     float64         `json:"score"`
	MatchedAt time.Time       `json:"matched_at"`
}

func NewMatchResponse(m match.WithListing) MatchResponse {
	return MatchResponse{
		ID:        m.ID,
		Listing:   NewListingResponse(m.Listing),
		Score:     m.Score,
		MatchedAt: m.MatchedAt,
	}
}
