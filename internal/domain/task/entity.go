package task

import (
	"time"

	"github.com/google/uuid"
)

// ScrapeTask is one user-requested scrape over an ordered list of boards.
type ScrapeTask struct {
	ID        int64
	UserID    uuid.UUID
	Status    Status
	BoardIDs  []int64
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
