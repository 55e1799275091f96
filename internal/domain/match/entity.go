package match

import (
	"time"

	"github.com/google/uuid"

	"petromatch/internal/domain/job"
)

// Match scores one listing of a task against the requesting user's CV.
type Match struct {
	ID        int64
	UserID    uuid.UUID
	TaskID    int64
	ListingID int64
	Score     float64
	MatchedAt time.Time
}

// WithListing is a Match joined with the listing it scores.
type WithListing struct {
	Match
	Listing job.Listing
}
