package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CV is the single stored resume of a user. Degraded marks content that is a
// placeholder for an unparsed binary upload.
type CV struct {
	ID        int64
	UserID    uuid.UUID
	Filename  string
	Content   string
	Degraded  bool
	CreatedAt time.Time
}

type LocationPreference struct {
	ID        int64
	UserID    uuid.UUID
	Location  string
	CreatedAt time.Time
}

// EmailNotification is a per-user digest schedule in standard cron syntax.
type EmailNotification struct {
	ID           int64
	UserID       uuid.UUID
	CronSchedule string
	LastSent     *time.Time
	CreatedAt    time.Time
}
