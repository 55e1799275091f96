package dto

import (
	"time"

	"github.com/google/uuid"

	"petromatch/internal/domain/user"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

type AuthResponse struct {
	User         *UserResponse `json:"user,omitempty"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int64         `json:"expires_in"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type CVResponse struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	Degraded  bool      `json:"degraded"`
	CreatedAt time.Time `json:"created_at"`
}

type CVContentResponse struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type LocationPreferencesRequest struct {
	Locations []string `json:"locations"`
}

type LocationPreferenceResponse struct {
	ID        int64     `json:"id"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationRequest struct {
	CronSchedule string `json:"cron_schedule"`
}

type NotificationResponse struct {
	ID           int64      `json:"id"`
	CronSchedule string     `json:"cron_schedule"`
	LastSent     *time.Time `json:"last_sent"`
	CreatedAt    time.Time  `json:"created_at"`
}
