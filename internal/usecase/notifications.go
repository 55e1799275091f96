package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"petromatch/internal/domain/user"
	"petromatch/internal/repository"
)

type NotificationUsecase interface {
	Upsert(ctx context.Context, userID uuid.UUID, schedule string) (user.EmailNotification, error)
	Get(ctx context.Context, userID uuid.UUID) (user.EmailNotification, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type Notifications struct {
	repo     repository.NotificationRepository
	reloader ScheduleReloader
	logger   *log.Logger
}

func NewNotifications(repo repository.NotificationRepository, reloader ScheduleReloader, logger *log.Logger) *Notifications {
	if logger == nil {
		logger = log.Default()
	}
	return &Notifications{repo: repo, reloader: reloader, logger: logger}
}

// Upsert stores a standard five-field cron expression as the user's digest
// schedule.
func (s *Notifications) Upsert(ctx context.Context, userID uuid.UUID, schedule string) (user.EmailNotification, error) {
	schedule = strings.Join(strings.Fields(schedule), " ")
	if schedule == "" {
		return user.EmailNotification{}, ErrInvalidInput
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return user.EmailNotification{}, fmt.Errorf("%w: cron_schedule: %v", ErrInvalidInput, err)
	}

	n, err := s.repo.Upsert(ctx, userID, schedule)
	if err != nil {
		return user.EmailNotification{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	s.reload(ctx)
	return n, nil
}

func (s *Notifications) Get(ctx context.Context, userID uuid.UUID) (user.EmailNotification, error) {
	n, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return user.EmailNotification{}, ErrScheduleNotFound
		}
		return user.EmailNotification{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return n, nil
}

func (s *Notifications) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrScheduleNotFound
		}
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	s.reload(ctx)
	return nil
}

func (s *Notifications) reload(ctx context.Context) {
	if s.reloader == nil {
		return
	}
	if err := s.reloader.Reload(ctx); err != nil {
		s.logger.Printf("Notification schedule reload error | error=%v", err)
	}
}
