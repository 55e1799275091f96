package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"petromatch/internal/database"
	"petromatch/internal/domain/user"
)

type NotificationRepository interface {
	Upsert(ctx context.Context, userID uuid.UUID, cronSchedule string) (user.EmailNotification, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (user.EmailNotification, error)
	Delete(ctx context.Context, userID uuid.UUID) error
	ListAll(ctx context.Context) ([]user.EmailNotification, error)
	MarkSent(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type PostgresNotificationRepository struct {
	db database.DB
}

func NewPostgresNotificationRepository(db database.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

const notificationColumns = `id, user_id, cron_schedule, last_sent, created_at`

func (r *PostgresNotificationRepository) Upsert(ctx context.Context, userID uuid.UUID, cronSchedule string) (user.EmailNotification, error) {
	n, err := scanNotification(r.db.QueryRow(ctx,
		`INSERT INTO email_notifications (user_id, cron_schedule) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET cron_schedule = EXCLUDED.cron_schedule
		 RETURNING `+notificationColumns,
		userID, cronSchedule,
	))
	if err != nil {
		return user.EmailNotification{}, fmt.Errorf("upsert notification: %w", err)
	}
	return n, nil
}

func (r *PostgresNotificationRepository) GetByUser(ctx context.Context, userID uuid.UUID) (user.EmailNotification, error) {
	n, err := scanNotification(r.db.QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM email_notifications WHERE user_id = $1`, userID))
	if err != nil {
		return user.EmailNotification{}, notFound(err)
	}
	return n, nil
}

func (r *PostgresNotificationRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM email_notifications WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) ListAll(ctx context.Context) ([]user.EmailNotification, error) {
	rows, err := r.db.Query(ctx, `SELECT `+notificationColumns+` FROM email_notifications ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.EmailNotification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresNotificationRepository) MarkSent(ctx context.Context, userID uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE email_notifications SET last_sent = $2 WHERE user_id = $1`, userID, at)
	return err
}

func scanNotification(row database.Row) (user.EmailNotification, error) {
	var n user.EmailNotification
	err := row.Scan(&n.ID, &n.UserID, &n.CronSchedule, &n.LastSent, &n.CreatedAt)
	return n, err
}
