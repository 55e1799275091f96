package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"petromatch/internal/database"
	"petromatch/internal/domain/user"
)

type CVRepository interface {
	// Replace removes any CV of the user and stores cv in one transaction.
	Replace(ctx context.Context, cv user.CV) (user.CV, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (user.CV, error)
}

type PostgresCVRepository struct {
	db database.DB
}

func NewPostgresCVRepository(db database.DB) *PostgresCVRepository {
	return &PostgresCVRepository{db: db}
}

func (r *PostgresCVRepository) Replace(ctx context.Context, cv user.CV) (user.CV, error) {
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM cvs WHERE user_id = $1`, cv.UserID); err != nil {
			return err
		}
		return tx.QueryRow(ctx,
			`INSERT INTO cvs (user_id, filename, content, degraded) VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at`,
			cv.UserID, cv.Filename, cv.Content, cv.Degraded,
		).Scan(&cv.ID, &cv.CreatedAt)
	})
	if err != nil {
		return user.CV{}, fmt.Errorf("replace cv: %w", err)
	}
	return cv, nil
}

func (r *PostgresCVRepository) GetByUser(ctx context.Context, userID uuid.UUID) (user.CV, error) {
	var cv user.CV
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, filename, content, degraded, created_at FROM cvs WHERE user_id = $1`, userID,
	).Scan(&cv.ID, &cv.UserID, &cv.Filename, &cv.Content, &cv.Degraded, &cv.CreatedAt)
	if err != nil {
		return user.CV{}, notFound(err)
	}
	return cv, nil
}
