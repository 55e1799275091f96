package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"petromatch/internal/database"
	"petromatch/internal/domain/user"
)

type LocationPreferenceRepository interface {
	Replace(ctx context.Context, userID uuid.UUID, locations []string) ([]user.LocationPreference, error)
	List(ctx context.Context, userID uuid.UUID) ([]user.LocationPreference, error)
}

type PostgresLocationPreferenceRepository struct {
	db database.DB
}

func NewPostgresLocationPreferenceRepository(db database.DB) *PostgresLocationPreferenceRepository {
	return &PostgresLocationPreferenceRepository{db: db}
}

func (r *PostgresLocationPreferenceRepository) Replace(ctx context.Context, userID uuid.UUID, locations []string) ([]user.LocationPreference, error) {
	out := make([]user.LocationPreference, 0, len(locations))
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		out = out[:0]
		if _, err := tx.Exec(ctx, `DELETE FROM location_preferences WHERE user_id = $1`, userID); err != nil {
			return err
		}
		for _, loc := range locations {
			p := user.LocationPreference{UserID: userID, Location: loc}
			if err := tx.QueryRow(ctx,
				`INSERT INTO location_preferences (user_id, location) VALUES ($1, $2) RETURNING id, created_at`,
				userID, loc,
			).Scan(&p.ID, &p.CreatedAt); err != nil {
				return err
			}
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("replace location preferences: %w", err)
	}
	return out, nil
}

func (r *PostgresLocationPreferenceRepository) List(ctx context.Context, userID uuid.UUID) ([]user.LocationPreference, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, location, created_at FROM location_preferences WHERE user_id = $1 ORDER BY id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.LocationPreference, 0)
	for rows.Next() {
		var p user.LocationPreference
		if err := rows.Scan(&p.ID, &p.UserID, &p.Location, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
