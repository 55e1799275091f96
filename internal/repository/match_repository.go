package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"petromatch/internal/database"
	"petromatch/internal/domain/match"
)

type MatchRepository interface {
	// ReplaceForTask deletes every match of the task and inserts ms in the
	// same transaction. Listings that do not belong to the task are ignored.
	ReplaceForTask(ctx context.Context, userID uuid.UUID, taskID int64, ms []match.Match) (int, error)
	ListByTask(ctx context.Context, userID uuid.UUID, taskID int64, minScore float64) ([]match.WithListing, error)
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

func (r *PostgresMatchRepository) ReplaceForTask(ctx context.Context, userID uuid.UUID, taskID int64, ms []match.Match) (int, error) {
	now := time.Now().UTC()
	created := 0

	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		created = 0
		if _, err := tx.Exec(ctx, `DELETE FROM job_matches WHERE task_id = $1`, taskID); err != nil {
			return err
		}
		for _, m := range ms {
			at := m.MatchedAt
			if at.IsZero() {
				at = now
			}
			n, err := tx.Exec(ctx,
				`INSERT INTO job_matches (user_id, task_id, listing_id, score, matched_at)
				 SELECT $1::uuid, l.task_id, l.id, $4::double precision, $5::timestamptz
				 FROM job_listings l
				 WHERE l.id = $3 AND l.task_id = $2`,
				userID, taskID, m.ListingID, m.Score, at,
			)
			if err != nil {
				return err
			}
			created += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("replace matches for task %d: %w", taskID, err)
	}
	return created, nil
}

func (r *PostgresMatchRepository) ListByTask(ctx context.Context, userID uuid.UUID, taskID int64, minScore float64) ([]match.WithListing, error) {
	rows, err := r.db.Query(ctx,
		`SELECT m.id, m.user_id, m.task_id, m.listing_id, m.score, m.matched_at,
		        l.id, l.task_id, l.board_id, l.title, l.company, l.location, l.url, l.description, l.created_at
		 FROM job_matches m
		 JOIN job_listings l ON l.id = m.listing_id AND l.task_id = m.task_id
		 WHERE m.task_id = $1 AND m.user_id = $2 AND m.score >= $3
		 ORDER BY m.score DESC, m.listing_id ASC`,
		taskID, userID, minScore,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]match.WithListing, 0)
	for rows.Next() {
		var w match.WithListing
		l := &w.Listing
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.TaskID, &w.ListingID, &w.Score, &w.MatchedAt,
			&l.ID, &l.TaskID, &l.BoardID, &l.Title, &l.Company, &l.Location, &l.URL, &l.Description, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
