package repository

import (
	"context"
	"fmt"

	"petromatch/internal/database"
	"petromatch/internal/domain/job"
)

type ListingRepository interface {
	// InsertBatch stores listings for one task atomically and returns how
	// many were written.
	InsertBatch(ctx context.Context, taskID int64, listings []job.Listing) (int, error)
	ListByTask(ctx context.Context, taskID int64) ([]job.Listing, error)
	CountByTask(ctx context.Context, taskID int64) (int, error)
}

type PostgresListingRepository struct {
	db database.DB
}

func NewPostgresListingRepository(db database.DB) *PostgresListingRepository {
	return &PostgresListingRepository{db: db}
}

func (r *PostgresListingRepository) InsertBatch(ctx context.Context, taskID int64, listings []job.Listing) (int, error) {
	if len(listings) == 0 {
		return 0, nil
	}

	n := 0
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		n = 0
		for _, l := range listings {
			l = l.WithDefaults()
			if _, err := tx.Exec(ctx,
				`INSERT INTO job_listings (task_id, board_id, title, company, location, url, description)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				taskID, l.BoardID, l.Title, l.Company, l.Location, l.URL, l.Description,
			); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("insert listings for task %d: %w", taskID, err)
	}
	return n, nil
}

func (r *PostgresListingRepository) ListByTask(ctx context.Context, taskID int64) ([]job.Listing, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, task_id, board_id, title, company, location, url, description, created_at
		 FROM job_listings WHERE task_id = $1 ORDER BY id ASC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresListingRepository) CountByTask(ctx context.Context, taskID int64) (int, error) {
	var c int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM job_listings WHERE task_id = $1`, taskID).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func scanListing(row database.Row) (job.Listing, error) {
	var l job.Listing
	err := row.Scan(&l.ID, &l.TaskID, &l.BoardID, &l.Title, &l.Company, &l.Location, &l.URL, &l.Description, &l.CreatedAt)
	return l, err
}
