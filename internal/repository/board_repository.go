package repository

import (
	"context"
	"fmt"

	"petromatch/internal/database"
	"petromatch/internal/domain/job"
)

type BoardRepository interface {
	List(ctx context.Context) ([]job.Board, error)
	GetByID(ctx context.Context, id int64) (job.Board, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]job.Board, error)
	UpsertByName(ctx context.Context, b job.Board) (int64, error)
}

type PostgresBoardRepository struct {
	db database.DB
}

func NewPostgresBoardRepository(db database.DB) *PostgresBoardRepository {
	return &PostgresBoardRepository{db: db}
}

const boardColumns = `id, name, base_url, login_required, selectors_json, created_at`

func (r *PostgresBoardRepository) List(ctx context.Context) ([]job.Board, error) {
	rows, err := r.db.Query(ctx, `SELECT `+boardColumns+` FROM job_boards ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Board, 0)
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresBoardRepository) GetByID(ctx context.Context, id int64) (job.Board, error) {
	b, err := scanBoard(r.db.QueryRow(ctx, `SELECT `+boardColumns+` FROM job_boards WHERE id = $1`, id))
	if err != nil {
		return job.Board{}, notFound(err)
	}
	return b, nil
}

// GetByIDs returns the boards that exist; unknown ids are simply absent.
func (r *PostgresBoardRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]job.Board, error) {
	out := make(map[int64]job.Board, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `SELECT `+boardColumns+` FROM job_boards WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		out[b.ID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresBoardRepository) UpsertByName(ctx context.Context, b job.Board) (int64, error) {
	raw, err := b.Selectors.JSON()
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.db.QueryRow(ctx,
		`INSERT INTO job_boards (name, base_url, login_required, selectors_json)
		 VALUES ($1, $2, $3, $4::jsonb)
		 ON CONFLICT (name) DO UPDATE SET
			base_url = EXCLUDED.base_url,
			login_required = EXCLUDED.login_required,
			selectors_json = EXCLUDED.selectors_json
		 RETURNING id`,
		b.Name, b.BaseURL, b.LoginRequired, string(raw),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert board %q: %w", b.Name, err)
	}
	return id, nil
}

func scanBoard(row database.Row) (job.Board, error) {
	var b job.Board
	var raw []byte
	if err := row.Scan(&b.ID, &b.Name, &b.BaseURL, &b.LoginRequired, &raw, &b.CreatedAt); err != nil {
		return job.Board{}, err
	}
	sel, err := job.ParseSelectors(raw)
	if err != nil {
		return job.Board{}, fmt.Errorf("board %d: %w", b.ID, err)
	}
	b.Selectors = sel
	return b, nil
}
