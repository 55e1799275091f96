package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"petromatch/internal/database"
	"petromatch/internal/domain/task"
)

type TaskRepository interface {
	Create(ctx context.Context, userID uuid.UUID, boardIDs []int64) (task.ScrapeTask, error)
	Get(ctx context.Context, id int64) (task.ScrapeTask, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]task.ScrapeTask, error)
	// Transition moves a task from one status to another. It fails with
	// task.ErrInvalidTransition when the edge is illegal or the stored
	// status is no longer from.
	Transition(ctx context.Context, id int64, from, to task.Status, errMsg string) error
}

type PostgresTaskRepository struct {
	db database.DB
}

func NewPostgresTaskRepository(db database.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) Create(ctx context.Context, userID uuid.UUID, boardIDs []int64) (task.ScrapeTask, error) {
	t := task.ScrapeTask{UserID: userID, Status: task.StatusPending, BoardIDs: append([]int64(nil), boardIDs...)}

	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO scrape_tasks (user_id, status) VALUES ($1, $2)
			 RETURNING id, created_at, updated_at`,
			userID, string(task.StatusPending),
		).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return err
		}
		for i, boardID := range boardIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO scrape_task_boards (task_id, board_id, position) VALUES ($1, $2, $3)`,
				t.ID, boardID, i,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return task.ScrapeTask{}, fmt.Errorf("create scrape task: %w", err)
	}
	return t, nil
}

func (r *PostgresTaskRepository) Get(ctx context.Context, id int64) (task.ScrapeTask, error) {
	t, err := scanTask(r.db.QueryRow(ctx,
		`SELECT id, user_id, status, COALESCE(error_message, ''), created_at, updated_at
		 FROM scrape_tasks WHERE id = $1`, id))
	if err != nil {
		return task.ScrapeTask{}, notFound(err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT board_id FROM scrape_task_boards WHERE task_id = $1 ORDER BY position ASC`, id)
	if err != nil {
		return task.ScrapeTask{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var b int64
		if err := rows.Scan(&b); err != nil {
			return task.ScrapeTask{}, err
		}
		t.BoardIDs = append(t.BoardIDs, b)
	}
	if err := rows.Err(); err != nil {
		return task.ScrapeTask{}, err
	}
	return t, nil
}

func (r *PostgresTaskRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]task.ScrapeTask, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, status, COALESCE(error_message, ''), created_at, updated_at
		 FROM scrape_tasks WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]task.ScrapeTask, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresTaskRepository) Transition(ctx context.Context, id int64, from, to task.Status, errMsg string) error {
	if err := task.CheckTransition(from, to); err != nil {
		return err
	}

	var msg any
	if errMsg != "" {
		msg = errMsg
	}
	n, err := r.db.Exec(ctx,
		`UPDATE scrape_tasks SET status = $3, error_message = $4, updated_at = $5
		 WHERE id = $1 AND status = $2`,
		id, string(from), string(to), msg, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update task %d status: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: task %d is not %s", task.ErrInvalidTransition, id, from)
	}
	return nil
}

func scanTask(row database.Row) (task.ScrapeTask, error) {
	var t task.ScrapeTask
	var status string
	if err := row.Scan(&t.ID, &t.UserID, &status, &t.Error, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return task.ScrapeTask{}, err
	}
	s, err := task.ParseStatus(status)
	if err != nil {
		return task.ScrapeTask{}, err
	}
	t.Status = s
	return t, nil
}
