package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"petromatch/internal/domain/user"
)

const uniqueViolation = "23505"

const selectUser = `SELECT id, email, password_hash, created_at, updated_at FROM users`

// UserRepository prepares its statements once on the database/sql view of
// the pgx pool. Users are looked up on every login and refresh.
type UserRepository struct {
	insert  *sql.Stmt
	byID    *sql.Stmt
	byEmail *sql.Stmt
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(ctx context.Context, db *sql.DB) (*UserRepository, error) {
	if db == nil {
		return nil, errors.New("user repository: nil sql db")
	}

	r := &UserRepository{}
	for _, p := range []struct {
		dst   **sql.Stmt
		query string
	}{
		{&r.insert, `INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`},
		{&r.byID, selectUser + ` WHERE id = $1`},
		{&r.byEmail, selectUser + ` WHERE email = $1`},
	} {
		stmt, err := db.PrepareContext(ctx, p.query)
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("user repository: prepare: %w", err)
		}
		*p.dst = stmt
	}
	return r, nil
}

func (r *UserRepository) Close() error {
	var errs []error
	for _, s := range []*sql.Stmt{r.insert, r.byID, r.byEmail} {
		if s != nil {
			errs = append(errs, s.Close())
		}
	}
	return errors.Join(errs...)
}

func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	_, err := r.insert.ExecContext(ctx, u.ID, user.NormalizeEmail(u.Email), u.PasswordHash)
	if pgErr := (*pgconn.PgError)(nil); errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return user.ErrEmailTaken
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return scanUser(r.byID.QueryRowContext(ctx, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.byEmail.QueryRowContext(ctx, user.NormalizeEmail(email)))
}

func scanUser(row *sql.Row) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, user.ErrNotFound
	}
	return u, err
}
