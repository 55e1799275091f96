package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"petromatch/internal/domain/user"
	"petromatch/internal/pkg/jwt"
)

const (
	minPasswordLen = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

// Session is a user together with a freshly issued token pair.
type Session struct {
	User   user.User
	Tokens jwt.Pair
}

type AuthUsecase interface {
	Register(ctx context.Context, email, password string) (Session, error)
	Login(ctx context.Context, email, password string) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
	Me(ctx context.Context, userID uuid.UUID) (user.User, error)
}

type Auth struct {
	users  user.Repository
	tokens jwt.Service
	cost   int
}

func NewAuthUsecase(users user.Repository, tokens jwt.Service) *Auth {
	return &Auth{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

func (a *Auth) Register(ctx context.Context, email, password string) (Session, error) {
	email = user.NormalizeEmail(email)
	if !strings.Contains(email, "@") {
		return Session{}, fmt.Errorf("%w: email", ErrInvalidInput)
	}
	if utf8.RuneCountInString(strings.TrimSpace(password)) < minPasswordLen || len(password) > maxPasswordBytes {
		return Session{}, fmt.Errorf("%w: password must be %d to %d characters", ErrInvalidInput, minPasswordLen, maxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	u := user.User{ID: uuid.New(), Email: email, PasswordHash: string(hash)}
	if err := a.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	// Re-read so CreatedAt comes from the database.
	created, err := a.users.GetByID(ctx, u.ID)
	if err != nil {
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	return a.session(created)
}

// Login answers ErrInvalidCredentials for both an unknown email and a wrong
// password.
func (a *Auth) Login(ctx context.Context, email, password string) (Session, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	u, err := a.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, user.ErrNotFound):
		return Session{}, ErrInvalidCredentials
	case err != nil:
		return Session{}, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return a.session(u)
}

// Refresh rotates the pair. The previous refresh token stays valid until it
// expires; there is no revocation list.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	userID, err := a.tokens.VerifyRefreshToken(refreshToken)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Session{}, ErrSessionExpired
	case err != nil:
		return Session{}, ErrUnauthorized
	}

	u, err := a.users.GetByID(ctx, userID)
	switch {
	case errors.Is(err, user.ErrNotFound):
		return Session{}, ErrUnauthorized
	case err != nil:
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	return a.session(u)
}

func (a *Auth) Me(ctx context.Context, userID uuid.UUID) (user.User, error) {
	u, err := a.users.GetByID(ctx, userID)
	switch {
	case errors.Is(err, user.ErrNotFound):
		return user.User{}, ErrUnauthorized
	case err != nil:
		return user.User{}, fmt.Errorf("load user: %w", err)
	}
	u.PasswordHash = ""
	return u, nil
}

func (a *Auth) session(u user.User) (Session, error) {
	pair, err := a.tokens.IssuePair(u.ID, u.Email)
	if err != nil {
		return Session{}, fmt.Errorf("issue tokens: %w", err)
	}
	u.PasswordHash = ""
	return Session{User: u, Tokens: pair}, nil
}
