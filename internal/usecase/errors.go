package usecase

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrTaskNotFound        = errors.New("scrape task not found")
	ErrForbidden           = errors.New("resource belongs to another user")
	ErrDuplicateScrape     = errors.New("identical scrape submitted moments ago")
	ErrNoListings          = errors.New("task has no listings")
	ErrCVNotFound          = errors.New("no cv on file")
	ErrUnsupportedCVFormat = errors.New("unsupported cv format")
	ErrCVTooLarge          = errors.New("cv file too large")
	ErrScheduleNotFound    = errors.New("notification schedule not found")
	ErrInternal            = errors.New("internal error")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrSessionExpired     = errors.New("refresh token expired")
)
