package scraper

import (
	"context"
	"errors"
	"fmt"

	"petromatch/internal/domain/job"
)

// Fetcher retrieves raw page markup for a board. Implementations keep
// whatever session state Login establishes for subsequent Fetch calls.
type Fetcher interface {
	Login(ctx context.Context, l job.Login) error
	Fetch(ctx context.Context, url string) ([]byte, error)
	Close() error
}

var ErrLoginIncomplete = errors.New("login descriptor incomplete")

// FetchError is returned for timeouts, refused connections and non-2xx
// responses. The paginator treats it as end of results for the board.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

func httpHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
	}
}
