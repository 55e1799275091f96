package scraper

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"

	"petromatch/internal/domain/job"
)

type HTTPFetcherConfig struct {
	UserAgent      string
	Timeout        time.Duration
	RequestsPerSec float64
	Logger         *log.Logger
}

// HTTPFetcher fetches pages with a colly collector. Every call runs on a
// clone of the base collector, so the cookie jar filled by Login is reused
// by later fetches.
type HTTPFetcher struct {
	base    *colly.Collector
	limiter *rate.Limiter
	headers map[string]string
	logger  *log.Logger

	mu sync.Mutex
}

func NewHTTPFetcher(cfg HTTPFetcherConfig) *HTTPFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.UserAgent(cfg.UserAgent),
	)
	c.SetRequestTimeout(cfg.Timeout)

	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}

	return &HTTPFetcher{
		base:    c,
		limiter: rate.NewLimiter(limit, 1),
		headers: httpHeaders(cfg.UserAgent),
		logger:  cfg.Logger,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	res := f.do(ctx, url, func(c *colly.Collector) visit {
		var v visit
		c.OnResponse(func(r *colly.Response) {
			v.status = r.StatusCode
			v.body = append([]byte(nil), r.Body...)
		})
		c.OnError(func(r *colly.Response, _ error) {
			if r != nil {
				v.status = r.StatusCode
			}
		})
		v.err = c.Visit(url)
		return v
	})
	if res.err != nil {
		return nil, &FetchError{URL: url, Status: res.status, Err: res.err}
	}
	return res.body, nil
}

func (f *HTTPFetcher) Login(ctx context.Context, l job.Login) error {
	if strings.TrimSpace(l.URL) == "" {
		return ErrLoginIncomplete
	}
	userField := pickNonEmpty(l.UsernameField, "username")
	passField := pickNonEmpty(l.PasswordField, "password")

	res := f.do(ctx, l.URL, func(c *colly.Collector) visit {
		return visit{err: c.Post(l.URL, map[string]string{
			userField: l.Username,
			passField: l.Password,
		})}
	})
	if res.err != nil {
		return &FetchError{URL: l.URL, Err: res.err}
	}
	f.logger.Printf("Scraper login ok | host=%s", hostFromURL(l.URL))
	return nil
}

func (f *HTTPFetcher) Close() error { return nil }

// visit is what one collector run produced. It is owned by the goroutine
// running the collector until handed back over the done channel.
type visit struct {
	status int
	body   []byte
	err    error
}

func (f *HTTPFetcher) do(ctx context.Context, url string, run func(c *colly.Collector) visit) visit {
	if err := f.limiter.Wait(ctx); err != nil {
		return visit{err: err}
	}
	if err := ctx.Err(); err != nil {
		return visit{err: err}
	}

	// colly has no per-request context; the clone's timeout bounds the call
	// and a cancelled ctx discards the result.
	f.mu.Lock()
	c := f.base.Clone()
	f.mu.Unlock()

	c.OnRequest(func(r *colly.Request) {
		for k, v := range f.headers {
			r.Headers.Set(k, v)
		}
	})

	done := make(chan visit, 1)
	go func() { done <- run(c) }()

	select {
	case <-ctx.Done():
		return visit{err: ctx.Err()}
	case v := <-done:
		if v.err != nil && errors.Is(v.err, colly.ErrAlreadyVisited) {
			v.err = nil
		}
		return v
	}
}
