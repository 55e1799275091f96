package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

type AccessLogMiddleware struct {
	logger *log.Logger
	skip   map[string]bool
}

// NewAccessLogMiddleware logs one line per request. Paths in skip (exact
// match) are served without logging; health checks hit /health every few seconds.
func NewAccessLogMiddleware(logger *log.Logger, skip ...string) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	m := &AccessLogMiddleware{logger: logger, skip: make(map[string]bool, len(skip))}
	for _, p := range skip {
		m.skip[p] = true
	}
	return m
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)

		err := c.Next()
		if m.skip[c.Path()] {
			return err
		}

		user := "-"
		if id, ok := c.Locals(CtxUserIDKey).(uuid.UUID); ok && id != uuid.Nil {
			user = id.String()
		}

		m.logger.Printf(
			"HTTP access | rid=%s user=%s ip=%s method=%s path=%s status=%d latency=%s resp_bytes=%d ua=%q",
			rid, user, c.IP(), c.Method(), c.OriginalURL(), c.Response().StatusCode(),
			time.Since(start).Round(time.Microsecond), len(c.Response().Body()), c.Get(fiber.HeaderUserAgent),
		)
		return err
	}
}
