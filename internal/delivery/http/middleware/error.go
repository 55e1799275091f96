package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"petromatch/internal/pkg/response"
)

// AppError carries the status and client-facing message of a failed request.
// Cause is logged for 5xx answers and never sent to the client.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware(logger *log.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("HTTP panic recovered | rid=%s method=%s path=%s panic=%v", requestID(c), c.Method(), c.Path(), r)
				err = response.Error(c, fiber.StatusInternalServerError, "", nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := classify(err)
		if status >= fiber.StatusInternalServerError {
			m.logger.Printf("HTTP request error | rid=%s method=%s path=%s status=%d error=%v", requestID(c), c.Method(), c.Path(), status, err)
			msg, data = "", nil
		}
		return response.Error(c, status, msg, data)
	}
}

// classify maps AppError and fiber.Error to a response. Any other error is
// an unexpected 500.
func classify(err error) (int, string, interface{}) {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode > 0 {
		return appErr.StatusCode, appErr.Message, appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code > 0 {
		return fiberErr.Code, fiberErr.Message, nil
	}

	return fiber.StatusInternalServerError, "", nil
}

func requestID(c fiber.Ctx) string {
	if rid := c.GetRespHeader(HeaderRequestID); rid != "" {
		return rid
	}
	return "-"
}
