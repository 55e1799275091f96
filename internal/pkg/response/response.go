// Package response writes the JSON envelope every endpoint answers with:
// {"status": <http status>, "message": <text>, "data": <payload or null>}.
package response

import "github.com/gofiber/fiber/v3"

type SemanticResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

const (
	MessageOK                  = "ok"
	MessageInternalServerError = "internal server error"
	MessageError               = "error"
)

var statusMessages = map[int]string{
	fiber.StatusOK:                    MessageOK,
	fiber.StatusCreated:               "created",
	fiber.StatusAccepted:              "accepted",
	fiber.StatusBadRequest:            "bad request",
	fiber.StatusUnauthorized:          "unauthorized",
	fiber.StatusForbidden:             "forbidden",
	fiber.StatusNotFound:              "not found",
	fiber.StatusConflict:              "conflict",
	fiber.StatusPreconditionFailed:    "precondition failed",
	fiber.StatusRequestEntityTooLarge: "request entity too large",
	fiber.StatusUnprocessableEntity:   "unprocessable entity",
	fiber.StatusServiceUnavailable:    "service unavailable",
}

// StatusMessage is the message used when a caller passes none.
func StatusMessage(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	if status >= 500 {
		return MessageInternalServerError
	}
	return MessageError
}

func Success(c fiber.Ctx, status int, message string, data interface{}) error {
	return write(c, status, message, data)
}

func Error(c fiber.Ctx, status int, message string, data interface{}) error {
	return write(c, status, message, data)
}

func write(c fiber.Ctx, status int, message string, data interface{}) error {
	if status < 100 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	if message == "" {
		message = StatusMessage(status)
	}
	return c.Status(status).JSON(SemanticResponse{Status: status, Message: message, Data: data})
}
