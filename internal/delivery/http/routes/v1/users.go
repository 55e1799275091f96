package v1

import (
	"github.com/gofiber/fiber/v3"

	"petromatch/internal/delivery/http/handler"
)

func RegisterUsers(r fiber.Router, authHandler *handler.AuthHandler, userHandler *handler.UserHandler) {
	if r == nil {
		return
	}

	if authHandler != nil {
		r.Get("/users/me", authHandler.Me)
	}
	if userHandler != nil {
		userHandler.RegisterRoutes(r.Group("/user"))
	}
}
