package v1

import (
	"github.com/gofiber/fiber/v3"

	"petromatch/internal/delivery/http/handler"
	"petromatch/internal/delivery/http/middleware"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Jobs         *handler.JobsHandler
	User         *handler.UserHandler
	Notification *handler.NotificationHandler
}

func Register(r fiber.Router, h Handlers, authMw *middleware.AuthMiddleware) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	protected := r
	if authMw != nil {
		protected = r.Group("", authMw.Middleware())
	}

	RegisterUsers(protected, h.Auth, h.User)
	RegisterJobs(protected, h.Jobs, h.Notification)
}
