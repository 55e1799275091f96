package v1

import (
	"github.com/gofiber/fiber/v3"

	"petromatch/internal/delivery/http/handler"
)

func RegisterJobs(r fiber.Router, jobsHandler *handler.JobsHandler, notificationHandler *handler.NotificationHandler) {
	if r == nil {
		return
	}

	if jobsHandler != nil {
		jobsHandler.RegisterRoutes(r.Group("/jobs"))
	}
	if notificationHandler != nil {
		notificationHandler.RegisterRoutes(r.Group("/notifications"))
	}
}
