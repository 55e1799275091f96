package routes

import (
	"github.com/gofiber/fiber/v3"

	"petromatch/internal/delivery/http/handler"
	"petromatch/internal/delivery/http/middleware"
	v1 "petromatch/internal/delivery/http/routes/v1"
	"petromatch/internal/ws"
)

type Registry struct {
	health *handler.HealthHandler
	ws     *ws.Handler
	api    v1.Handlers
	authMw *middleware.AuthMiddleware
}

func NewRegistry(health *handler.HealthHandler, wsHandler *ws.Handler, api v1.Handlers, authMw *middleware.AuthMiddleware) *Registry {
	return &Registry{health: health, ws: wsHandler, api: api, authMw: authMw}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerWS(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
}

// The socket authenticates itself from the token query parameter, so it
// sits outside the bearer-protected API group.
func (r *Registry) registerWS(app *fiber.App) {
	if r.ws != nil {
		app.Get("/ws", r.ws.HandleWS)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.api, r.authMw)
}
