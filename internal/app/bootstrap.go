package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v3"

	"petromatch/internal/config"
	"petromatch/internal/delivery/http/handler"
	"petromatch/internal/delivery/http/middleware"
	"petromatch/internal/delivery/http/routes"
	v1 "petromatch/internal/delivery/http/routes/v1"
	"petromatch/internal/ws"
)

// multipartOverhead covers form boundaries and headers around an uploaded CV.
const multipartOverhead = 64 << 10

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(cfg config.Config, c *Container) *App {
	bodyLimit := fiber.DefaultBodyLimit
	if need := int(cfg.Upload.MaxCVBytes) + multipartOverhead; need > bodyLimit {
		bodyLimit = need
	}

	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: bodyLimit,
	})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container, starts background loops and returns a
// cleanup that stops them before closing connections.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go c.Hub.Run(hubDone)
	c.Dispatcher.Start(ctx)
	if err := c.Scheduler.Start(ctx); err != nil {
		logger.Printf("Scheduler start failed | error=%v", err)
	}

	cleanup := func() error {
		c.Scheduler.Stop()
		c.Dispatcher.Close()
		cancel()
		c.Dispatcher.Wait()
		close(hubDone)
		return c.Close()
	}

	return New(cfg, c), cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger, "/health").Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	api := v1.Handlers{
		Auth:         handler.NewAuthHandler(c.Auth),
		Jobs:         handler.NewJobsHandler(c.Boards, c.Scrape, c.Matching),
		User:         handler.NewUserHandler(c.CVs, c.Preferences, c.Config.Upload.MaxCVBytes),
		Notification: handler.NewNotificationHandler(c.Notifications),
	}

	routes.NewRegistry(
		handler.NewHealthHandler(c.DB, c.Cache),
		ws.NewHandler(c.Hub, c.JWT, c.Logger, c.Config.App.AllowedOrigins...),
		api,
		middleware.NewAuthMiddleware(c.JWT),
	).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
