package ws

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// TokenVerifier resolves an access token to its user.
type TokenVerifier interface {
	VerifyAccessToken(token string) (uuid.UUID, error)
}

type Handler struct {
	hub      *Hub
	tokens   TokenVerifier
	logger   *log.Logger
	upgrader websocket.Upgrader
	origins  map[string]bool
}

// NewHandler serves the event stream. With no origins every browser origin
// may connect; otherwise the Origin header must match one of them exactly.
func NewHandler(hub *Hub, tokens TokenVerifier, logger *log.Logger, origins ...string) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &Handler{hub: hub, tokens: tokens, logger: logger, origins: make(map[string]bool, len(origins))}
	for _, o := range origins {
		h.origins[strings.ToLower(o)] = true
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if len(h.origins) == 0 || origin == "" {
		return true
	}
	return h.origins[strings.ToLower(origin)]
}

// HandleWS upgrades GET /ws?token=<access token>. Browsers cannot set an
// Authorization header on websocket requests, hence the query parameter.
func (h *Handler) HandleWS(c fiber.Ctx) error {
	if h.hub == nil || h.tokens == nil {
		return fiber.ErrServiceUnavailable
	}

	userID, err := h.tokens.VerifyAccessToken(c.Query("token"))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
	if !strings.EqualFold(c.Get(fiber.HeaderUpgrade), "websocket") {
		return fiber.NewError(fiber.StatusUpgradeRequired, "Websocket upgrade required")
	}

	return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			var hs websocket.HandshakeError
			if !errors.As(err, &hs) {
				h.logger.Printf("WS upgrade error | user=%s error=%v", userID, err)
			}
			return
		}

		client := NewClient(h.hub, conn, userID)
		h.hub.Register(client)
		h.logger.Printf("WS connected | user=%s", userID)
		go client.WritePump()
		go client.ReadPump()
	})(c)
}
