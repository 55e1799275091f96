package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventTaskUpdated  = "task_updated"
	EventMatchesReady = "matches_ready"
	EventMatchDigest  = "match_digest"
)

type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

type TaskUpdated struct {
	TaskID   int64  `json:"task_id"`
	Status   string `json:"status"`
	Listings int    `json:"listings"`
}

type MatchesReady struct {
	TaskID         int64 `json:"task_id"`
	MatchesCreated int   `json:"matches_created"`
}

type MatchDigest struct {
	TaskID    int64   `json:"task_id"`
	Matches   int     `json:"matches"`
	BestScore float64 `json:"best_score"`
}

// Notifier publishes user-scoped events on the hub.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) TaskUpdated(userID uuid.UUID, evt TaskUpdated) {
	n.publish(userID, EventTaskUpdated, evt)
}

func (n *Notifier) MatchesReady(userID uuid.UUID, evt MatchesReady) {
	n.publish(userID, EventMatchesReady, evt)
}

func (n *Notifier) MatchDigest(userID uuid.UUID, evt MatchDigest) {
	n.publish(userID, EventMatchDigest, evt)
}

func (n *Notifier) publish(userID uuid.UUID, typ string, data any) {
	if n == nil || n.hub == nil {
		return
	}
	b, err := json.Marshal(Event{
		Type:      typ,
		Data:      data,
		Timestamp: n.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	n.hub.SendTo(userID, b)
}
