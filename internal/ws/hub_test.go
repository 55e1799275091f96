package ws

import (
	"encoding/json"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case b := <-ch:
		return b
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHub_DeliversOnlyToTargetUser(t *testing.T) {
	hub := NewHub(log.New(io.Discard, "", 0))
	done := make(chan struct{})
	defer close(done)
	go hub.Run(done)

	alice, bob := uuid.New(), uuid.New()
	a1 := &Client{hub: hub, userID: alice, send: make(chan []byte, 4)}
	a2 := &Client{hub: hub, userID: alice, send: make(chan []byte, 4)}
	b1 := &Client{hub: hub, userID: bob, send: make(chan []byte, 4)}
	hub.Register(a1)
	hub.Register(a2)
	hub.Register(b1)
	require.Eventually(t, func() bool { return hub.ClientCount() == 3 }, time.Second, 10*time.Millisecond)

	NewNotifier(hub).TaskUpdated(alice, TaskUpdated{TaskID: 9, Status: "completed", Listings: 12})

	for _, c := range []*Client{a1, a2} {
		var evt struct {
			Type string      `json:"type"`
			Data TaskUpdated `json:"data"`
		}
		require.NoError(t, json.Unmarshal(receive(t, c.send), &evt))
		assert.Equal(t, EventTaskUpdated, evt.Type)
		assert.Equal(t, TaskUpdated{TaskID: 9, Status: "completed", Listings: 12}, evt.Data)
	}
	select {
	case <-b1.send:
		t.Fatal("bob must not receive alice's event")
	case <-time.After(50 * time.Millisecond):
	}

	hub.Unregister(a1)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)
	_, open := <-a1.send
	assert.False(t, open)
}

func TestNotifier_NilHubIsNoop(t *testing.T) {
	var n *Notifier
	n.MatchesReady(uuid.New(), MatchesReady{TaskID: 1})
	NewNotifier(nil).MatchDigest(uuid.New(), MatchDigest{})
}
