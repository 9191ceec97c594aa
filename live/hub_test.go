package live

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, room string, buffer int) *Client {
	return &Client{
		Hub:  hub,
		Send: make(chan []byte, buffer),
		Room: room,
	}
}

func receivedMessage(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case raw := <-c.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	default:
		t.Fatal("expected a buffered message")
		return Message{}
	}
}

func TestBroadcastToRoomDeliversToRoomOnly(t *testing.T) {
	hub := NewHub()
	observer1 := newTestClient(hub, RoomForTournament(1), 4)
	observer2 := newTestClient(hub, RoomForTournament(1), 4)
	outsider := newTestClient(hub, RoomForTournament(2), 4)
	hub.rooms[observer1.Room] = map[*Client]bool{observer1: true, observer2: true}
	hub.rooms[outsider.Room] = map[*Client]bool{outsider: true}

	hub.BroadcastToRoom(observer1.Room, Message{
		Type:    EventMatchUpdated,
		Payload: map[string]interface{}{"match_id": 7},
	})

	for _, c := range []*Client{observer1, observer2} {
		msg := receivedMessage(t, c)
		assert.Equal(t, EventMatchUpdated, msg.Type)
		assert.Equal(t, "tournament_1", msg.RoomID)
	}
	assert.Empty(t, outsider.Send)
}

func TestBroadcastDropsForSlowObserver(t *testing.T) {
	hub := NewHub()
	room := RoomForTournament(3)
	// An unbuffered channel with no reader models an observer that cannot
	// keep up.
	slow := newTestClient(hub, room, 0)
	healthy := newTestClient(hub, room, 4)
	hub.rooms[room] = map[*Client]bool{slow: true, healthy: true}

	hub.BroadcastToRoom(room, Message{Type: EventStandingsUpdated})

	msg := receivedMessage(t, healthy)
	assert.Equal(t, EventStandingsUpdated, msg.Type)
	assert.Empty(t, slow.Send)
}

func TestBroadcastSkipsClosedClient(t *testing.T) {
	hub := NewHub()
	room := RoomForTournament(4)
	closed := newTestClient(hub, room, 4)
	closed.IsClosed = true
	hub.rooms[room] = map[*Client]bool{closed: true}

	hub.BroadcastToRoom(room, Message{Type: EventStageReset})
	assert.Empty(t, closed.Send)
}

func TestBroadcastToUnknownRoomIsNoOp(t *testing.T) {
	hub := NewHub()
	hub.BroadcastToRoom(RoomForTournament(99), Message{Type: EventStageAdvanced})
}

func TestRegisterAndUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, RoomForTournament(5), 1)
	hub.Register <- client

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return hub.rooms[client.Room][client]
	}, time.Second, 5*time.Millisecond)

	hub.Unregister <- client

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		_, ok := hub.rooms[client.Room]
		return !ok
	}, time.Second, 5*time.Millisecond)

	client.Mu.Lock()
	defer client.Mu.Unlock()
	assert.True(t, client.IsClosed)
}
