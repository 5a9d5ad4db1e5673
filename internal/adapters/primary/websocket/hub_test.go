package websocket

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/queue-desk-backend/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient builds a board client without a real websocket connection.
// bufferSize controls how many events it can absorb before stalling.
func newTestClient(hub *Hub, bufferSize int) *Client {
	return &Client{
		Hub:           hub,
		Send:          make(chan domain.Event, bufferSize),
		RemoteAddr:    "test-board",
		Subscriptions: make(map[int64]bool),
		logger:        testLogger(),
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	client := newTestClient(hub, 8)
	hub.Register <- client

	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	event := domain.Event{Type: domain.EventTicketCalled, TicketID: 7, CategoryID: 3}
	require.NoError(t, hub.Broadcast(event))

	select {
	case got := <-client.Send:
		assert.Equal(t, domain.EventTicketCalled, got.Type)
		assert.Equal(t, int64(7), got.TicketID)
	case <-time.After(time.Second):
		t.Fatal("expected event on client send channel")
	}
}

func TestHub_CategoryRooms(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	boardA := newTestClient(hub, 8)
	boardB := newTestClient(hub, 8)
	hub.Register <- boardA
	hub.Register <- boardB

	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 2
	}, time.Second, 5*time.Millisecond)

	// Narrow boardA down to category 5 only.
	hub.subscribeToCategory(boardA, 5)
	hub.unsubscribeFromCategory(boardA, allCategories)

	assert.Equal(t, 1, hub.GetClientsInRoom(5))
	assert.Equal(t, 1, hub.GetClientsInRoom(allCategories))

	require.NoError(t, hub.Broadcast(domain.Event{Type: domain.EventTicketIssued, TicketID: 1, CategoryID: 9}))

	// boardB is in the firehose room and sees everything; boardA only
	// watches category 5.
	select {
	case got := <-boardB.Send:
		assert.Equal(t, int64(9), got.CategoryID)
	case <-time.After(time.Second):
		t.Fatal("expected firehose board to receive the event")
	}
	assert.Empty(t, boardA.Send)
}

// A board that never drains its send buffer must be dropped without wedging
// the hub's event loop.
func TestHub_StalledBoardIsDroppedAndHubStaysLive(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	stalled := newTestClient(hub, 0)
	hub.Register <- stalled

	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	// Nothing reads stalled.Send, so this broadcast cannot be queued.
	require.NoError(t, hub.Broadcast(domain.Event{Type: domain.EventTicketCalled, TicketID: 1, CategoryID: 2}))

	// The stalled board gets unregistered and its send channel closed.
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 0
	}, time.Second, 5*time.Millisecond)

	select {
	case _, open := <-stalled.Send:
		assert.False(t, open, "expected send channel to be closed")
	case <-time.After(time.Second):
		t.Fatal("expected send channel to be closed")
	}

	// The event loop must still be serving registrations and broadcasts.
	healthy := newTestClient(hub, 8)
	registered := make(chan struct{})
	go func() {
		hub.Register <- healthy
		close(registered)
	}()

	select {
	case <-registered:
	case <-time.After(time.Second):
		t.Fatal("hub event loop stopped accepting registrations")
	}

	require.NoError(t, hub.Broadcast(domain.Event{Type: domain.EventTicketCompleted, TicketID: 2, CategoryID: 2}))

	select {
	case got := <-healthy.Send:
		assert.Equal(t, domain.EventTicketCompleted, got.Type)
	case <-time.After(time.Second):
		t.Fatal("expected event after stalled board was dropped")
	}
}
