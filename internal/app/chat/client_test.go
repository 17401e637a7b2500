package chat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueAfterCloseSendIsRejected(t *testing.T) {
	client := NewClient(nil, nil, nil)

	require.True(t, client.enqueue([]byte("queued")))
	client.closeSend()

	require.NotPanics(t, func() {
		assert.False(t, client.enqueue([]byte("late")), "a closed queue rejects the frame")
	})
}

func TestCloseSendIsIdempotent(t *testing.T) {
	client := NewClient(nil, nil, nil)

	require.NotPanics(t, func() {
		client.closeSend()
		client.closeSend()
	})
}

// A delivery racing a disconnect for the same connection must never crash:
// the hub hands out the client reference before Remove closes its queue, so
// the late enqueue has to fail gracefully instead of hitting a closed channel.
func TestHubSendRacingRemoveDoesNotPanic(t *testing.T) {
	registry := NewConnectionRegistry()

	for i := 0; i < 200; i++ {
		hub := NewHub(registry)
		client := NewClient(hub, nil, nil)
		hub.Add(client)

		start := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 50; j++ {
				hub.SendConn(client.ID, EventReceiveMessage, "payload")
			}
		}()
		go func() {
			defer wg.Done()
			<-start
			hub.Remove(client.ID)
		}()

		close(start)
		wg.Wait()

		assert.False(t, client.enqueue([]byte("late")), "queue stays closed after removal")
	}
}

func TestHubSendAfterRemoveMisses(t *testing.T) {
	hub := NewHub(NewConnectionRegistry())
	client := NewClient(hub, nil, nil)
	hub.Add(client)
	hub.Remove(client.ID)

	assert.False(t, hub.SendConn(client.ID, EventReceiveMessage, "payload"))
}

func TestKickStoresCloseFrameAndClosesQueue(t *testing.T) {
	client := NewClient(nil, nil, nil)

	client.Kick("replaced by a new connection")

	assert.NotNil(t, client.closeFrame, "kick prepares the close frame for WritePump")
	assert.False(t, client.enqueue([]byte("late")))

	// The queue closing is what wakes WritePump to deliver the frame.
	_, open := <-client.send
	assert.False(t, open)
}

func TestKickThenRemoveIsSafe(t *testing.T) {
	hub := NewHub(NewConnectionRegistry())
	client := NewClient(hub, nil, nil)
	hub.Add(client)

	client.Kick("replaced")
	require.NotPanics(t, func() {
		hub.Remove(client.ID)
	})
}
