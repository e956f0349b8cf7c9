package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(id uint, userType string) *Client {
	return &Client{
		ID:        id,
		UserType:  userType,
		Send:      make(chan []byte, 8),
		shipments: make(map[uint]bool),
	}
}

func TestHubShipmentSubscription(t *testing.T) {
	hub := NewHub()
	client := newTestClient(1, "client")
	hub.clients[client] = true

	hub.Subscribe(client, 42)
	hub.BroadcastToShipment(42, []byte("update"))

	require.Len(t, client.Send, 1)
	assert.Equal(t, "update", string(<-client.Send))
}

func TestHubBroadcastOnlyReachesSubscribers(t *testing.T) {
	hub := NewHub()
	tracking := newTestClient(1, "client")
	other := newTestClient(2, "client")
	hub.clients[tracking] = true
	hub.clients[other] = true

	hub.Subscribe(tracking, 7)
	hub.BroadcastToShipment(7, []byte("update"))

	assert.Len(t, tracking.Send, 1)
	assert.Empty(t, other.Send)
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	client := newTestClient(1, "client")
	hub.clients[client] = true

	hub.Subscribe(client, 7)
	hub.Unsubscribe(client, 7)
	hub.BroadcastToShipment(7, []byte("update"))

	assert.Empty(t, client.Send)
	assert.Empty(t, hub.subscribers)
}

func TestHubDropsSubscriptionsOnDisconnect(t *testing.T) {
	hub := NewHub()
	client := newTestClient(1, "client")
	hub.clients[client] = true
	hub.Subscribe(client, 7)
	hub.Subscribe(client, 8)

	hub.mutex.Lock()
	hub.dropSubscriptionsLocked(client)
	hub.mutex.Unlock()

	assert.Empty(t, hub.subscribers)
}

func TestHubBroadcastToUserType(t *testing.T) {
	hub := NewHub()
	driver := newTestClient(1, "driver")
	client := newTestClient(2, "client")
	hub.clients[driver] = true
	hub.clients[client] = true

	hub.BroadcastToUserType("driver", []byte("ping"))

	assert.Len(t, driver.Send, 1)
	assert.Empty(t, client.Send)
}
