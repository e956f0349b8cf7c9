package services

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client
type Client struct {
	ID       uint
	UserType string
	Conn     *websocket.Conn
	Send     chan []byte
	Hub      *Hub

	// Shipments this client is tracking
	shipments map[uint]bool
}

// Hub maintains the set of active clients and per-shipment subscriptions
type Hub struct {
	clients     map[*Client]bool
	subscribers map[uint]map[*Client]bool // shipmentID -> tracking clients
	register    chan *Client
	unregister  chan *Client
	broadcast   chan []byte
	mutex       sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		subscribers: make(map[uint]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan []byte),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client %d connected", client.ID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				h.dropSubscriptionsLocked(client)
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("Client %d disconnected", client.ID)

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					log.Printf("Warning: Could not send to client %d (channel full)", client.ID)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// dropSubscriptionsLocked removes the client from every shipment channel.
// Caller holds h.mutex.
func (h *Hub) dropSubscriptionsLocked(client *Client) {
	for shipmentID := range client.shipments {
		if subs, ok := h.subscribers[shipmentID]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.subscribers, shipmentID)
			}
		}
	}
}

// Subscribe registers the client for updates on one shipment
func (h *Hub) Subscribe(client *Client, shipmentID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.subscribers[shipmentID] == nil {
		h.subscribers[shipmentID] = make(map[*Client]bool)
	}
	h.subscribers[shipmentID][client] = true
	client.shipments[shipmentID] = true
}

// Unsubscribe removes the client from one shipment channel
func (h *Hub) Unsubscribe(client *Client, shipmentID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if subs, ok := h.subscribers[shipmentID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscribers, shipmentID)
		}
	}
	delete(client.shipments, shipmentID)
}

// BroadcastToShipment sends a message to every client tracking the shipment
func (h *Hub) BroadcastToShipment(shipmentID uint, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.subscribers[shipmentID] {
		select {
		case client.Send <- message:
		default:
			log.Printf("Warning: Could not send to client %d (channel full)", client.ID)
		}
	}
}

// BroadcastToUser sends a message to a specific user
func (h *Hub) BroadcastToUser(userID uint, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.ID == userID {
			select {
			case client.Send <- message:
			default:
				log.Printf("Warning: Could not send to client %d (channel full)", client.ID)
			}
		}
	}
}

// BroadcastToUserType sends a message to all users of a specific type
func (h *Hub) BroadcastToUserType(userType string, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.UserType == userType {
			select {
			case client.Send <- message:
			default:
				log.Printf("Warning: Could not send to client %d (channel full)", client.ID)
			}
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// WebSocket message types
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// DriverLocationUpdate represents a driver location update
type DriverLocationUpdate struct {
	DriverID   uint `json:"driverId"`
	ShipmentID uint `json:"shipmentId,omitempty"`
	Location   struct {
		Lat     float64 `json:"lat"`
		Lng     float64 `json:"lng"`
		Heading float64 `json:"heading"`
	} `json:"location"`
}

// ShipmentStatusUpdate represents a shipment lifecycle notification
type ShipmentStatusUpdate struct {
	ShipmentID   uint   `json:"shipmentId"`
	TrackingCode string `json:"trackingCode"`
	Status       string `json:"status"`
	DriverID     uint   `json:"driverId,omitempty"`
}

// ShipmentDelivered carries the completion figures pushed to the client
type ShipmentDelivered struct {
	ShipmentID    uint    `json:"shipmentId"`
	DriverID      uint    `json:"driverId"`
	DistanceKm    float64 `json:"distanceKm"`
	CO2EmittedKg  float64 `json:"co2EmittedKg"`
	CarbonSavedKg float64 `json:"carbonSavedKg"`
}

type subscribeRequest struct {
	ShipmentID uint `json:"shipmentId"`
}

// HandleWebSocket handles WebSocket connections
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint, userType string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:        userID,
		UserType:  userType,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		Hub:       hub,
		shipments: make(map[uint]bool),
	}

	client.Hub.register <- client

	// Start goroutines for reading and writing
	go client.writePump()
	go client.readPump()
}

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var wsMessage WebSocketMessage
		if err := json.Unmarshal(message, &wsMessage); err != nil {
			log.Printf("Error unmarshaling WebSocket message: %v", err)
			continue
		}

		switch wsMessage.Type {
		case "track_shipment":
			c.handleTrackShipment(wsMessage.Data)
		case "untrack_shipment":
			c.handleUntrackShipment(wsMessage.Data)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}

	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) handleTrackShipment(data interface{}) {
	var req subscribeRequest
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := json.Unmarshal(raw, &req); err != nil || req.ShipmentID == 0 {
		log.Printf("Invalid track_shipment payload from client %d", c.ID)
		return
	}
	c.Hub.Subscribe(c, req.ShipmentID)
	log.Printf("Client %d tracking shipment %d", c.ID, req.ShipmentID)
}

func (c *Client) handleUntrackShipment(data interface{}) {
	var req subscribeRequest
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := json.Unmarshal(raw, &req); err != nil || req.ShipmentID == 0 {
		return
	}
	c.Hub.Unsubscribe(c, req.ShipmentID)
}

// SendDriverLocationUpdate pushes a location update to shipment trackers
func (hub *Hub) SendDriverLocationUpdate(update DriverLocationUpdate) {
	message := WebSocketMessage{
		Type: "driver_location_update",
		Data: update,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling driver location update: %v", err)
		return
	}

	if update.ShipmentID != 0 {
		hub.BroadcastToShipment(update.ShipmentID, data)
	}
}

// SendShipmentStatus pushes a lifecycle update to the shipment's trackers
// and to the client who booked it
func (hub *Hub) SendShipmentStatus(clientID uint, update ShipmentStatusUpdate) {
	message := WebSocketMessage{
		Type: "shipment_status",
		Data: update,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling shipment status: %v", err)
		return
	}

	hub.BroadcastToShipment(update.ShipmentID, data)
	hub.BroadcastToUser(clientID, data)
}

// SendShipmentDelivered pushes the completion figures to the client
func (hub *Hub) SendShipmentDelivered(clientID uint, delivered ShipmentDelivered) {
	message := WebSocketMessage{
		Type: "shipment_delivered",
		Data: delivered,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling shipment delivered: %v", err)
		return
	}

	hub.BroadcastToShipment(delivered.ShipmentID, data)
	hub.BroadcastToUser(clientID, data)
}
