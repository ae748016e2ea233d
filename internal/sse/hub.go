package sse

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
)

type Event string

const (
	// EventStopResolved fires when the resolve queue writes a place id back
	// into a stop.
	EventStopResolved Event = "StopResolved"
	// EventPlaceDetailsReady fires when detail hydration lands on a plan.
	EventPlaceDetailsReady Event = "PlaceDetailsReady"
	// EventSummariesInvalidated hints the editor to refetch derived summaries
	// after new signals arrive.
	EventSummariesInvalidated Event = "SummariesInvalidated"
)

type Message struct {
	Channel string `json:"channel"`
	Event   Event  `json:"event"`
	Data    any    `json:"data,omitempty"`
}

type Client struct {
	ID       uuid.UUID
	ActorID  uuid.UUID
	Channels map[string]bool
	Outbound chan Message
}

type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	bus           Bus
	subscriptions map[string]map[*Client]bool
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:           log.With("component", "SSEHub"),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// AttachBus routes broadcasts through a cross-instance bus; the forwarder
// feeds remote messages back into local delivery.
func (hub *Hub) AttachBus(ctx context.Context, bus Bus) error {
	if err := bus.StartForwarder(ctx, hub.deliver); err != nil {
		return err
	}
	hub.mu.Lock()
	hub.bus = bus
	hub.mu.Unlock()
	return nil
}

func (hub *Hub) NewClient(actorID uuid.UUID) *Client {
	return &Client{
		ID:       uuid.New(),
		ActorID:  actorID,
		Channels: make(map[string]bool),
		Outbound: make(chan Message, 10),
	}
}

func (hub *Hub) AddChannel(client *Client, channel string) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()

	client.Channels[channel] = true
	clients, exists := hub.subscriptions[channel]
	if !exists {
		clients = make(map[*Client]bool)
		hub.subscriptions[channel] = clients
	}
	clients[client] = true

	hub.log.Debug("SSE client subscribed", "client_id", client.ID, "channel", channel)
}

func (hub *Hub) RemoveChannel(client *Client, channel string) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	delete(client.Channels, channel)
	if clients, ok := hub.subscriptions[channel]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(hub.subscriptions, channel)
		}
	}
}

func (hub *Hub) RemoveClient(client *Client) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for channel := range client.Channels {
		if clients, ok := hub.subscriptions[channel]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(hub.subscriptions, channel)
			}
		}
	}
	close(client.Outbound)
}

// Broadcast fans a message out: through the bus when one is attached (every
// instance, this one included, delivers locally via the forwarder), directly
// otherwise.
func (hub *Hub) Broadcast(msg Message) {
	hub.mu.RLock()
	bus := hub.bus
	hub.mu.RUnlock()

	if bus != nil {
		if err := bus.Publish(context.Background(), msg); err != nil {
			hub.log.Warn("bus publish failed, delivering locally", "error", err)
			hub.deliver(msg)
		}
		return
	}
	hub.deliver(msg)
}

func (hub *Hub) deliver(msg Message) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	for client := range hub.subscriptions[msg.Channel] {
		select {
		case client.Outbound <- msg:
		default:
			// Slow consumer: drop rather than block the hub.
			hub.log.Debug("dropping SSE message for slow client", "client_id", client.ID, "channel", msg.Channel)
		}
	}
}
