package websocket

import (
	"encoding/json"
	"sync"

	"github.com/arlo/calcledger/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Hub fans calculation events out to the owner's connected dashboards.
// Clients are keyed by user ID; events for one user never reach another.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	events     chan *outbound
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	mu         sync.RWMutex
}

type outbound struct {
	userID uuid.UUID
	data   []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan *outbound, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for _, clients := range h.clients {
				for client := range clients {
					client.Close()
				}
			}
			h.clients = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				if h.clients[client.userID] == nil {
					h.clients[client.userID] = make(map[*Client]bool)
				}
				h.clients[client.userID][client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if clients, ok := h.clients[client.userID]; ok {
					if _, ok := clients[client]; ok {
						delete(clients, client)
						client.Close()
						if len(clients) == 0 {
							delete(h.clients, client.userID)
						}
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.events:
			h.mu.RLock()
			for client := range h.clients[msg.userID] {
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer; drop the event rather than block the hub
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Stop gracefully shuts down the hub and waits for Run() to exit.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Notify implements service.Notifier.
func (h *Hub) Notify(userID uuid.UUID, event *domain.CalculationEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal websocket event")
		return
	}

	select {
	case h.events <- &outbound{userID: userID, data: data}:
	case <-h.done:
	}
}
