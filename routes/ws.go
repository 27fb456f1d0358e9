package routes

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rizkirifandi7/web-silat-be-v2/models"
	"go.uber.org/zap"
)

// Hub fans settled-donation events out to connected websocket clients so
// campaign pages can update live without polling.
type Hub struct {
	upgrader   websocket.Upgrader
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.Mutex
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		logger:     logger,
	}
}

// Run owns the client set. Register, unregister and broadcast all go
// through this loop.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mutex.Lock()
			h.clients[conn] = true
			count := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("websocket client connected", zap.Int("clients", count))

		case conn := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			count := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("websocket client disconnected", zap.Int("clients", count))

		case message := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					delete(h.clients, conn)
					conn.Close()
				}
			}
			h.mutex.Unlock()
		}
	}
}

func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("websocket broadcast dropped, channel full")
	}
}

// DonationFeed upgrades the connection and keeps it registered until the
// client goes away. Inbound messages are discarded.
func (ar *APIRoutes) DonationFeed(c *gin.Context) {
	conn, err := ar.hub.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		ar.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	ar.hub.register <- conn

	go func() {
		defer func() {
			ar.hub.unregister <- conn
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcastDonation is wired as the reconciler's settlement callback.
func (ar *APIRoutes) broadcastDonation(donation models.Donation) {
	payload := gin.H{
		"type": "donation_settled",
		"data": gin.H{
			"id":         donation.ID,
			"donor_name": donation.DonorName,
			"amount":     donation.Amount,
			"message":    donation.Message,
			"campaign":   donation.CampaignID,
			"paid_at":    donation.PaidAt,
		},
	}

	message, err := json.Marshal(payload)
	if err != nil {
		ar.logger.Error("marshal donation broadcast", zap.Error(err))
		return
	}
	ar.hub.Broadcast(message)
}
