package notify

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// Client is one connected renderer.
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub fans notification and state events out to every connected renderer
// client. Slow clients are dropped rather than blocking the broadcast.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	once       sync.Once
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true

		case c := <-h.unregister:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.Send)
			}

		case data := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.Send <- data:
				default:
					close(c.Send)
					delete(h.clients, c)
				}
			}

		case <-h.done:
			for c := range h.clients {
				close(c.Send)
				delete(h.clients, c)
			}
			return
		}
	}
}

func (h *Hub) Stop() {
	h.once.Do(func() { close(h.done) })
}

// event is what goes over the wire to renderer clients.
type event struct {
	Type    string      `json:"type"` // "notification", "navigate", "state"
	Level   string      `json:"level,omitempty"`
	Message string      `json:"message,omitempty"`
	Field   string      `json:"field,omitempty"`
	Path    string      `json:"path,omitempty"`
	Event   string      `json:"event,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func (h *Hub) send(e event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Println("hub marshal:", err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

func (h *Hub) Success(message string) {
	h.send(event{Type: "notification", Level: "success", Message: message})
}

func (h *Hub) Error(message string) {
	h.send(event{Type: "notification", Level: "error", Message: message})
}

func (h *Hub) FieldError(message, field string) {
	h.send(event{Type: "notification", Level: "error", Message: message, Field: field})
}

func (h *Hub) Navigate(path string) {
	h.send(event{Type: "navigate", Path: path})
}

func (h *Hub) State(name string, data interface{}) {
	h.send(event{Type: "state", Event: name, Data: data})
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// WebSocketHandler upgrades a renderer connection and pumps hub events to it.
// Inbound frames are read only to detect disconnects.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{
			Conn: conn,
			Send: make(chan []byte, 256),
		}
		hub.register <- client

		go func() {
			defer conn.Close()
			for msg := range client.Send {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			}
		}()

		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					select {
					case hub.unregister <- client:
					case <-hub.done:
					}
					conn.Close()
					return
				}
			}
		}()
	}
}
