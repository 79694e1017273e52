package websocket

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/websocket/v2"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
}

const writeWait = 10 * time.Second

// Client merepresentasikan klien WebSocket milik satu user.
type Client struct {
	userID int
	conn   Conn
	send   chan []byte

	quit     chan struct{}
	quitOnce sync.Once
	running  atomic.Bool
	finished chan struct{}
}

func NewClient(userID int, conn Conn) *Client {
	return &Client{
		userID:   userID,
		conn:     conn,
		send:     make(chan []byte, 16),
		quit:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

func (c *Client) stop() {
	c.quitOnce.Do(func() { close(c.quit) })
}

// WritePump writes queued messages until the client is stopped or a write
// fails. Messages still queued when the client stops are discarded. It must
// be started at most once.
func (c *Client) WritePump() {
	c.running.Store(true)
	defer close(c.finished)
	for {
		select {
		case <-c.quit:
			return
		case msg := <-c.send:
			select {
			case <-c.quit:
				return
			default:
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}

type message struct {
	userID int
	data   []byte
}

// Hub mengelola koneksi WebSocket, grouped by user so a message only
// reaches the connections of the user it belongs to.
type Hub struct {
	clients    map[int]map[*Client]bool
	broadcast  chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

// NewHub membuat instance Hub baru.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int]map[*Client]bool),
		broadcast:  make(chan message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run owns the client map until ctx is cancelled, then drops every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, set := range h.clients {
				for client := range set {
					client.stop()
				}
			}
			h.clients = map[int]map[*Client]bool{}
			return
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[client.userID] = set
			}
			set[client] = true
		case client := <-h.unregister:
			h.drop(client)
		case msg := <-h.broadcast:
			for client := range h.clients[msg.userID] {
				select {
				case client.send <- msg.data:
				default:
					// Too slow to keep up.
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	client.stop()
	set, ok := h.clients[client.userID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

// Register adds client. It reports false once the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes client and waits for its WritePump, if one was
// started, to return. Nothing is written to the connection after Unregister
// returns, so the caller may release it. Removing twice is harmless.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.stop()
	}
	<-client.quit
	if client.running.Load() {
		<-client.finished
	}
}

// Publish queues data for every connection of userID. When the queue is full
// the message is dropped and false is returned.
func (h *Hub) Publish(userID int, data []byte) bool {
	select {
	case h.broadcast <- message{userID: userID, data: data}:
		return true
	default:
		return false
	}
}
