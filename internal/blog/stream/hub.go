// Package stream broadcasts blog lifecycle events to connected WebSocket
// clients. The feed is read-only and mirrors the public listing, so no token
// is required to subscribe.
package stream

import (
	"context"
	"encoding/json"

	blogdomain "github.com/mzhdanov/bloglist/internal/blog/domain"
	"github.com/mzhdanov/bloglist/internal/common/logger"
	"github.com/mzhdanov/bloglist/internal/observability/metrics"
)

const (
	eventBlogCreated = "blog_created"
	eventBlogDeleted = "blog_deleted"
)

type blogPayload struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
	User   string `json:"user"`
}

type event struct {
	Type string       `json:"type"`
	Blog *blogPayload `json:"blog,omitempty"`
	ID   string       `json:"id,omitempty"`
}

type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	log        *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 64),
		log:        log,
	}
}

// Run owns the client set; all membership changes go through the channels so
// no lock is needed.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				c.close()
				delete(h.clients, c)
			}
			metrics.StreamClientsConnected.Set(0)
			return
		case c := <-h.register:
			h.clients[c] = true
			metrics.StreamClientsConnected.Set(float64(len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.close()
				metrics.StreamClientsConnected.Set(float64(len(h.clients)))
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer; drop it rather than stall the feed.
					delete(h.clients, c)
					c.close()
				}
			}
			metrics.StreamClientsConnected.Set(float64(len(h.clients)))
		}
	}
}

func (h *Hub) BlogCreated(blog blogdomain.Blog) {
	h.publish(event{
		Type: eventBlogCreated,
		Blog: &blogPayload{
			ID:     string(blog.ID),
			Title:  blog.Title,
			Author: blog.Author,
			URL:    blog.URL,
			Likes:  blog.Likes,
			User:   string(blog.OwnerID),
		},
	})
}

func (h *Hub) BlogDeleted(id blogdomain.ID) {
	h.publish(event{
		Type: eventBlogDeleted,
		ID:   string(id),
	})
}

func (h *Hub) publish(ev event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Errorf("stream: failed to marshal event: %v", err)
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("stream: broadcast queue full, dropping event")
	}
}
