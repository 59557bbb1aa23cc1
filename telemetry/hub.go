package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/milk9111/locomotion/locomotion"
)

// Frame is one message sent to viewers per simulation tick.
type Frame struct {
	Type    string             `json:"type"`
	Signals locomotion.Signals `json:"signals"`
	Events  []locomotion.Event `json:"events,omitempty"`
}

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second
)

// clientConn is a viewer connection with a bounded send queue.
type clientConn struct {
	ws   *websocket.Conn
	send chan []byte
}

// enqueue drops the message when the queue is full so the simulation never
// blocks on a slow viewer.
func (c *clientConn) enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
	}
}

func (c *clientConn) writePump() {
	defer c.ws.Close()
	for msg := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump only watches for the viewer going away.
func (c *clientConn) readPump(h *Hub) {
	defer h.remove(c)
	c.ws.SetReadLimit(1 << 10)
	_ = c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	})
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

// Hub streams locomotion signals and events to websocket viewers. It only
// observes; viewers cannot drive the character.
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*clientConn]struct{}
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*clientConn]struct{}),
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("telemetry upgrade failed", zap.Error(err))
		return
	}
	c := &clientConn{ws: ws, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Info("telemetry viewer connected", zap.String("remote", r.RemoteAddr), zap.Int("viewers", n))

	go c.writePump()
	go c.readPump(h)
}

func (h *Hub) remove(c *clientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.log.Info("telemetry viewer disconnected", zap.Int("viewers", len(h.clients)))
}

// Publish sends one frame to every viewer.
func (h *Hub) Publish(sig locomotion.Signals, events []locomotion.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) == 0 {
		return
	}
	b, err := json.Marshal(Frame{Type: "tick", Signals: sig, Events: events})
	if err != nil {
		h.log.Error("telemetry marshal failed", zap.Error(err))
		return
	}
	for c := range h.clients {
		c.enqueue(b)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// Serve runs the telemetry endpoint on addr at /ws until ctx is done.
func Serve(ctx context.Context, addr string, h *Hub) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	h.log.Info("telemetry listening", zap.String("addr", addr))

	select {
	case <-ctx.Done():
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
