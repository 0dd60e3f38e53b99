// Package uibridge carries UI events between the chat session and a browser panel over a
// websocket, and serves the HTTP surface of `acc serve`.
package uibridge

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/anyonecancode/acc/internal/domain"
	"github.com/anyonecancode/acc/internal/ports"
)

const (
	// maxMessageSize is the largest inbound event accepted (512 KB)
	maxMessageSize = 512 * 1024

	// sendBuffer holds enough events to replay a full transcript on connect
	sendBuffer = 256

	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// ErrNoClient is returned by Input when no panel is connected.
var ErrNoClient = errors.New("no UI client connected")

// Handler processes one inbound event.
type Handler func(ctx context.Context, ev domain.Event) error

// Hub owns the single live panel connection. A new connection supersedes the previous one,
// so a reopened panel never receives events twice.
type Hub struct {
	mu        sync.Mutex
	client    *client
	pending   map[string]chan domain.Event
	handler   Handler
	onConnect func()
	origins   []string
	logger    ports.Logger
}

type client struct {
	conn   *websocket.Conn
	send   chan domain.Event
	cancel context.CancelFunc
}

// NewHub creates a Hub accepting websocket origins matching the given host patterns.
func NewHub(origins []string, logger ports.Logger) *Hub {
	return &Hub{
		pending: make(map[string]chan domain.Event),
		origins: origins,
		logger:  logger,
	}
}

// SetHandler installs the inbound event handler.
func (h *Hub) SetHandler(handler Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handler = handler
}

// OnConnect registers fn to run after each panel connects.
func (h *Hub) OnConnect(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onConnect = fn
}

// Connected reports whether a panel is attached.
func (h *Hub) Connected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.client != nil
}

// Post implements ports.EventSink. Events are dropped when no panel is attached or its
// buffer is full.
func (h *Hub) Post(ev domain.Event) {
	h.mu.Lock()
	c := h.client
	h.mu.Unlock()
	if c == nil {
		return
	}
	select {
	case c.send <- ev:
	default:
		h.logger.Warn("ui event dropped", map[string]interface{}{"command": string(ev.Command)})
	}
}

// Input implements ports.InputPrompter with a requestInput/inputResponse round trip.
func (h *Hub) Input(ctx context.Context, req domain.InputRequest) (string, bool, error) {
	id := uuid.NewString()
	ch := make(chan domain.Event, 1)

	h.mu.Lock()
	if h.client == nil {
		h.mu.Unlock()
		return "", false, ErrNoClient
	}
	h.pending[id] = ch
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.pending, id)
		h.mu.Unlock()
	}()

	h.Post(domain.Event{
		Command:     domain.EventRequestInput,
		RequestID:   id,
		Prompt:      req.Prompt,
		Placeholder: req.Placeholder,
		Value:       req.Value,
	})

	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case resp := <-ch:
		if resp.Cancelled {
			return "", false, nil
		}
		return resp.Value, true, nil
	}
}

// ServeWS upgrades the request and runs the connection until it closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.origins})
	if err != nil {
		h.logger.Warn("websocket accept failed", map[string]interface{}{"error": err.Error()})
		return
	}
	conn.SetReadLimit(maxMessageSize)

	ctx, cancel := context.WithCancel(r.Context())
	c := &client{conn: conn, send: make(chan domain.Event, sendBuffer), cancel: cancel}
	h.attach(c)
	defer h.detach(c)

	go h.writePump(ctx, c)

	h.mu.Lock()
	onConnect := h.onConnect
	h.mu.Unlock()
	if onConnect != nil {
		onConnect()
	}

	h.readPump(ctx, c)
}

// attach makes c the live panel. Requests still waiting on the previous panel are cancelled:
// the new panel never saw them.
func (h *Hub) attach(c *client) {
	h.mu.Lock()
	prev := h.client
	h.client = c
	if prev != nil {
		h.cancelPendingLocked()
	}
	h.mu.Unlock()

	if prev != nil {
		prev.cancel()
		_ = prev.conn.Close(websocket.StatusPolicyViolation, "superseded by a newer panel")
	}
	h.logger.Info("panel connected", nil)
}

func (h *Hub) detach(c *client) {
	h.mu.Lock()
	current := h.client == c
	if current {
		h.client = nil
		h.cancelPendingLocked()
	}
	h.mu.Unlock()

	c.cancel()
	_ = c.conn.Close(websocket.StatusNormalClosure, "")
	if current {
		h.logger.Info("panel disconnected", nil)
	}
}

func (h *Hub) cancelPendingLocked() {
	for id, ch := range h.pending {
		select {
		case ch <- domain.Event{Command: domain.EventInputResponse, RequestID: id, Cancelled: true}:
		default:
		}
		delete(h.pending, id)
	}
}

func (h *Hub) readPump(ctx context.Context, c *client) {
	for {
		var ev domain.Event
		if err := wsjson.Read(ctx, c.conn, &ev); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && ctx.Err() == nil {
				h.logger.Debug("websocket read ended", map[string]interface{}{"error": err.Error()})
			}
			return
		}
		h.dispatch(ctx, ev)
	}
}

// dispatch answers input requests inline; everything else runs on its own goroutine so a
// handler waiting for input never blocks the reader that would deliver it.
func (h *Hub) dispatch(ctx context.Context, ev domain.Event) {
	if ev.Command == domain.EventInputResponse {
		h.mu.Lock()
		ch, ok := h.pending[ev.RequestID]
		h.mu.Unlock()
		if ok {
			select {
			case ch <- ev:
			default:
			}
		}
		return
	}

	h.mu.Lock()
	handler := h.handler
	h.mu.Unlock()
	if handler == nil {
		return
	}
	go func() {
		if err := handler(context.WithoutCancel(ctx), ev); err != nil {
			h.logger.Debug("event handler failed", map[string]interface{}{
				"command": string(ev.Command),
				"error":   err.Error(),
			})
		}
	}()
}

func (h *Hub) writePump(ctx context.Context, c *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, c.conn, ev)
			cancel()
			if err != nil {
				h.logger.Debug("websocket write failed", map[string]interface{}{"error": err.Error()})
				c.cancel()
				return
			}
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				c.cancel()
				return
			}
		}
	}
}

var (
	_ ports.EventSink     = (*Hub)(nil)
	_ ports.InputPrompter = (*Hub)(nil)
)
