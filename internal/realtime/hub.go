package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/v3/websocket"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/seuros/ecodash/internal/logging"
)

const (
	updateBuffer      = 512
	outboxSize        = 64
	keepaliveInterval = 30 * time.Second
)

// Hub fans dashboard updates out to connected websocket viewers. A viewer
// receives every update kind until it sends a subscribe frame naming the
// kinds it wants, e.g. {"subscribe":["visitor","download"]}.
type Hub struct {
	join     chan *viewer
	leave    chan *viewer
	updates  chan update
	stats    chan chan Stats
	done     chan struct{}
	stopOnce sync.Once

	viewers  map[*viewer]struct{}
	evicted  int
	greeting func() []byte
}

// Stats is a point-in-time view of the hub
type Stats struct {
	Viewers int `json:"viewers"`
	Evicted int `json:"evicted"` // viewers disconnected for not keeping up
}

type update struct {
	kind    string
	payload []byte
}

type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(int, []byte) error
	Close() error
}

type viewer struct {
	hub    *Hub
	conn   wsConn
	outbox chan []byte

	mu    sync.RWMutex
	kinds map[string]bool // nil: every kind
}

type subscribeFrame struct {
	Subscribe []string `json:"subscribe"`
}

type keepalive interface {
	C() <-chan time.Time
	Stop()
}

type tickerKeepalive struct {
	*time.Ticker
}

func (t tickerKeepalive) C() <-chan time.Time { return t.Ticker.C }

var newKeepalive = func() keepalive {
	return tickerKeepalive{time.NewTicker(keepaliveInterval)}
}

// NewHub starts a hub. greeting, when non-nil, produces the first message
// each new viewer receives regardless of its subscription.
func NewHub(greeting func() []byte) *Hub {
	h := &Hub{
		join:     make(chan *viewer),
		leave:    make(chan *viewer),
		updates:  make(chan update, updateBuffer),
		stats:    make(chan chan Stats),
		done:     make(chan struct{}),
		viewers:  make(map[*viewer]struct{}),
		greeting: greeting,
	}

	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case v := <-h.join:
			h.viewers[v] = struct{}{}
			h.greet(v)
		case v := <-h.leave:
			if _, ok := h.viewers[v]; ok {
				h.disconnect(v)
				_ = v.conn.Close()
			}
		case u := <-h.updates:
			for v := range h.viewers {
				if !v.wants(u.kind) {
					continue
				}
				select {
				case v.outbox <- u.payload:
				default:
					h.disconnect(v)
					h.evicted++
				}
			}
		case reply := <-h.stats:
			reply <- Stats{Viewers: len(h.viewers), Evicted: h.evicted}
		case <-h.done:
			for v := range h.viewers {
				h.disconnect(v)
			}
			return
		}
	}
}

func (h *Hub) greet(v *viewer) {
	if h.greeting == nil {
		return
	}
	msg := h.greeting()
	if msg == nil {
		return
	}
	select {
	case v.outbox <- msg:
	default:
	}
}

func (h *Hub) disconnect(v *viewer) {
	delete(h.viewers, v)
	close(v.outbox)
}

// Publish queues payload for every viewer subscribed to kind. It never
// blocks; when the queue is full the payload is dropped.
func (h *Hub) Publish(kind string, payload []byte) {
	select {
	case h.updates <- update{kind: kind, payload: payload}:
	default:
		logging.L().Warn("dropping realtime update",
			zap.String("kind", kind),
			zap.String("reason", "queue full"))
	}
}

// Stats reports the connected viewer count. A stopped hub reports zero.
func (h *Hub) Stats() Stats {
	reply := make(chan Stats, 1)
	select {
	case h.stats <- reply:
		return <-reply
	case <-h.done:
		return Stats{}
	}
}

// Stop disconnects every viewer and ends the hub loop. Safe to call twice.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Upgrade rejects plain HTTP requests to the websocket route.
func Upgrade(c fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler serves one websocket viewer for the lifetime of its connection.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		v := &viewer{
			hub:    h,
			conn:   conn,
			outbox: make(chan []byte, outboxSize),
		}

		select {
		case h.join <- v:
		case <-h.done:
			_ = conn.Close()
			return
		}

		go v.writeLoop()
		v.readLoop()
	})
}

func (v *viewer) wants(kind string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.kinds == nil || v.kinds[kind]
}

// applyFrame updates the subscription. An empty list resubscribes to
// everything; anything that is not a subscribe frame is ignored.
func (v *viewer) applyFrame(data []byte) {
	var frame subscribeFrame
	if err := json.Unmarshal(data, &frame); err != nil || frame.Subscribe == nil {
		logging.L().Debug("ignoring realtime frame", zap.ByteString("frame", data))
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if len(frame.Subscribe) == 0 {
		v.kinds = nil
		return
	}
	v.kinds = make(map[string]bool, len(frame.Subscribe))
	for _, kind := range frame.Subscribe {
		v.kinds[kind] = true
	}
}

func (v *viewer) readLoop() {
	defer func() {
		select {
		case v.hub.leave <- v:
		case <-v.hub.done:
		}
	}()

	for {
		msgType, data, err := v.conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType == websocket.TextMessage {
			v.applyFrame(data)
		}
	}
}

func (v *viewer) writeLoop() {
	ping := newKeepalive()
	defer func() {
		ping.Stop()
		_ = v.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-v.outbox:
			if !ok {
				_ = v.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := v.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ping.C():
			if err := v.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
