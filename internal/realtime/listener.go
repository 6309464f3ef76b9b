package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Channel is the single Postgres NOTIFY channel all table triggers write to.
const Channel = "market_events"

// Event is one change notification emitted by the database triggers.
// Topic names the table-level stream ("balance", "transactions", "owned",
// "catalog"); UserID is 0 for broadcast topics like the catalog.
type Event struct {
	Topic   string          `json:"topic"`
	Kind    string          `json:"kind"` // INSERT, UPDATE, DELETE
	UserID  int64           `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// Handler receives events for one subscription.
type Handler func(Event)

type subscription struct {
	topic   string
	userID  int64
	handler Handler
}

// Hub fans database change notifications out to per-session subscribers.
// One dedicated connection LISTENs; dispatch happens on the hub goroutine,
// so handlers must not block.
type Hub struct {
	pool *pgxpool.Pool

	mu     sync.Mutex
	nextID int64
	subs   map[int64]subscription
}

// NewHub creates a hub over the given pool.
func NewHub(pool *pgxpool.Pool) *Hub {
	return &Hub{
		pool: pool,
		subs: make(map[int64]subscription),
	}
}

// Subscribe registers a handler for one topic. A userID of 0 receives the
// topic's broadcast events only; a nonzero userID receives both broadcast
// events and events scoped to that user. The returned function removes the
// subscription.
func (h *Hub) Subscribe(topic string, userID int64, fn Handler) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.subs[id] = subscription{topic: topic, userID: userID, handler: fn}
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Run listens for notifications until ctx is cancelled, reconnecting with
// backoff when the listen connection drops.
func (h *Hub) Run(ctx context.Context) {
	for {
		if err := h.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[ERR] Realtime listener dropped: %v, reconnecting", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(3 * time.Second):
		}
	}
}

func (h *Hub) listen(ctx context.Context) error {
	conn, err := h.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire listen connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("failed to LISTEN on %s: %w", Channel, err)
	}
	log.Printf("[OK] Realtime listener attached to channel %q", Channel)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("failed to wait for notification: %w", err)
		}
		h.handlePayload([]byte(n.Payload))
	}
}

// handlePayload decodes one raw notification and dispatches it.
func (h *Hub) handlePayload(raw []byte) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		log.Printf("WARNING: Dropping malformed realtime payload: %v", err)
		return
	}
	h.Dispatch(ev)
}

// Dispatch delivers one event to matching subscribers. Exposed so
// in-process producers can feed the hub without a database round-trip.
func (h *Hub) Dispatch(ev Event) {
	h.mu.Lock()
	handlers := make([]Handler, 0, len(h.subs))
	for _, sub := range h.subs {
		if sub.topic != ev.Topic {
			continue
		}
		if ev.UserID != 0 && sub.userID != 0 && sub.userID != ev.UserID {
			continue
		}
		handlers = append(handlers, sub.handler)
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
