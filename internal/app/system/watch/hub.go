// internal/app/system/watch/hub.go

// Package watch delivers live result-set snapshots to board viewers.
//
// The contract is "subscribe to a query, receive the current result set
// whenever it may have changed". The hub requeries Mongo rather than using
// change streams: a nudge from the write path triggers an immediate requery
// for every open subscription, and a poll ticker catches writes from other
// processes. Each snapshot is the complete current result set, so a client
// rebuilds its view from scratch on every delivery and never has to patch
// incremental diffs.
package watch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/planboard/internal/app/store/queries/nodequeries"
	"github.com/dalemusser/planboard/internal/domain/models"
)

// DefaultPollInterval is how often the hub requeries when no writes have
// been signalled. Polling covers mutations made by other processes.
const DefaultPollInterval = 15 * time.Second

// Query names the result set a subscription watches: one room's board for
// one day.
type Query struct {
	Room string
	Day  time.Time
}

// Subscription is one live watch on a query. Snapshots delivers the current
// result set; the first send arrives promptly after Subscribe. Close is
// mandatory: an unreleased subscription keeps its channel, its goroutine
// slot in the fan-out set, and its share of requery volume alive forever.
type Subscription struct {
	ID    uuid.UUID
	query Query

	snapshots chan []models.Node
	closeOnce sync.Once
	done      chan struct{}
}

// Snapshots returns the delivery channel. It is closed when the
// subscription is closed or the hub stops.
func (s *Subscription) Snapshots() <-chan []models.Node { return s.snapshots }

// Close releases the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Hub owns the subscription set and the requery loop.
type Hub struct {
	db   *mongo.Database
	log  *zap.Logger
	poll time.Duration

	mu   sync.Mutex
	subs map[uuid.UUID]*Subscription

	nudge  chan struct{}
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewHub creates a hub over the given database. A non-positive poll
// interval falls back to DefaultPollInterval.
func NewHub(db *mongo.Database, logger *zap.Logger, poll time.Duration) *Hub {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Hub{
		db:     db,
		log:    logger,
		poll:   poll,
		subs:   make(map[uuid.UUID]*Subscription),
		nudge:  make(chan struct{}, 1),
		stopCh: make(chan struct{}),
	}
}

// Start begins the requery loop.
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
	h.log.Info("watch hub started", zap.Duration("poll_interval", h.poll))
}

// Stop shuts the loop down and closes every open subscription's channel.
func (h *Hub) Stop() {
	close(h.stopCh)
	h.wg.Wait()

	h.mu.Lock()
	for id, sub := range h.subs {
		close(sub.snapshots)
		delete(h.subs, id)
	}
	h.mu.Unlock()
	h.log.Info("watch hub stopped")
}

// Subscribe registers a watch and queues its initial snapshot. The caller
// must Close the subscription when the view goes away.
func (h *Hub) Subscribe(q Query) *Subscription {
	sub := &Subscription{
		ID:        uuid.New(),
		query:     q,
		snapshots: make(chan []models.Node, 1),
		done:      make(chan struct{}),
	}

	h.mu.Lock()
	h.subs[sub.ID] = sub
	h.mu.Unlock()

	h.log.Debug("watch subscription opened",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("room", q.Room))

	h.Nudge()
	return sub
}

// Nudge signals that the node collection changed and every open
// subscription should requery. Coalesces: a nudge during an in-flight
// requery round schedules exactly one more round.
func (h *Hub) Nudge() {
	select {
	case h.nudge <- struct{}{}:
	default:
	}
}

func (h *Hub) run() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.poll)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopCh:
			return
		case <-h.nudge:
			h.refresh()
		case <-ticker.C:
			h.refresh()
		}
	}
}

// refresh requeries every live subscription and delivers fresh snapshots.
// Closed subscriptions found along the way are dropped from the set. Each
// delivery replaces a stale undelivered snapshot instead of queueing behind
// it, so a slow consumer always reads the newest state.
func (h *Hub) refresh() {
	h.mu.Lock()
	open := make([]*Subscription, 0, len(h.subs))
	for id, sub := range h.subs {
		select {
		case <-sub.done:
			close(sub.snapshots)
			delete(h.subs, id)
			h.log.Debug("watch subscription closed",
				zap.String("subscription_id", id.String()))
		default:
			open = append(open, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range open {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		rows, err := nodequeries.Board(ctx, h.db, sub.query.Room, sub.query.Day)
		cancel()
		if err != nil {
			h.log.Warn("watch requery failed",
				zap.String("subscription_id", sub.ID.String()),
				zap.String("room", sub.query.Room),
				zap.Error(err))
			continue
		}

		select {
		case <-sub.done:
			continue
		default:
		}
		select {
		case sub.snapshots <- rows:
		default:
			select {
			case <-sub.snapshots:
			default:
			}
			select {
			case sub.snapshots <- rows:
			default:
			}
		}
	}
}
