package queue

import (
	"context"
	"sync"
	"time"

	"scribey-companion/core/extract"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Item is one queued snapshot. Owned exclusively by the queue until it is
// delivered or dropped.
type Item struct {
	ID         string                 `json:"id"`
	Snapshot   *extract.AddonSnapshot `json:"snapshot"`
	SourcePath string                 `json:"sourcePath"`
	EnqueuedAt time.Time              `json:"enqueuedAt"`
	Failures   int                    `json:"failures"`
}

// Deliverer attempts to deliver a single item to the remote service.
type Deliverer interface {
	Deliver(ctx context.Context, item *Item) error
}

// Bookkeeper receives per-character sync timestamps after successful
// delivery. Implemented by the settings provider.
type Bookkeeper interface {
	UpdateCharacterSync(name, realm string, ts time.Time) error
}

// Journal persists queued items across restarts. Optional.
type Journal interface {
	Append(item *Item) error
	Remove(id string) error
}

// Config tunes the drain behavior. DefaultConfig matches the add-on
// companion's production settings.
type Config struct {
	// BatchSize is the maximum number of items consumed per drain cycle.
	BatchSize int
	// MaxItemFailures is the per-item failure count at which an item is
	// dropped instead of requeued.
	MaxItemFailures int
	// BackoffThreshold is the consecutive-failure count that activates the
	// backoff gate.
	BackoffThreshold int
	// BackoffStep scales the backoff delay per consecutive failure.
	BackoffStep time.Duration
	// BackoffCap bounds the backoff delay.
	BackoffCap time.Duration
	// RedrainDelay is the pause before a follow-up drain when the queue is
	// still non-empty after a cycle.
	RedrainDelay time.Duration
	// AutoDrain starts a drain on enqueue. Disabled in tests, which step
	// cycles explicitly through DrainOnce.
	AutoDrain bool
}

// DefaultConfig returns the production drain settings.
func DefaultConfig() Config {
	return Config{
		BatchSize:        5,
		MaxItemFailures:  5,
		BackoffThreshold: 3,
		BackoffStep:      5 * time.Second,
		BackoffCap:       30 * time.Second,
		RedrainDelay:     time.Second,
		AutoDrain:        true,
	}
}

// Stats is a point-in-time view of the queue for status reporting.
type Stats struct {
	Depth               int       `json:"depth"`
	InFlight            bool      `json:"inFlight"`
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	Delivered           int       `json:"delivered"`
	Dropped             int       `json:"dropped"`
	LastAttempt         time.Time `json:"lastAttempt"`
}

// Queue is the durable, rate-limited delivery queue.
type Queue struct {
	cfg       Config
	deliverer Deliverer
	books     Bookkeeper
	journal   Journal
	logger    *zap.Logger
	now       func() time.Time

	// OnDelivered, when set, runs after each successful delivery (e.g. raw
	// file archival). Set before the first enqueue.
	OnDelivered func(item *Item)

	mu             sync.Mutex
	items          []*Item
	busy           bool
	stopped        bool
	consecFailures int
	lastAttempt    time.Time
	delivered      int
	dropped        int
	timer          *time.Timer
}

// New creates a queue. books and journal may be nil.
func New(cfg Config, deliverer Deliverer, books Bookkeeper, journal Journal, logger *zap.Logger) *Queue {
	return &Queue{
		cfg:       cfg,
		deliverer: deliverer,
		books:     books,
		journal:   journal,
		logger:    logger,
		now:       time.Now,
	}
}

// Enqueue appends a snapshot and triggers a drain if none is active.
func (q *Queue) Enqueue(snapshot *extract.AddonSnapshot, sourcePath string) *Item {
	item := &Item{
		ID:         uuid.NewString(),
		Snapshot:   snapshot,
		SourcePath: sourcePath,
		EnqueuedAt: q.now(),
	}
	if q.journal != nil {
		if err := q.journal.Append(item); err != nil {
			q.logger.Warn("Journal append failed", zap.Error(err))
		}
	}

	q.mu.Lock()
	q.items = append(q.items, item)
	depth := len(q.items)
	q.mu.Unlock()

	q.logger.Info("Snapshot queued",
		zap.String("item", item.ID),
		zap.String("path", sourcePath),
		zap.Int("depth", depth),
	)

	if q.cfg.AutoDrain {
		q.kick()
	}
	return item
}

// Restore re-adds items loaded from the journal at startup, oldest first.
func (q *Queue) Restore(items []*Item) {
	if len(items) == 0 {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, items...)
	q.mu.Unlock()

	q.logger.Info("Restored queued snapshots from journal", zap.Int("count", len(items)))
	if q.cfg.AutoDrain {
		q.kick()
	}
}

// kick starts an asynchronous drain unless one is already running.
func (q *Queue) kick() {
	q.mu.Lock()
	if q.busy || q.stopped || len(q.items) == 0 {
		q.mu.Unlock()
		return
	}
	q.busy = true
	q.mu.Unlock()

	go q.drain()
}

func (q *Queue) drain() {
	q.runCycle(context.Background())

	q.mu.Lock()
	q.busy = false
	if !q.stopped && len(q.items) > 0 && q.timer == nil {
		// Scheduled follow-up rather than an immediate loop: yields to other
		// pending work and bounds stack depth under a long backlog.
		q.timer = time.AfterFunc(q.cfg.RedrainDelay, func() {
			q.mu.Lock()
			q.timer = nil
			q.mu.Unlock()
			q.kick()
		})
	}
	q.mu.Unlock()
}

// DrainOnce runs a single drain cycle synchronously. It is a no-op when a
// drain is already in flight.
func (q *Queue) DrainOnce(ctx context.Context) {
	q.mu.Lock()
	if q.busy || q.stopped {
		q.mu.Unlock()
		return
	}
	q.busy = true
	q.mu.Unlock()

	q.runCycle(ctx)

	q.mu.Lock()
	q.busy = false
	q.mu.Unlock()
}

// runCycle applies the backoff gate, consumes one batch, and attempts each
// item sequentially. Failed items return to the front of the queue in their
// original order.
func (q *Queue) runCycle(ctx context.Context) {
	q.mu.Lock()
	if q.consecFailures >= q.cfg.BackoffThreshold {
		backoff := time.Duration(q.consecFailures) * q.cfg.BackoffStep
		if backoff > q.cfg.BackoffCap {
			backoff = q.cfg.BackoffCap
		}
		if q.now().Sub(q.lastAttempt) < backoff {
			q.mu.Unlock()
			q.logger.Debug("Backoff gate active, cycle skipped",
				zap.Int("consecutiveFailures", q.consecFailures),
				zap.Duration("backoff", backoff),
			)
			return
		}
	}

	n := q.cfg.BatchSize
	if n > len(q.items) {
		n = len(q.items)
	}
	batch := q.items[:n]
	q.items = q.items[n:]
	q.mu.Unlock()

	var requeue []*Item
	for _, item := range batch {
		if q.attempt(ctx, item) {
			continue
		}
		if item.Failures < q.cfg.MaxItemFailures {
			requeue = append(requeue, item)
		} else {
			q.drop(item)
		}
	}

	if len(requeue) > 0 {
		q.mu.Lock()
		q.items = append(requeue, q.items...)
		q.mu.Unlock()
	}
}

// attempt delivers one item and reports success.
func (q *Queue) attempt(ctx context.Context, item *Item) bool {
	q.mu.Lock()
	q.lastAttempt = q.now()
	q.mu.Unlock()

	err := q.deliverer.Deliver(ctx, item)
	if err != nil {
		q.mu.Lock()
		q.consecFailures++
		q.mu.Unlock()
		item.Failures++
		q.logger.Warn("Delivery failed",
			zap.String("item", item.ID),
			zap.Int("itemFailures", item.Failures),
			zap.Error(err),
		)
		return false
	}

	q.mu.Lock()
	q.consecFailures = 0
	q.delivered++
	q.mu.Unlock()

	if q.journal != nil {
		if err := q.journal.Remove(item.ID); err != nil {
			q.logger.Warn("Journal remove failed", zap.Error(err))
		}
	}
	q.recordSync(item)
	if q.OnDelivered != nil {
		q.OnDelivered(item)
	}
	q.logger.Info("Snapshot delivered", zap.String("item", item.ID), zap.String("path", item.SourcePath))
	return true
}

// recordSync updates the per-character last-sync bookkeeping for every
// character in the delivered snapshot.
func (q *Queue) recordSync(item *Item) {
	if q.books == nil || item.Snapshot == nil {
		return
	}
	ts := q.now()
	for _, character := range item.Snapshot.Characters {
		if err := q.books.UpdateCharacterSync(character.Name, character.Realm, ts); err != nil {
			q.logger.Warn("Character sync bookkeeping failed",
				zap.String("character", character.Name+"-"+character.Realm),
				zap.Error(err),
			)
		}
	}
}

// drop removes an item permanently. Terminal: logged, no further action.
func (q *Queue) drop(item *Item) {
	q.mu.Lock()
	q.dropped++
	q.mu.Unlock()

	if q.journal != nil {
		if err := q.journal.Remove(item.ID); err != nil {
			q.logger.Warn("Journal remove failed", zap.Error(err))
		}
	}
	q.logger.Error("Snapshot dropped after repeated failures",
		zap.String("item", item.ID),
		zap.String("path", item.SourcePath),
		zap.Int("failures", item.Failures),
	)
}

// Stats reports the queue's current state.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Depth:               len(q.items),
		InFlight:            q.busy,
		ConsecutiveFailures: q.consecFailures,
		Delivered:           q.delivered,
		Dropped:             q.dropped,
		LastAttempt:         q.lastAttempt,
	}
}

// Stop cancels future drains. A delivery already in flight completes on its
// own; its result is logged but schedules nothing further.
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopped = true
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
}
