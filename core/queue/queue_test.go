package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"scribey-companion/core/extract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errDeliver = errors.New("upstream unavailable")

// fakeDeliverer fails the first failCount attempts, then succeeds.
type fakeDeliverer struct {
	failCount int
	calls     int
	delivered []string
}

func (d *fakeDeliverer) Deliver(ctx context.Context, item *Item) error {
	d.calls++
	if d.calls <= d.failCount {
		return errDeliver
	}
	d.delivered = append(d.delivered, item.SourcePath)
	return nil
}

type fakeBooks struct {
	synced map[string]time.Time
}

func (b *fakeBooks) UpdateCharacterSync(name, realm string, ts time.Time) error {
	if b.synced == nil {
		b.synced = map[string]time.Time{}
	}
	b.synced[name+"-"+realm] = ts
	return nil
}

type fakeJournal struct {
	appended []string
	removed  []string
}

func (j *fakeJournal) Append(item *Item) error { j.appended = append(j.appended, item.ID); return nil }
func (j *fakeJournal) Remove(id string) error  { j.removed = append(j.removed, id); return nil }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.AutoDrain = false
	return cfg
}

func snapshotWith(characters ...string) *extract.AddonSnapshot {
	s := &extract.AddonSnapshot{Characters: map[string]extract.CharacterRecord{}}
	for _, key := range characters {
		s.Characters[key] = extract.CharacterRecord{Name: key[:1], Realm: key[2:], Class: "MAGE"}
	}
	return s
}

func TestDrainOnce_BatchBound(t *testing.T) {
	deliverer := &fakeDeliverer{}
	q := New(testConfig(), deliverer, nil, nil, zap.NewNop())

	for i := 0; i < 12; i++ {
		q.Enqueue(&extract.AddonSnapshot{}, fmt.Sprintf("file-%d.lua", i))
	}

	q.DrainOnce(context.Background())
	assert.Equal(t, 5, deliverer.calls, "a cycle consumes at most BatchSize items")
	assert.Equal(t, 7, q.Stats().Depth)

	q.DrainOnce(context.Background())
	q.DrainOnce(context.Background())
	assert.Equal(t, 12, q.Stats().Delivered)
	assert.Zero(t, q.Stats().Depth)
}

func TestDrainOnce_FailureRequeuesAtFront(t *testing.T) {
	cfg := testConfig()
	cfg.BatchSize = 1
	deliverer := &fakeDeliverer{failCount: 1}
	q := New(cfg, deliverer, nil, nil, zap.NewNop())

	q.Enqueue(&extract.AddonSnapshot{}, "old.lua")
	q.Enqueue(&extract.AddonSnapshot{}, "new.lua")

	q.DrainOnce(context.Background()) // old.lua fails, requeued at front
	assert.Equal(t, 2, q.Stats().Depth)
	assert.Equal(t, 1, q.Stats().ConsecutiveFailures)

	q.DrainOnce(context.Background())
	assert.Equal(t, []string{"old.lua"}, deliverer.delivered, "the failed item retries ahead of newer items")
	assert.Zero(t, q.Stats().ConsecutiveFailures, "success resets the consecutive-failure counter")
}

// TestDrainOnce_DropAfterMaxFailures covers the terminal path: four failures
// requeue the item, the fifth drops it permanently.
func TestDrainOnce_DropAfterMaxFailures(t *testing.T) {
	deliverer := &fakeDeliverer{failCount: 100}
	journal := &fakeJournal{}
	cfg := testConfig()
	cfg.BackoffThreshold = 100 // isolate the drop logic from the backoff gate
	q := New(cfg, deliverer, nil, journal, zap.NewNop())

	item := q.Enqueue(&extract.AddonSnapshot{}, "doomed.lua")

	for i := 0; i < 5; i++ {
		q.DrainOnce(context.Background())
	}

	stats := q.Stats()
	assert.Zero(t, stats.Depth, "item must not be requeued after the fifth failure")
	assert.Equal(t, 1, stats.Dropped)
	assert.Equal(t, 5, item.Failures)
	assert.Equal(t, []string{item.ID}, journal.removed, "dropped items leave the journal")
}

func TestDrainOnce_BackoffGate(t *testing.T) {
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	deliverer := &fakeDeliverer{failCount: 100}
	cfg := testConfig()
	cfg.MaxItemFailures = 100
	q := New(cfg, deliverer, nil, nil, zap.NewNop())
	q.now = func() time.Time { return clock }

	q.Enqueue(&extract.AddonSnapshot{}, "a.lua")

	// Three failing cycles activate the gate.
	for i := 0; i < 3; i++ {
		q.DrainOnce(context.Background())
	}
	require.Equal(t, 3, q.Stats().ConsecutiveFailures)
	calls := deliverer.calls

	// Within min(3*5s, 30s) nothing is consumed.
	clock = clock.Add(10 * time.Second)
	q.DrainOnce(context.Background())
	assert.Equal(t, calls, deliverer.calls, "cycle inside the backoff window must not attempt delivery")
	assert.Equal(t, 1, q.Stats().Depth)

	// Once the window elapses the next cycle attempts again.
	clock = clock.Add(6 * time.Second)
	q.DrainOnce(context.Background())
	assert.Equal(t, calls+1, deliverer.calls)
}

func TestDrainOnce_BackoffCapped(t *testing.T) {
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	deliverer := &fakeDeliverer{failCount: 100}
	cfg := testConfig()
	cfg.MaxItemFailures = 100
	q := New(cfg, deliverer, nil, nil, zap.NewNop())
	q.now = func() time.Time { return clock }

	q.Enqueue(&extract.AddonSnapshot{}, "a.lua")

	// Push consecutive failures well past the cap threshold.
	for i := 0; i < 10; i++ {
		clock = clock.Add(31 * time.Second)
		q.DrainOnce(context.Background())
	}
	calls := deliverer.calls

	// 10 failures * 5s would be 50s, but the cap is 30s: exactly 30s after
	// the last attempt the gate must open again.
	clock = clock.Add(30 * time.Second)
	q.DrainOnce(context.Background())
	assert.Equal(t, calls+1, deliverer.calls)
}

// TestDrainOnce_SyncBookkeeping verifies that delivering a snapshot updates
// the last-sync timestamp for every character it contains.
func TestDrainOnce_SyncBookkeeping(t *testing.T) {
	deliverer := &fakeDeliverer{}
	books := &fakeBooks{}
	q := New(testConfig(), deliverer, books, nil, zap.NewNop())

	q.Enqueue(snapshotWith("A-R1", "B-R1"), "a.lua")
	q.DrainOnce(context.Background())

	assert.Len(t, books.synced, 2)
	assert.Contains(t, books.synced, "A-R1")
	assert.Contains(t, books.synced, "B-R1")
}

func TestEnqueue_Journal(t *testing.T) {
	deliverer := &fakeDeliverer{}
	journal := &fakeJournal{}
	q := New(testConfig(), deliverer, nil, journal, zap.NewNop())

	item := q.Enqueue(&extract.AddonSnapshot{}, "a.lua")
	assert.Equal(t, []string{item.ID}, journal.appended)

	q.DrainOnce(context.Background())
	assert.Equal(t, []string{item.ID}, journal.removed, "delivered items leave the journal")
}

func TestRestore(t *testing.T) {
	deliverer := &fakeDeliverer{}
	q := New(testConfig(), deliverer, nil, nil, zap.NewNop())

	q.Restore([]*Item{
		{ID: "r1", Snapshot: &extract.AddonSnapshot{}, SourcePath: "restored.lua"},
	})
	assert.Equal(t, 1, q.Stats().Depth)

	q.DrainOnce(context.Background())
	assert.Equal(t, []string{"restored.lua"}, deliverer.delivered)
}

func TestOnDelivered(t *testing.T) {
	deliverer := &fakeDeliverer{}
	q := New(testConfig(), deliverer, nil, nil, zap.NewNop())

	var archived []string
	q.OnDelivered = func(item *Item) { archived = append(archived, item.SourcePath) }

	q.Enqueue(&extract.AddonSnapshot{}, "a.lua")
	q.DrainOnce(context.Background())
	assert.Equal(t, []string{"a.lua"}, archived)
}

func TestStop(t *testing.T) {
	deliverer := &fakeDeliverer{}
	q := New(testConfig(), deliverer, nil, nil, zap.NewNop())

	q.Enqueue(&extract.AddonSnapshot{}, "a.lua")
	q.Stop()
	q.DrainOnce(context.Background())

	assert.Zero(t, deliverer.calls, "a stopped queue schedules no further work")
	assert.Equal(t, 1, q.Stats().Depth)
}
