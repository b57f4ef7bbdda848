package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeClock lets tests step through the cooldown window deterministically.
type fakeClock struct {
	at time.Time
}

func (c *fakeClock) now() time.Time { return c.at }

func (c *fakeClock) advance(d time.Duration) { c.at = c.at.Add(d) }

func newTestDetector(pipeline Pipeline) (*Detector, *fakeClock) {
	clock := &fakeClock{at: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	d := NewDetector(pipeline, zap.NewNop())
	d.now = clock.now
	d.targets["a.lua"] = &target{}
	return d, clock
}

func TestProcessContent_DuplicateSuppressed(t *testing.T) {
	var calls int
	d, _ := newTestDetector(func(path string, data []byte) { calls++ })

	d.ProcessContent("a.lua", []byte("ScribeyDB = {}"))
	d.ProcessContent("a.lua", []byte("ScribeyDB = {}"))

	assert.Equal(t, 1, calls, "identical content must trigger exactly one cycle")
}

func TestProcessContent_Cooldown(t *testing.T) {
	var calls int
	d, clock := newTestDetector(func(path string, data []byte) { calls++ })

	d.ProcessContent("a.lua", []byte("v1"))
	clock.advance(10 * time.Second)
	d.ProcessContent("a.lua", []byte("v2"))
	assert.Equal(t, 1, calls, "second change within cooldown must not trigger")

	// The cooldown skip must still have refreshed the cache: feeding v2
	// again after the window is a no-op, while new content triggers.
	clock.advance(DefaultCooldown)
	d.ProcessContent("a.lua", []byte("v2"))
	assert.Equal(t, 1, calls, "cached content advanced during cooldown")

	d.ProcessContent("a.lua", []byte("v3"))
	assert.Equal(t, 2, calls)
}

func TestProcessContent_UnknownPathIgnored(t *testing.T) {
	var calls int
	d, _ := newTestDetector(func(path string, data []byte) { calls++ })

	d.ProcessContent("other.lua", []byte("data"))
	assert.Zero(t, calls)
}

func TestProcessPath_ReadErrorRecorded(t *testing.T) {
	d, _ := newTestDetector(func(path string, data []byte) {})
	missing := filepath.Join(t.TempDir(), "missing.lua")
	d.targets[missing] = &target{}

	d.ProcessPath(missing)

	status := d.Status()
	assert.NotEmpty(t, status.LastError)
}

func TestStartStop(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "Scribey.lua")
	require.NoError(t, os.WriteFile(file, []byte("ScribeyDB = {}"), 0o644))

	triggered := make(chan string, 1)
	d := NewDetector(func(path string, data []byte) { triggered <- path }, zap.NewNop())

	require.NoError(t, d.Start([]string{file}))

	// The initial scan picks up pre-existing content.
	select {
	case path := <-triggered:
		assert.Equal(t, filepath.Clean(file), path)
	case <-time.After(2 * time.Second):
		t.Fatal("initial scan did not trigger")
	}

	status := d.Status()
	assert.True(t, status.IsWatching)
	assert.Equal(t, []string{filepath.Clean(file)}, status.WatchedPaths)
	assert.False(t, status.LastUpdate.IsZero())

	// Stop is a hard reset.
	d.Stop()
	status = d.Status()
	assert.False(t, status.IsWatching)
	assert.Empty(t, status.WatchedPaths)
	assert.True(t, status.LastUpdate.IsZero())
	assert.Empty(t, status.LastError)
}
