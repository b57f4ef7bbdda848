package watch

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultCooldown is the minimum interval between pipeline triggers for the
// same path.
const DefaultCooldown = 30 * time.Second

// Pipeline is invoked for every accepted change with the path and its new
// content.
type Pipeline func(path string, data []byte)

// Status is a point-in-time view of the detector.
type Status struct {
	IsWatching   bool      `json:"isWatching"`
	WatchedPaths []string  `json:"watchedPaths"`
	LastUpdate   time.Time `json:"lastUpdate"`
	LastError    string    `json:"lastError"`
}

// target is the per-path watch state. Owned exclusively by the detector.
type target struct {
	content     []byte
	lastAttempt time.Time
}

// Detector watches a fixed set of file paths and triggers the pipeline on
// deduplicated changes.
type Detector struct {
	logger   *zap.Logger
	pipeline Pipeline
	cooldown time.Duration
	now      func() time.Time

	mu         sync.Mutex
	watcher    *fsnotify.Watcher
	targets    map[string]*target
	watching   bool
	lastUpdate time.Time
	lastErr    string
}

// NewDetector creates a detector with the default cooldown.
func NewDetector(pipeline Pipeline, logger *zap.Logger) *Detector {
	return &Detector{
		logger:   logger,
		pipeline: pipeline,
		cooldown: DefaultCooldown,
		now:      time.Now,
		targets:  make(map[string]*target),
	}
}

// SetCooldown overrides the trigger cooldown. Only useful before Start.
func (d *Detector) SetCooldown(cooldown time.Duration) {
	d.cooldown = cooldown
}

// Start begins watching the given paths. The parent directories are
// registered with fsnotify (the game replaces files via rename, which only
// the directory watch observes reliably), and every existing file is
// processed once so state present before startup is not missed.
func (d *Detector) Start(files []string) error {
	d.mu.Lock()
	if d.watching {
		d.mu.Unlock()
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		d.mu.Unlock()
		return err
	}

	dirs := make(map[string]struct{})
	for _, file := range files {
		clean := filepath.Clean(file)
		d.targets[clean] = &target{}
		dirs[filepath.Dir(clean)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			// The SavedVariables directory may not exist until the add-on
			// first saves; skip it and rely on the remaining watches.
			d.logger.Warn("Cannot watch directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	d.watcher = watcher
	d.watching = true
	d.mu.Unlock()

	go d.loop(watcher)

	// Initial scan.
	for _, file := range files {
		d.ProcessPath(filepath.Clean(file))
	}
	return nil
}

func (d *Detector) loop(watcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			path := filepath.Clean(event.Name)
			d.mu.Lock()
			_, tracked := d.targets[path]
			d.mu.Unlock()
			if tracked {
				d.ProcessPath(path)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			d.mu.Lock()
			d.lastErr = err.Error()
			d.mu.Unlock()
			d.logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

// ProcessPath reads the file and runs change detection on its content. Read
// failures are recorded in lastError and skipped; they never stop the watch.
func (d *Detector) ProcessPath(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		d.mu.Lock()
		d.lastErr = err.Error()
		d.mu.Unlock()
		return
	}
	d.ProcessContent(path, data)
}

// ProcessContent applies suppression rules to new content for path and
// triggers the pipeline when the change is accepted. Unknown paths are
// ignored.
func (d *Detector) ProcessContent(path string, data []byte) {
	d.mu.Lock()
	tgt, ok := d.targets[path]
	if !ok {
		d.mu.Unlock()
		return
	}
	if bytes.Equal(tgt.content, data) {
		d.mu.Unlock()
		return
	}

	now := d.now()
	tgt.content = append([]byte(nil), data...)
	d.lastUpdate = now

	if !tgt.lastAttempt.IsZero() && now.Sub(tgt.lastAttempt) < d.cooldown {
		// Inside the cooldown window: the cache above still advanced so the
		// next change compares against current content, but no trigger.
		d.mu.Unlock()
		d.logger.Debug("Change within cooldown, skipping", zap.String("path", path))
		return
	}
	tgt.lastAttempt = now
	d.mu.Unlock()

	d.logger.Info("Change detected", zap.String("path", path), zap.Int("bytes", len(data)))
	d.pipeline(path, data)
}

// Status reports the current watch state.
func (d *Detector) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	watched := make([]string, 0, len(d.targets))
	for path := range d.targets {
		watched = append(watched, path)
	}
	sort.Strings(watched)

	return Status{
		IsWatching:   d.watching,
		WatchedPaths: watched,
		LastUpdate:   d.lastUpdate,
		LastError:    d.lastErr,
	}
}

// Stop tears down all watches and clears per-path state. An HTTP delivery
// already in flight is unaffected; only future notifications are cancelled.
func (d *Detector) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.watcher != nil {
		_ = d.watcher.Close()
		d.watcher = nil
	}
	d.targets = make(map[string]*target)
	d.watching = false
	d.lastUpdate = time.Time{}
	d.lastErr = ""
}
