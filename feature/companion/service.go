package companion

import (
	"context"
	"sync"

	"scribey-companion/core/client"
	"scribey-companion/core/extract"
	"scribey-companion/core/luatable"
	"scribey-companion/core/paths"
	"scribey-companion/core/queue"
	"scribey-companion/core/settings"
	"scribey-companion/core/watch"

	"go.uber.org/zap"
)

// Uploader is the remote-service surface the feature drives directly,
// outside the queue.
type Uploader interface {
	// Status probes the service.
	Status(ctx context.Context) (*client.ServerStatus, error)
	// ForceSync requests a server-side sync. Independent of the queue.
	ForceSync(ctx context.Context) error
}

// StatusReport aggregates the agent's observable state for the local API.
type StatusReport struct {
	Watcher        watch.Status    `json:"watcher"`
	Queue          queue.Stats     `json:"queue"`
	AutoUpload     bool            `json:"autoUpload"`
	DeviceID       string          `json:"deviceId"`
	LastExtraction *extract.Ledger `json:"lastExtraction,omitempty"`
	LastError      string          `json:"lastError,omitempty"`
}

// Service runs the capture pipeline: watch, decode, extract, enqueue.
type Service struct {
	settings  settings.Provider
	uploader  Uploader
	queue     *queue.Queue
	detector  *watch.Detector
	logger    *zap.Logger
	addonFile string
	tableName string

	mu         sync.Mutex
	lastLedger *extract.Ledger
	lastError  string
}

// NewService creates the pipeline service. addonFile is the SavedVariables
// file name, tableName the saved global holding the add-on data.
func NewService(provider settings.Provider, uploader Uploader, q *queue.Queue, addonFile, tableName string, logger *zap.Logger) *Service {
	s := &Service{
		settings:  provider,
		uploader:  uploader,
		queue:     q,
		logger:    logger,
		addonFile: addonFile,
		tableName: tableName,
	}
	s.detector = watch.NewDetector(s.handleChange, logger)
	return s
}

// StartWatching resolves the SavedVariables paths from the configured
// installation root and starts the change detector. An unusable root is a
// *paths.PathError.
func (s *Service) StartWatching() error {
	root := s.settings.WowPath()
	if root == "" {
		return &paths.PathError{Root: "", Reason: "no installation path configured"}
	}

	files, err := paths.Resolve(root, s.addonFile)
	if err != nil {
		return err
	}

	s.logger.Info("Watching SavedVariables",
		zap.String("root", root),
		zap.Int("accounts", len(files)),
	)
	return s.detector.Start(files)
}

// handleChange is the detector pipeline. Decode and extraction failures are
// recorded and absorbed so a corrupt save never stops the watch.
func (s *Service) handleChange(path string, data []byte) {
	value, err := luatable.DecodeGlobal(data, s.tableName)
	if err != nil {
		s.recordError(err)
		s.logger.Warn("SavedVariables decode failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}

	snapshot, ledger, err := extract.Extract(value, data)
	if err != nil {
		s.recordError(err)
		s.logger.Warn("Snapshot extraction failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}

	s.mu.Lock()
	s.lastLedger = ledger
	s.lastError = ""
	s.mu.Unlock()

	if len(ledger.Failed) > 0 {
		s.logger.Warn("Some characters failed extraction",
			zap.String("path", path),
			zap.Int("failed", len(ledger.Failed)),
		)
	}

	if !s.settings.AutoUploadEnabled() {
		s.logger.Info("Auto-upload disabled, snapshot not queued", zap.String("path", path))
		return
	}
	s.queue.Enqueue(snapshot, path)
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

// Rescan re-processes every watched file immediately. Content and cooldown
// suppression still apply, so an unchanged file triggers nothing.
func (s *Service) Rescan() int {
	watched := s.detector.Status().WatchedPaths
	for _, path := range watched {
		s.detector.ProcessPath(path)
	}
	return len(watched)
}

// SetWowPath validates and stores a new installation root, then restarts the
// watcher against it.
func (s *Service) SetWowPath(path string) error {
	if err := s.settings.ValidateWowPath(path); err != nil {
		return err
	}
	if err := s.settings.SetWowPath(path); err != nil {
		return err
	}
	s.detector.Stop()
	return s.StartWatching()
}

// ForceSync requests a server-side sync of all data. The queue is neither
// drained nor cleared.
func (s *Service) ForceSync(ctx context.Context) error {
	return s.uploader.ForceSync(ctx)
}

// ServerStatus probes the remote service.
func (s *Service) ServerStatus(ctx context.Context) (*client.ServerStatus, error) {
	return s.uploader.Status(ctx)
}

// Status reports the agent's aggregate state.
func (s *Service) Status() StatusReport {
	s.mu.Lock()
	ledger := s.lastLedger
	lastErr := s.lastError
	s.mu.Unlock()

	return StatusReport{
		Watcher:        s.detector.Status(),
		Queue:          s.queue.Stats(),
		AutoUpload:     s.settings.AutoUploadEnabled(),
		DeviceID:       s.settings.DeviceID(),
		LastExtraction: ledger,
		LastError:      lastErr,
	}
}

// QueueStats reports the upload queue's state.
func (s *Service) QueueStats() queue.Stats {
	return s.queue.Stats()
}

// Stop tears down the watcher and cancels future queue drains.
func (s *Service) Stop() {
	s.detector.Stop()
	s.queue.Stop()
}
