package settings

import (
	"fmt"
	"os"
	"sync"
	"time"

	"scribey-companion/core/paths"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// FileProvider is the yaml-file-backed Provider implementation.
type FileProvider struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// NewFileProvider loads (or initializes) the settings file at path. A device
// ID is generated and persisted on first use.
func NewFileProvider(path string) (*FileProvider, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("auto_upload", true)

	// A missing file is a fresh install, not an error; anything else (e.g.
	// a corrupt file) is.
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	}

	p := &FileProvider{v: v, path: path}
	if v.GetString("device_id") == "" {
		v.Set("device_id", uuid.NewString())
		if err := p.persist(); err != nil {
			return nil, fmt.Errorf("failed to persist device identity: %w", err)
		}
	}
	return p, nil
}

func (p *FileProvider) persist() error {
	return p.v.WriteConfigAs(p.path)
}

func (p *FileProvider) setAndPersist(key string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.v.Set(key, value)
	return p.persist()
}

func (p *FileProvider) WowPath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.v.GetString("wow_path")
}

func (p *FileProvider) SetWowPath(path string) error {
	return p.setAndPersist("wow_path", path)
}

func (p *FileProvider) ValidateWowPath(path string) error {
	return paths.ValidateRoot(path)
}

func (p *FileProvider) ServerURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.v.GetString("server_url")
}

func (p *FileProvider) SetServerURL(url string) error {
	return p.setAndPersist("server_url", url)
}

func (p *FileProvider) AutoUploadEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.v.GetBool("auto_upload")
}

func (p *FileProvider) DeviceID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.v.GetString("device_id")
}

func (p *FileProvider) CharacterSync(name, realm string) (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	raw := p.v.GetString(syncKey(name, realm))
	if raw == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func (p *FileProvider) UpdateCharacterSync(name, realm string, ts time.Time) error {
	return p.setAndPersist(syncKey(name, realm), ts.UTC().Format(time.RFC3339))
}

// syncKey builds the bookkeeping key for a character. Viper keys are
// case-insensitive, which is harmless here: the key is only ever produced by
// this function.
func syncKey(name, realm string) string {
	return "character_sync." + name + "-" + realm
}
