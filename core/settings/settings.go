package settings

import "time"

// Provider is the configuration collaborator consumed by the pipeline.
// Reads dominate; writes happen only through the explicit setters and the
// post-delivery sync bookkeeping.
type Provider interface {
	// WowPath returns the configured installation root, empty when unset.
	WowPath() string
	// SetWowPath stores a new installation root.
	SetWowPath(path string) error
	// ValidateWowPath checks a candidate root without storing it.
	ValidateWowPath(path string) error

	// ServerURL returns the upload endpoint base URL, empty when unset.
	ServerURL() string
	// SetServerURL stores a new endpoint base URL.
	SetServerURL(url string) error

	// AutoUploadEnabled reports whether detected changes upload
	// automatically.
	AutoUploadEnabled() bool

	// DeviceID returns the stable device identity.
	DeviceID() string

	// CharacterSync returns the last successful sync time for a character.
	CharacterSync(name, realm string) (time.Time, bool)
	// UpdateCharacterSync records a successful sync for a character.
	UpdateCharacterSync(name, realm string, ts time.Time) error
}
