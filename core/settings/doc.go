// Package settings exposes the mutable device configuration consumed by the
// pipeline: installation path, server URL, auto-upload flag, device identity,
// and per-character last-sync bookkeeping.
//
// The pipeline only ever sees the Provider interface. The file-backed
// implementation here is a thin viper wrapper with no algorithmic content;
// the surrounding application shell owns where the file lives.
//
// Device identity is generated once, persisted, and stable for the process
// lifetime; it rides on every outbound request.
package settings
