// Package companion implements the add-on companion pipeline and its local API.
//
// The pipeline watches the resolved SavedVariables files, decodes the add-on's
// saved table on every accepted change, extracts a typed snapshot, and hands it
// to the upload queue. The feature also exposes the local HTTP endpoints the
// desktop UI uses to inspect and drive the agent:
//
//   - GET  /companion/status: watcher, queue and extraction state
//   - GET  /companion/queue: queue statistics
//   - GET  /companion/server: remote service probe with latency
//   - POST /companion/scan: re-process every watched file now
//   - POST /companion/sync: force a server sync, bypassing the queue
//   - PUT  /companion/wow-path: change the installation root and rewatch
//
// # Error Handling
//
// Decode and extraction failures are absorbed: they are recorded in the status
// report and logged, but never stop the watcher. Path resolution failures are
// fatal to starting the watch and are surfaced to the caller.
package companion
