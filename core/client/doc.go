// Package client is the outbound HTTP transport to the Scribey web service.
//
// Three endpoints exist: a status probe (diagnostics and latency), the
// snapshot upload consumed by the queue's drain cycle, and a force-sync
// request that is independent of the queue. Every call carries the device
// identity and app version headers and is bounded by the configured timeout;
// a timed-out call is an ordinary delivery failure as far as the queue's
// backoff logic is concerned.
package client
