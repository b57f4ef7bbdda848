// Package journal persists queued snapshots in a local sqlite database so
// the upload queue survives restarts.
//
// The journal is intentionally dumb: it mirrors the queue's pending set and
// nothing else. Items are appended on enqueue, removed on delivery or drop,
// and loaded back (oldest first) at startup. Queue semantics (ordering,
// retries, backoff) live entirely in core/queue; a journal failure degrades
// durability but never blocks delivery.
package journal
