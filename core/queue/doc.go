// Package queue buffers extracted snapshots and drains them to the remote
// service in bounded batches, tolerating transient delivery failures without
// losing data or spamming retries.
//
// # Item lifecycle
//
//	Queued -> InFlight -> Delivered
//	                   -> Requeued (at the FRONT of the queue)
//	                   -> Dropped  (after too many failures)
//
// Failed items are requeued at the front so an item that has already waited
// is retried ahead of newer snapshots. An item is dropped permanently once
// its own failure count reaches the limit; delivery is at-least-once and the
// server deduplicates.
//
// # Backoff
//
// A global consecutive-failure counter gates drain cycles: after three
// consecutive failures a cycle only runs when min(failures*step, cap) has
// elapsed since the last attempt. Cycles aborted by the gate consume nothing.
//
// # Single-flight
//
// At most one drain runs at a time, guarded by a busy flag. After a cycle,
// a non-empty queue schedules another drain on a timer instead of looping,
// yielding to other work and keeping stack depth flat under long backlogs.
//
// # Durability
//
// When a Journal is attached, enqueued items are persisted and removed again
// on delivery or drop, so a restart resumes where the previous process left
// off (see core/journal).
package queue
