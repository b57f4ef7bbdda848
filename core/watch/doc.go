// Package watch detects changes to resolved SavedVariables files and feeds
// accepted changes into the decode/extract/enqueue pipeline.
//
// Filesystem notification backends fire spuriously (and the game rewrites
// files with temp-and-rename), so the detector suppresses events two ways:
//
//   - Content comparison: byte-identical content never re-triggers the
//     pipeline, no matter how many events arrive.
//   - Cooldown: after triggering for a path, further changes to that path
//     within the cooldown window update the cached content but do not
//     trigger again. Comparing against the latest content (not the content
//     of the last trigger) keeps the next real change detectable.
//
// Stop is a hard reset: it tears down the fsnotify watches and clears the
// content cache and cooldown stamps, not a pause.
package watch
