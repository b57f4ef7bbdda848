// Package paths resolves a World of Warcraft Classic installation root into
// the concrete SavedVariables file paths the watcher should track.
//
// The expected layout is:
//
//	<root>/_classic_/WTF/Account/<ACCOUNT>/SavedVariables/<AddonFile>
//
// with one candidate path per account directory found on disk. The candidate
// file itself does not need to exist yet (the add-on may not have saved), but
// the account subtree must: a missing subtree means the game has never been
// run and resolution fails with a PathError rather than silently returning
// nothing.
package paths
