// Package extract maps the generic value tree decoded from a SavedVariables
// file into a typed AddonSnapshot.
//
// The input is third-party-controlled and loosely shaped, so extraction is
// deliberately tolerant: missing sections default, malformed character
// entries are isolated per key instead of discarding the whole snapshot, and
// the outcome of every character is recorded in a Ledger for diagnostics.
// The ledger never changes control flow; it exists so upload logs can say
// which characters were dropped and why.
//
// The one hard requirement is the character_data section: without it there
// is nothing to extract and Extract returns ErrNoData, which upstream treats
// as "skip this capture", not as a failure.
package extract
