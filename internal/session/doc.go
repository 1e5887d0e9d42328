// Package session tracks in-progress survey calls keyed by the provider's
// call identifier.
//
// Keying by call ID is a hard invariant: callbacks for distinct calls
// interleave freely across HTTP handlers, and a shared answer slot would let
// concurrent calls overwrite each other's ratings. The registry serializes
// all mutation of a session under its lock and hands callers immutable
// snapshots. Calls that never reach a terminal stage simply linger; the
// EvictBefore hook lets the daemon reap them on a configured TTL.
package session
