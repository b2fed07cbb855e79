// Package event provides the holiday event type and its identity scheme.
//
// Each event carries a deterministic SHA256-based UID derived from its start
// date and description only. The creation stamp is deliberately excluded from
// the digest so that re-deriving the UID for an event stored on a previous
// run always matches, enabling reliable deduplication across runs.
package event
