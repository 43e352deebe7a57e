// Package memory implements store.Store in process memory.
//
// Role members are kept in an insertion-ordered set with swap-last-and-pop
// removal. A transaction clones the state, runs against the clone and swaps
// it in on success, which makes every transaction all-or-nothing without an
// undo log.
package memory
