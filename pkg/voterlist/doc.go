// Package voterlist implements a registry of accounts allowed to vote.
//
// The vote right is a plain per-account flag, not a role. Every mutation
// is gated by accesscontrol.DefaultAdminRole through the engine's shared
// guard, so an unauthorized caller gets the same *UnauthorizedError a role
// mutation would return. Flag changes are logged as VoterAdded and
// VoterRemoved events; setting a flag to the value it already has succeeds
// without an event.
//
// Batch operations run as one transaction: if the caller is not an admin
// no flag changes, and an empty batch succeeds after the authorization
// check.
package voterlist
