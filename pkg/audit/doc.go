// Package audit provides audit logging for registry mutations.
//
// Messages are written in RFC 5424 syslog format to stdout and, when
// AUDIT_DATABASE_URL is set, persisted to the messages table.
//
// # Event Types
//
//   - RoleEvent: role granted, revoked or admin role changed
//   - VoterEvent: vote right given or taken
//   - MutationEvent: outcome of a whole mutation, including rejections
//
// # Usage
//
// Register an Observer with the engine and every committed or rejected
// mutation is logged:
//
//	vl, err := voterlist.Open(ctx, st, accesscontrol.WithObserver(audit.NewObserver()))
//
// Audit logging is on by default; set VOTERLIST_AUDIT_ENABLED=false to turn
// it off.
package audit
