// Package model defines the database models for the registry.
//
// Role identifiers are stored as 0x-prefixed lowercase hex of their 32
// bytes and accounts as 0x-prefixed lowercase hex of their 20 bytes.
//
// # Tables
//
//   - deployments: the genesis record, at most one row
//   - role_members: role membership with dense positions for enumeration
//   - role_admins: admin role overrides
//   - voters: accounts holding the vote right
//   - contract_events: the event log, indexed on role_id and account
package model
