// Package parser parses policy documents.
//
// A policy document declares role grants and revocations and voter changes
// to be applied in one atomic mutation. It does not touch the registry; see
// the loader package for that.
//
//	roles:
//	  - role: DUMMY_ROLE
//	    grant: [0x70997970c51812dc3a010c7d01b50e0d17dc79c8]
//	    revoke: [0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc]
//	voters:
//	  add: [0x90f79bf6eb2c4f870365e785982e1f101e93b906]
//	  remove: []
//
// Roles are written as names, which are hashed with keccak256, as
// DEFAULT_ADMIN_ROLE, or as 0x-prefixed 32 byte identifiers.
package parser
