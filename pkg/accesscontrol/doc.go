// Package accesscontrol implements a role based access control engine with
// enumerable role membership.
//
// Roles are opaque 32 byte identifiers, usually the keccak256 hash of a
// name. Each role has a member set and an admin role whose members may
// grant and revoke it. Roles without a configured admin are administered by
// DefaultAdminRole, the all-zero identifier, which administers itself.
//
// Mutations are attributed to the caller stored in the context by package
// identity and run through Transact, which serializes them and commits each
// one atomically together with the events it emits:
//
//	ctx = identity.WithCaller(ctx, admin)
//	receipt, err := ac.GrantRole(ctx, accesscontrol.RoleFromName("DUMMY_ROLE"), account)
//	var unauthorized *accesscontrol.UnauthorizedError
//	if errors.As(err, &unauthorized) {
//	    // unauthorized.Account lacks unauthorized.Role
//	}
//
// Higher layers build their own gated mutations on Tx.CheckRole, the one
// authorization check every entry point shares.
//
// Nothing stops the last member of DefaultAdminRole from revoking or
// renouncing it, after which no role administered by it can change.
package accesscontrol
