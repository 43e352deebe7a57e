// Package identity carries the effective caller of an operation through a
// context.Context.
//
// Callers are never passed as operation parameters. The HTTP server derives
// the caller from a verified bearer token, and voterlistctl names it
// explicitly with --as:
//
//	ctx = identity.Set(ctx, identity.FromClaims(addr, jti, iat, exp))
//	ctx = identity.WithCaller(ctx, addr)
//
// The access control engine reads it back with identity.Caller and fails
// with ErrNoCaller when none is present.
package identity
