// Package token issues and verifies caller tokens.
//
// A caller token is an HS256 JWT whose subject is the caller's address.
// The HTTP API accepts it as "Authorization: Bearer <token>" and attributes
// every mutation to that address.
package token
