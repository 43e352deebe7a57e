// Package middleware provides HTTP middleware for the voterlist API.
//
// JWTAuthenticator validates bearer tokens and stores the caller identity in
// the request context. RateLimiter limits requests per client IP.
package middleware
