// Package server provides the HTTP server for the voter registry API.
//
// Routing uses gorilla/mux, access logs go through gorilla/handlers and
// every route is rate limited per client IP.
//
// # Server Setup
//
//	srv := server.NewServer(registry, verifier, cfg, "0.0.0.0", "8080")
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Endpoints
//
// Reads are public:
//
//   - GET / - status
//   - GET /roles/{role}/admin
//   - GET /roles/{role}/members and /roles/{role}/members/{index}
//   - GET /roles/{role}/accounts/{account}
//   - GET /voters/{account}
//   - GET /events
//
// Mutations require "Authorization: Bearer <token>" and are attributed to
// the token's subject:
//
//   - POST and DELETE /roles/{role}/accounts/{account} (DELETE ?renounce to renounce)
//   - PUT and DELETE /voters/{account}
//   - POST /voters/batch-add and /voters/batch-remove
package server
