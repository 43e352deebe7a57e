// Package endpoints implements the HTTP handlers of the voterlist API.
//
// Errors are returned as {"error": {"code": ..., "message": ...}}. Registry
// errors map to status codes in one place, respondWithContractError:
//
//   - unauthorized (403): the caller lacks the required role
//   - self_only (403): renouncing a role for another account
//   - index_out_of_range (404): member index past the member count
//   - bad_request (400): malformed role, account or body
//   - unauthenticated (401): no caller identity
package endpoints
