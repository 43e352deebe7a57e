// Package event defines the log entries, receipts and log filters shared by
// the access control engine, the voter registry and their stores.
package event
