// Package gorm implements store.Store on PostgreSQL using GORM.
//
// Every registry transaction takes pg_advisory_xact_lock(AdvisoryLockKey)
// before touching any table, so mutations from several servers sharing one
// database are applied one at a time. Role positions are maintained with
// plain SQL: an insert takes position COUNT(*), and a delete moves the
// member at the last position into the freed one.
//
// The schema lives in db/migrations and is applied with voterlistctl db
// migrate.
package gorm
