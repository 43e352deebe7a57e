package gorm

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/voterlist/pkg/store"
)

// Ensure Store implements store.Store
var (
	_ store.Store       = (*Store)(nil)
	_ store.HealthStore = (*Store)(nil)
)

// AdvisoryLockKey is the transaction-scoped advisory lock taken by every
// registry transaction. It serializes mutations across processes sharing
// one database.
const AdvisoryLockKey int64 = 0x766f7465726c7374

// Store implements store.Store using GORM on PostgreSQL
type Store struct {
	db   *gorm.DB
	inTx bool
}

// New creates a new Store
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn inside a database transaction holding the registry
// advisory lock. Nested calls reuse the surrounding transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`SELECT pg_advisory_xact_lock(?)`, AdvisoryLockKey).Error; err != nil {
			return fmt.Errorf("failed to acquire registry lock: %w", err)
		}
		return fn(&Store{db: tx, inTx: true})
	})
}

// CheckConnectivity verifies database connectivity
func (s *Store) CheckConnectivity(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec("SELECT 1").Error
}
