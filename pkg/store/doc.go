// Package store provides the storage abstraction behind the registry.
//
// The access control engine and the voter registry never touch a backend
// directly. They run every mutation inside Store.Transaction, so that a
// failure anywhere in a call, including part way through a batch, discards
// all of its writes and events.
//
// # Available Stores
//
//   - memory: in-process state with copy-on-write transactions
//   - gorm: PostgreSQL through GORM, serialized with an advisory lock
//
// # Usage
//
//	st := gormstore.New(db)
//	err := st.Transaction(ctx, func(tx store.Store) error {
//	    added, err := tx.AddMember(ctx, role, account)
//	    ...
//	})
package store
