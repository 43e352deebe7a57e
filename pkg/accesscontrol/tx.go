package accesscontrol

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/doodlesbykumbi/voterlist/pkg/event"
	"github.com/doodlesbykumbi/voterlist/pkg/store"
)

// Tx is the view of the registry inside one atomic mutation. Everything a
// Tx writes, including emitted events, is discarded if the mutation fails.
type Tx struct {
	ctx    context.Context
	store  store.Store
	caller common.Address
	now    time.Time
	id     string
	logs   []event.Event
}

// Context returns the context of the mutation.
func (tx *Tx) Context() context.Context { return tx.ctx }

// Caller returns the account the mutation is attributed to.
func (tx *Tx) Caller() common.Address { return tx.caller }

// Store returns the transactional store.
func (tx *Tx) Store() store.Store { return tx.store }

// Emit appends e to the mutation's log, stamping its identity, position,
// sender and time.
func (tx *Tx) Emit(e event.Event) {
	e.Index = len(tx.logs)
	e.TxID = tx.id
	e.ID = event.NewID(tx.now)
	e.Sender = tx.caller
	e.Time = tx.now
	tx.logs = append(tx.logs, e)
}

// CheckRole is the authorization gate shared by every mutating entry point.
// It fails with *UnauthorizedError unless the caller holds role.
func (tx *Tx) CheckRole(role common.Hash) error {
	ok, err := tx.store.HasMember(tx.ctx, role, tx.caller)
	if err != nil {
		return err
	}
	if !ok {
		return &UnauthorizedError{Account: tx.caller, Role: role}
	}
	return nil
}

// HasRole reports membership as seen by this mutation.
func (tx *Tx) HasRole(role common.Hash, account common.Address) (bool, error) {
	return tx.store.HasMember(tx.ctx, role, account)
}

// GetRoleAdmin returns the admin role as seen by this mutation.
func (tx *Tx) GetRoleAdmin(role common.Hash) (common.Hash, error) {
	return tx.store.RoleAdmin(tx.ctx, role)
}

func (tx *Tx) checkRoleAdmin(role common.Hash) error {
	admin, err := tx.GetRoleAdmin(role)
	if err != nil {
		return err
	}
	return tx.CheckRole(admin)
}

// GrantRole adds account to role if the caller holds role's admin role.
func (tx *Tx) GrantRole(role common.Hash, account common.Address) error {
	if err := tx.checkRoleAdmin(role); err != nil {
		return err
	}
	return tx.grantRole(role, account)
}

// RevokeRole removes account from role if the caller holds role's admin
// role.
func (tx *Tx) RevokeRole(role common.Hash, account common.Address) error {
	if err := tx.checkRoleAdmin(role); err != nil {
		return err
	}
	return tx.revokeRole(role, account)
}

// RenounceRole removes the caller from role.
func (tx *Tx) RenounceRole(role common.Hash, account common.Address) error {
	if account != tx.caller {
		return ErrSelfOnly
	}
	return tx.revokeRole(role, account)
}

func (tx *Tx) grantRole(role common.Hash, account common.Address) error {
	added, err := tx.store.AddMember(tx.ctx, role, account)
	if err != nil {
		return err
	}
	if added {
		tx.Emit(event.Event{Kind: event.KindRoleGranted, Role: role, Account: account})
	}
	return nil
}

func (tx *Tx) revokeRole(role common.Hash, account common.Address) error {
	removed, err := tx.store.RemoveMember(tx.ctx, role, account)
	if err != nil {
		return err
	}
	if removed {
		tx.Emit(event.Event{Kind: event.KindRoleRevoked, Role: role, Account: account})
	}
	return nil
}

// setupRole grants without authorization. Only deployment calls it.
func (tx *Tx) setupRole(role common.Hash, account common.Address) error {
	return tx.grantRole(role, account)
}

// setRoleAdmin replaces the admin role of role. Only deployment calls it.
func (tx *Tx) setRoleAdmin(role, admin common.Hash) error {
	previous, err := tx.store.RoleAdmin(tx.ctx, role)
	if err != nil {
		return err
	}
	if err := tx.store.SetRoleAdmin(tx.ctx, role, admin); err != nil {
		return err
	}
	tx.Emit(event.Event{
		Kind:              event.KindRoleAdminChanged,
		Role:              role,
		PreviousAdminRole: previous,
		NewAdminRole:      admin,
	})
	return nil
}
