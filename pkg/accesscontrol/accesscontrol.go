package accesscontrol

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jonboulle/clockwork"

	"github.com/doodlesbykumbi/voterlist/pkg/event"
	"github.com/doodlesbykumbi/voterlist/pkg/identity"
	"github.com/doodlesbykumbi/voterlist/pkg/store"
)

// Operation names recorded on receipts and reported to observers.
const (
	OpDeploy       = "deploy"
	OpGrantRole    = "grantRole"
	OpRevokeRole   = "revokeRole"
	OpRenounceRole = "renounceRole"
)

// Observer is notified of every mutation outcome. Notifications are
// delivered in commit order while the engine is locked, so an observer must
// not call back into the engine.
type Observer interface {
	Committed(ctx context.Context, receipt *event.Receipt)
	Rejected(ctx context.Context, operation string, caller common.Address, err error)
}

type roleAdmin struct {
	role, admin common.Hash
}

type options struct {
	clock      clockwork.Clock
	observers  []Observer
	roleAdmins []roleAdmin
}

// Option configures an AccessControl.
type Option func(*options)

// WithClock sets the clock used to timestamp events.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithObserver registers an observer of mutation outcomes.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}

// WithRoleAdmin configures the admin role of role at deployment. It is
// ignored by Open.
func WithRoleAdmin(role, admin common.Hash) Option {
	return func(o *options) { o.roleAdmins = append(o.roleAdmins, roleAdmin{role: role, admin: admin}) }
}

// AccessControl is the role engine. All mutations are serialized through a
// single lock and run inside one store transaction each.
type AccessControl struct {
	mu        sync.RWMutex
	store     store.Store
	clock     clockwork.Clock
	observers []Observer
}

func newAccessControl(s store.Store, o *options) *AccessControl {
	return &AccessControl{
		store:     s,
		clock:     o.clock,
		observers: o.observers,
	}
}

func buildOptions(opts []Option) *options {
	o := &options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Deploy seeds a fresh store. The deployer becomes the sole member of
// DefaultAdminRole and any WithRoleAdmin options are applied, all in one
// transaction attributed to the deployer.
func Deploy(ctx context.Context, s store.Store, deployer common.Address, opts ...Option) (*AccessControl, error) {
	o := buildOptions(opts)
	ac := newAccessControl(s, o)

	_, err := ac.transact(ctx, OpDeploy, deployer, func(tx *Tx) error {
		if err := tx.store.CreateDeployment(ctx, store.Deployment{
			Deployer:   deployer,
			TxID:       tx.id,
			DeployedAt: tx.now,
		}); err != nil {
			return err
		}
		if err := tx.setupRole(DefaultAdminRole, deployer); err != nil {
			return err
		}
		for _, ra := range o.roleAdmins {
			if err := tx.setRoleAdmin(ra.role, ra.admin); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ac, nil
}

// Open attaches to a store that has already been deployed.
func Open(ctx context.Context, s store.Store, opts ...Option) (*AccessControl, error) {
	if _, err := s.Deployment(ctx); err != nil {
		return nil, err
	}
	return newAccessControl(s, buildOptions(opts)), nil
}

// Store returns the backing store.
func (ac *AccessControl) Store() store.Store {
	return ac.store
}

// Deployment returns the genesis record of the registry.
func (ac *AccessControl) Deployment(ctx context.Context) (*store.Deployment, error) {
	return ac.store.Deployment(ctx)
}

// Transact runs fn as one atomic mutation attributed to the caller in ctx.
// Events emitted through the Tx are persisted with the state change and
// returned on the receipt. If fn fails nothing is written.
func (ac *AccessControl) Transact(ctx context.Context, operation string, fn func(tx *Tx) error) (*event.Receipt, error) {
	caller, err := identity.Caller(ctx)
	if err != nil {
		return nil, err
	}
	return ac.transact(ctx, operation, caller, fn)
}

func (ac *AccessControl) transact(ctx context.Context, operation string, caller common.Address, fn func(tx *Tx) error) (*event.Receipt, error) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	tx := &Tx{
		ctx:    ctx,
		caller: caller,
	}

	err := ac.store.Transaction(ctx, func(s store.Store) error {
		// Stamped once the store holds its write lock, so ids follow commit order.
		tx.now = ac.clock.Now().UTC()
		tx.id = event.NewID(tx.now)
		tx.store = s
		tx.logs = nil
		if err := fn(tx); err != nil {
			return err
		}
		if len(tx.logs) == 0 {
			return nil
		}
		return s.AppendEvents(ctx, tx.logs)
	})
	if err != nil {
		for _, obs := range ac.observers {
			obs.Rejected(ctx, operation, caller, err)
		}
		return nil, err
	}

	logs := tx.logs
	if logs == nil {
		logs = []event.Event{}
	}
	receipt := &event.Receipt{
		TxID:      tx.id,
		Operation: operation,
		Sender:    caller,
		Logs:      logs,
	}
	for _, obs := range ac.observers {
		obs.Committed(ctx, receipt)
	}
	return receipt, nil
}

// View runs fn against committed state, excluding concurrent mutations.
func (ac *AccessControl) View(fn func(s store.Store) error) error {
	ac.mu.RLock()
	defer ac.mu.RUnlock()

	return fn(ac.store)
}

// HasRole reports whether account is a member of role.
func (ac *AccessControl) HasRole(ctx context.Context, role common.Hash, account common.Address) (bool, error) {
	ac.mu.RLock()
	defer ac.mu.RUnlock()

	return ac.store.HasMember(ctx, role, account)
}

// GetRoleAdmin returns the admin role of role, DefaultAdminRole if unset.
func (ac *AccessControl) GetRoleAdmin(ctx context.Context, role common.Hash) (common.Hash, error) {
	ac.mu.RLock()
	defer ac.mu.RUnlock()

	return ac.store.RoleAdmin(ctx, role)
}

// GetRoleMemberCount returns the number of members of role.
func (ac *AccessControl) GetRoleMemberCount(ctx context.Context, role common.Hash) (int, error) {
	ac.mu.RLock()
	defer ac.mu.RUnlock()

	return ac.store.MemberCount(ctx, role)
}

// GetRoleMember returns the member of role at index. Indexes run from zero
// to GetRoleMemberCount-1; removal moves the last member into the freed
// slot.
func (ac *AccessControl) GetRoleMember(ctx context.Context, role common.Hash, index int) (common.Address, error) {
	ac.mu.RLock()
	defer ac.mu.RUnlock()

	count, err := ac.store.MemberCount(ctx, role)
	if err != nil {
		return common.Address{}, err
	}
	if index < 0 || index >= count {
		return common.Address{}, &IndexOutOfRangeError{Role: role, Index: index, Count: count}
	}
	account, err := ac.store.MemberAt(ctx, role, index)
	if errors.Is(err, store.ErrMemberNotFound) {
		return common.Address{}, &IndexOutOfRangeError{Role: role, Index: index, Count: count}
	}
	return account, err
}

// GetRoleMembers returns every member of role in index order.
func (ac *AccessControl) GetRoleMembers(ctx context.Context, role common.Hash) ([]common.Address, error) {
	ac.mu.RLock()
	defer ac.mu.RUnlock()

	return ac.store.Members(ctx, role)
}

// GrantRole adds account to role. The caller must hold the admin role of
// role. Granting an existing member succeeds without an event.
func (ac *AccessControl) GrantRole(ctx context.Context, role common.Hash, account common.Address) (*event.Receipt, error) {
	return ac.Transact(ctx, OpGrantRole, func(tx *Tx) error {
		return tx.GrantRole(role, account)
	})
}

// RevokeRole removes account from role. The caller must hold the admin role
// of role. Revoking a non-member succeeds without an event.
func (ac *AccessControl) RevokeRole(ctx context.Context, role common.Hash, account common.Address) (*event.Receipt, error) {
	return ac.Transact(ctx, OpRevokeRole, func(tx *Tx) error {
		return tx.RevokeRole(role, account)
	})
}

// RenounceRole removes the caller from role. account must equal the
// caller; admins cannot renounce on behalf of others.
func (ac *AccessControl) RenounceRole(ctx context.Context, role common.Hash, account common.Address) (*event.Receipt, error) {
	return ac.Transact(ctx, OpRenounceRole, func(tx *Tx) error {
		return tx.RenounceRole(role, account)
	})
}

// Events returns logged events matching filter.
func (ac *AccessControl) Events(ctx context.Context, filter event.Filter) ([]event.Event, error) {
	ac.mu.RLock()
	defer ac.mu.RUnlock()

	events, err := ac.store.FilterEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to filter events: %w", err)
	}
	return events, nil
}
