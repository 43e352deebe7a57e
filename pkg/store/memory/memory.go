package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/doodlesbykumbi/voterlist/pkg/event"
	"github.com/doodlesbykumbi/voterlist/pkg/store"
)

// Ensure Store implements store.Store
var (
	_ store.Store       = (*Store)(nil)
	_ store.HealthStore = (*Store)(nil)
)

type state struct {
	deployment *store.Deployment
	members    map[common.Hash]*addressSet
	admins     map[common.Hash]common.Hash
	voters     map[common.Address]bool
	events     []event.Event
}

func newState() *state {
	return &state{
		members: make(map[common.Hash]*addressSet),
		admins:  make(map[common.Hash]common.Hash),
		voters:  make(map[common.Address]bool),
	}
}

// clone copies everything a transaction may write. The event log is
// append-only, so the copy shares its backing array up to the current
// length.
func (s *state) clone() *state {
	c := &state{
		members: make(map[common.Hash]*addressSet, len(s.members)),
		admins:  make(map[common.Hash]common.Hash, len(s.admins)),
		voters:  make(map[common.Address]bool, len(s.voters)),
		events:  s.events[:len(s.events):len(s.events)],
	}
	if s.deployment != nil {
		d := *s.deployment
		c.deployment = &d
	}
	for role, set := range s.members {
		c.members[role] = set.clone()
	}
	for role, admin := range s.admins {
		c.admins[role] = admin
	}
	for account, voter := range s.voters {
		c.voters[account] = voter
	}
	return c
}

// Store keeps the registry state in process memory. Transactions work on a
// private copy of the state that replaces the original only on success.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// New creates an empty Store
func New() *Store {
	return &Store{state: newState()}
}

// Transaction runs fn against a copy of the state and publishes the copy
// if fn succeeds.
func (s *Store) Transaction(ctx context.Context, fn func(tx store.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{state: s.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

// CheckConnectivity always succeeds for the in-memory store
func (s *Store) CheckConnectivity(ctx context.Context) error {
	return nil
}

// Deployment returns the genesis record
func (s *Store) Deployment(ctx context.Context) (*store.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.deployment == nil {
		return nil, store.ErrNotDeployed
	}
	d := *s.state.deployment
	return &d, nil
}

// CreateDeployment stores the genesis record
func (s *Store) CreateDeployment(ctx context.Context, d store.Deployment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.deployment != nil {
		return store.ErrAlreadyDeployed
	}
	s.state.deployment = &d
	return nil
}

// HasMember checks if account is a member of role
func (s *Store) HasMember(ctx context.Context, role common.Hash, account common.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.state.members[role]
	return ok && set.contains(account), nil
}

// AddMember appends account to role
func (s *Store) AddMember(ctx context.Context, role common.Hash, account common.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.state.members[role]
	if !ok {
		set = newAddressSet()
		s.state.members[role] = set
	}
	return set.add(account), nil
}

// RemoveMember removes account from role
func (s *Store) RemoveMember(ctx context.Context, role common.Hash, account common.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.state.members[role]
	if !ok {
		return false, nil
	}
	return set.remove(account), nil
}

// MemberCount counts members of a role
func (s *Store) MemberCount(ctx context.Context, role common.Hash) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.state.members[role]
	if !ok {
		return 0, nil
	}
	return set.len(), nil
}

// MemberAt returns the member at position index
func (s *Store) MemberAt(ctx context.Context, role common.Hash, index int) (common.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.state.members[role]
	if !ok {
		return common.Address{}, store.ErrMemberNotFound
	}
	account, ok := set.at(index)
	if !ok {
		return common.Address{}, store.ErrMemberNotFound
	}
	return account, nil
}

// Members returns all members of a role in position order
func (s *Store) Members(ctx context.Context, role common.Hash) ([]common.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.state.members[role]
	if !ok {
		return []common.Address{}, nil
	}
	return set.list(), nil
}

// RoleAdmin returns the configured admin role
func (s *Store) RoleAdmin(ctx context.Context, role common.Hash) (common.Hash, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.admins[role], nil
}

// SetRoleAdmin configures the admin role of role
func (s *Store) SetRoleAdmin(ctx context.Context, role, admin common.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if admin == (common.Hash{}) {
		delete(s.state.admins, role)
		return nil
	}
	s.state.admins[role] = admin
	return nil
}

// VoteRight returns the flag for account
func (s *Store) VoteRight(ctx context.Context, account common.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.voters[account], nil
}

// SetVoteRight sets the flag for account
func (s *Store) SetVoteRight(ctx context.Context, account common.Address, voter bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.voters[account] == voter {
		return false, nil
	}
	if voter {
		s.state.voters[account] = true
	} else {
		delete(s.state.voters, account)
	}
	return true, nil
}

// Voters returns every account whose flag is true
func (s *Store) Voters(ctx context.Context) ([]common.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]common.Address, 0, len(s.state.voters))
	for account := range s.state.voters {
		out = append(out, account)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out, nil
}

// AppendEvents adds committed events to the log
func (s *Store) AppendEvents(ctx context.Context, events []event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.events = append(s.state.events, events...)
	return nil
}

// FilterEvents returns logged events matching filter
func (s *Store) FilterEvents(ctx context.Context, filter event.Filter) ([]event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []event.Event{}
	for _, e := range s.state.events {
		if !filter.Match(e) {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}
