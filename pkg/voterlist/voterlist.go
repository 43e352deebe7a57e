package voterlist

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/event"
	"github.com/doodlesbykumbi/voterlist/pkg/store"
)

// Operation names recorded on receipts and reported to observers.
const (
	OpAddVoter     = "addVoter"
	OpRemoveVoter  = "removeVoter"
	OpAddVoters    = "addVoters"
	OpRemoveVoters = "removeVoters"
)

// AdminRole gates every voter mutation.
var AdminRole = accesscontrol.DefaultAdminRole

// VoterList is the voter registry layered on the access control engine.
type VoterList struct {
	*accesscontrol.AccessControl
}

// Deploy seeds a fresh store with deployer as the sole admin.
func Deploy(ctx context.Context, s store.Store, deployer common.Address, opts ...accesscontrol.Option) (*VoterList, error) {
	ac, err := accesscontrol.Deploy(ctx, s, deployer, opts...)
	if err != nil {
		return nil, err
	}
	return &VoterList{AccessControl: ac}, nil
}

// Open attaches to an already deployed store.
func Open(ctx context.Context, s store.Store, opts ...accesscontrol.Option) (*VoterList, error) {
	ac, err := accesscontrol.Open(ctx, s, opts...)
	if err != nil {
		return nil, err
	}
	return &VoterList{AccessControl: ac}, nil
}

// HasVoteRight reports whether account may vote. Accounts never added
// have no vote right.
func (v *VoterList) HasVoteRight(ctx context.Context, account common.Address) (bool, error) {
	var voter bool
	err := v.View(func(s store.Store) error {
		var err error
		voter, err = s.VoteRight(ctx, account)
		return err
	})
	return voter, err
}

// Voters lists every account that may vote, ordered by address.
func (v *VoterList) Voters(ctx context.Context) ([]common.Address, error) {
	var voters []common.Address
	err := v.View(func(s store.Store) error {
		var err error
		voters, err = s.Voters(ctx)
		return err
	})
	return voters, err
}

// AddVoter gives account the vote right. The caller must hold AdminRole.
func (v *VoterList) AddVoter(ctx context.Context, account common.Address) (*event.Receipt, error) {
	return v.setVoteRights(ctx, OpAddVoter, []common.Address{account}, true)
}

// RemoveVoter takes the vote right away from account. The caller must hold
// AdminRole.
func (v *VoterList) RemoveVoter(ctx context.Context, account common.Address) (*event.Receipt, error) {
	return v.setVoteRights(ctx, OpRemoveVoter, []common.Address{account}, false)
}

// AddVoters gives every account the vote right in one atomic call.
func (v *VoterList) AddVoters(ctx context.Context, accounts []common.Address) (*event.Receipt, error) {
	return v.setVoteRights(ctx, OpAddVoters, accounts, true)
}

// RemoveVoters takes the vote right away from every account in one atomic
// call.
func (v *VoterList) RemoveVoters(ctx context.Context, accounts []common.Address) (*event.Receipt, error) {
	return v.setVoteRights(ctx, OpRemoveVoters, accounts, false)
}

func (v *VoterList) setVoteRights(ctx context.Context, operation string, accounts []common.Address, voter bool) (*event.Receipt, error) {
	return v.Transact(ctx, operation, func(tx *accesscontrol.Tx) error {
		return SetVoteRights(tx, accounts, voter)
	})
}

// SetVoteRights applies the voter flag to accounts inside an existing
// mutation, checking AdminRole first. Only accounts whose flag changes
// produce a VoterAdded or VoterRemoved event.
func SetVoteRights(tx *accesscontrol.Tx, accounts []common.Address, voter bool) error {
	if err := tx.CheckRole(AdminRole); err != nil {
		return err
	}

	kind := event.KindVoterRemoved
	if voter {
		kind = event.KindVoterAdded
	}
	for _, account := range accounts {
		changed, err := tx.Store().SetVoteRight(tx.Context(), account, voter)
		if err != nil {
			return err
		}
		if changed {
			tx.Emit(event.Event{Kind: kind, Account: account})
		}
	}
	return nil
}
