package store

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// RolesStore abstracts role membership and admin role storage.
//
// Members of a role occupy dense positions 0..n-1. AddMember appends at
// position n. RemoveMember moves the member at the last position into the
// freed slot and truncates, so positions never have gaps.
type RolesStore interface {
	// HasMember checks if account is a member of role
	HasMember(ctx context.Context, role common.Hash, account common.Address) (bool, error)

	// AddMember appends account to role, reporting false if it was already a member
	AddMember(ctx context.Context, role common.Hash, account common.Address) (bool, error)

	// RemoveMember removes account from role, reporting false if it was not a member
	RemoveMember(ctx context.Context, role common.Hash, account common.Address) (bool, error)

	// MemberCount counts members of a role
	MemberCount(ctx context.Context, role common.Hash) (int, error)

	// MemberAt returns the member at position index or ErrMemberNotFound
	MemberAt(ctx context.Context, role common.Hash, index int) (common.Address, error)

	// Members returns all members of a role in position order
	Members(ctx context.Context, role common.Hash) ([]common.Address, error)

	// RoleAdmin returns the configured admin role, the zero hash if unset
	RoleAdmin(ctx context.Context, role common.Hash) (common.Hash, error)

	// SetRoleAdmin configures the admin role of role
	SetRoleAdmin(ctx context.Context, role, admin common.Hash) error
}
