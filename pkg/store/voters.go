package store

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// VotersStore abstracts the per-account voting right flag.
type VotersStore interface {
	// VoteRight returns the flag for account, false if never set
	VoteRight(ctx context.Context, account common.Address) (bool, error)

	// SetVoteRight sets the flag and reports whether its value changed
	SetVoteRight(ctx context.Context, account common.Address, voter bool) (bool, error)

	// Voters returns every account whose flag is true, ordered by address
	Voters(ctx context.Context) ([]common.Address, error)
}
