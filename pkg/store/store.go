package store

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrNotDeployed is returned when the store carries no deployment record.
	ErrNotDeployed = errors.New("registry is not deployed")
	// ErrAlreadyDeployed is returned when a second deployment is attempted.
	ErrAlreadyDeployed = errors.New("registry is already deployed")
	// ErrMemberNotFound is returned by MemberAt for a position with no member.
	ErrMemberNotFound = errors.New("role member not found")
)

// Deployment records the genesis of a registry.
type Deployment struct {
	Deployer   common.Address
	TxID       string
	DeployedAt time.Time
}

// DeploymentStore persists the genesis record.
type DeploymentStore interface {
	// Deployment returns the genesis record or ErrNotDeployed.
	Deployment(ctx context.Context) (*Deployment, error)

	// CreateDeployment stores the genesis record, failing with
	// ErrAlreadyDeployed if one exists.
	CreateDeployment(ctx context.Context, d Deployment) error
}

// Store is the whole registry state. Every mutation of the access control
// engine and the voter registry runs inside Transaction.
type Store interface {
	DeploymentStore
	RolesStore
	VotersStore
	EventsStore

	// Transaction runs fn against a transactional view of the store. If fn
	// returns an error every write made through that view is discarded and
	// the error is returned unchanged.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
