package identity

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// ErrNoCaller is returned when a mutation is invoked without a caller
// identity in its context.
var ErrNoCaller = errors.New("no caller identity in context")

// Source describes how the caller was attributed.
type Source string

const (
	SourceToken    Source = "token"
	SourceOperator Source = "operator"
)

// Identity represents the effective caller of an operation.
type Identity struct {
	Caller common.Address
	Source Source

	// Token claims, zero for operator identities
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Request context
	RemoteIP net.IP
}

// FromClaims creates an Identity for a caller authenticated by a token.
func FromClaims(caller common.Address, tokenID string, issuedAt, expiresAt time.Time) *Identity {
	return &Identity{
		Caller:    caller,
		Source:    SourceToken,
		TokenID:   tokenID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}
}

// Operator creates an Identity for a caller named directly by trusted
// tooling such as voterlistctl.
func Operator(caller common.Address) *Identity {
	return &Identity{Caller: caller, Source: SourceOperator}
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok && id != nil
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}

// WithCaller is shorthand for Set(ctx, Operator(caller)).
func WithCaller(ctx context.Context, caller common.Address) context.Context {
	return Set(ctx, Operator(caller))
}

// Caller returns the effective caller stored in ctx.
func Caller(ctx context.Context) (common.Address, error) {
	id, ok := Get(ctx)
	if !ok {
		return common.Address{}, ErrNoCaller
	}
	return id.Caller, nil
}
