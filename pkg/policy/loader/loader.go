package loader

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/event"
	"github.com/doodlesbykumbi/voterlist/pkg/policy/parser"
	"github.com/doodlesbykumbi/voterlist/pkg/voterlist"
)

// OpApplyPolicy is the operation name of a policy load.
const OpApplyPolicy = "applyPolicy"

// Result contains the results of loading a policy.
type Result struct {
	Receipt *event.Receipt `json:"receipt"`
	SHA256  string         `json:"sha256"`
	Changes int            `json:"changes"`
}

// Loader applies policy documents to a registry.
type Loader struct {
	registry *voterlist.VoterList
	// last is the digest of the most recently applied text
	last string
}

// NewLoader creates a new policy loader.
func NewLoader(registry *voterlist.VoterList) *Loader {
	return &Loader{registry: registry}
}

// Load parses and applies the policy text read from r, attributed to the
// caller in ctx.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*Result, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy: %w", err)
	}
	doc, err := parser.Parse(bytes.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse policy: %w", err)
	}

	receipt, err := l.Apply(ctx, doc)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(text)
	l.last = hex.EncodeToString(sum[:])
	return &Result{Receipt: receipt, SHA256: l.last, Changes: len(receipt.Logs)}, nil
}

// Unchanged reports whether text matches the most recently loaded policy.
func (l *Loader) Unchanged(text []byte) bool {
	sum := sha256.Sum256(text)
	return l.last != "" && l.last == hex.EncodeToString(sum[:])
}

// Apply applies doc in one atomic mutation. Role statements run in order,
// grants before revokes, followed by voter additions and removals. Every
// entry goes through the same authorization gate as the single call, and
// the first failure rolls back the whole document.
func (l *Loader) Apply(ctx context.Context, doc *parser.Document) (*event.Receipt, error) {
	return l.registry.Transact(ctx, OpApplyPolicy, func(tx *accesscontrol.Tx) error {
		for i, rs := range doc.Roles {
			for _, account := range parser.Addresses(rs.Grant) {
				if err := tx.GrantRole(rs.Role.ID, account); err != nil {
					return fmt.Errorf("roles[%d] grant: %w", i, err)
				}
			}
			for _, account := range parser.Addresses(rs.Revoke) {
				if err := tx.RevokeRole(rs.Role.ID, account); err != nil {
					return fmt.Errorf("roles[%d] revoke: %w", i, err)
				}
			}
		}

		if len(doc.Voters.Add) > 0 {
			if err := voterlist.SetVoteRights(tx, parser.Addresses(doc.Voters.Add), true); err != nil {
				return fmt.Errorf("voters add: %w", err)
			}
		}
		if len(doc.Voters.Remove) > 0 {
			if err := voterlist.SetVoteRights(tx, parser.Addresses(doc.Voters.Remove), false); err != nil {
				return fmt.Errorf("voters remove: %w", err)
			}
		}
		return nil
	})
}
