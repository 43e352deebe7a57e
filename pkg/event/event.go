package event

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Event is one log entry emitted by a committed mutation.
//
// Role and Account are the indexed fields of the log. Voter events leave
// Role zero, RoleAdminChanged leaves Account zero; use Kind to tell which
// fields are meaningful.
type Event struct {
	ID                string
	TxID              string
	Index             int
	Kind              Kind
	Role              common.Hash
	Account           common.Address
	Sender            common.Address
	PreviousAdminRole common.Hash
	NewAdminRole      common.Hash
	Time              time.Time
}

type eventJSON struct {
	ID                string          `json:"id"`
	TxID              string          `json:"tx_id"`
	Index             int             `json:"index"`
	Kind              Kind            `json:"kind"`
	Role              *common.Hash    `json:"role,omitempty"`
	Account           *common.Address `json:"account,omitempty"`
	Sender            common.Address  `json:"sender"`
	PreviousAdminRole *common.Hash    `json:"previous_admin_role,omitempty"`
	NewAdminRole      *common.Hash    `json:"new_admin_role,omitempty"`
	Time              time.Time       `json:"time"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	out := eventJSON{
		ID:     e.ID,
		TxID:   e.TxID,
		Index:  e.Index,
		Kind:   e.Kind,
		Sender: e.Sender,
		Time:   e.Time,
	}
	if e.Kind.IsRoleEvent() {
		role := e.Role
		out.Role = &role
	}
	if e.Kind != KindRoleAdminChanged {
		account := e.Account
		out.Account = &account
	} else {
		prev, next := e.PreviousAdminRole, e.NewAdminRole
		out.PreviousAdminRole = &prev
		out.NewAdminRole = &next
	}
	return json.Marshal(out)
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var in eventJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*e = Event{
		ID:     in.ID,
		TxID:   in.TxID,
		Index:  in.Index,
		Kind:   in.Kind,
		Sender: in.Sender,
		Time:   in.Time,
	}
	if in.Role != nil {
		e.Role = *in.Role
	}
	if in.Account != nil {
		e.Account = *in.Account
	}
	if in.PreviousAdminRole != nil {
		e.PreviousAdminRole = *in.PreviousAdminRole
	}
	if in.NewAdminRole != nil {
		e.NewAdminRole = *in.NewAdminRole
	}
	return nil
}

// Receipt is the result of a committed mutation. Logs holds the events the
// mutation emitted in emission order; an idempotent no-op yields none.
type Receipt struct {
	TxID      string         `json:"tx_id"`
	Operation string         `json:"operation"`
	Sender    common.Address `json:"sender"`
	Logs      []Event        `json:"logs"`
}

// Filter selects events from the log. Empty fields match everything.
type Filter struct {
	Kinds    []Kind
	Roles    []common.Hash
	Accounts []common.Address
	Sender   *common.Address
	// Limit caps the number of results; zero means no limit.
	Limit int
}

// Match reports whether e satisfies every criterion of the filter.
func (f Filter) Match(e Event) bool {
	if len(f.Kinds) > 0 && !contains(f.Kinds, e.Kind) {
		return false
	}
	if len(f.Roles) > 0 && (!e.Kind.IsRoleEvent() || !contains(f.Roles, e.Role)) {
		return false
	}
	if len(f.Accounts) > 0 && (e.Kind == KindRoleAdminChanged || !contains(f.Accounts, e.Account)) {
		return false
	}
	if f.Sender != nil && *f.Sender != e.Sender {
		return false
	}
	return true
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
