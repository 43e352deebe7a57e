package parser

import (
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
)

// Document is a declarative set of registry changes applied by one caller.
type Document struct {
	Roles  []RoleStatement `yaml:"roles,omitempty"`
	Voters VoterStatement  `yaml:"voters,omitempty"`
}

// RoleStatement grants and revokes membership of one role.
type RoleStatement struct {
	Role   Role      `yaml:"role"`
	Grant  []Account `yaml:"grant,omitempty"`
	Revoke []Account `yaml:"revoke,omitempty"`
}

// VoterStatement adds and removes voters.
type VoterStatement struct {
	Add    []Account `yaml:"add,omitempty"`
	Remove []Account `yaml:"remove,omitempty"`
}

// Role is a role written as a name, DEFAULT_ADMIN_ROLE or a 32 byte hex id.
type Role struct {
	ID   common.Hash
	Name string
}

func (r *Role) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	id, err := accesscontrol.ParseRole(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	r.ID, r.Name = id, s
	return nil
}

func (r Role) MarshalYAML() (interface{}, error) {
	if r.Name != "" {
		return r.Name, nil
	}
	return accesscontrol.RoleLabel(r.ID), nil
}

// Account is an address written in hex.
type Account common.Address

func (a *Account) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	addr, err := accesscontrol.ParseAccount(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*a = Account(addr)
	return nil
}

func (a Account) MarshalYAML() (interface{}, error) {
	return accesscontrol.FormatAccount(common.Address(a)), nil
}

// Addresses converts accounts to addresses.
func Addresses(accounts []Account) []common.Address {
	out := make([]common.Address, len(accounts))
	for i, a := range accounts {
		out[i] = common.Address(a)
	}
	return out
}

// Empty reports whether the document changes nothing.
func (d *Document) Empty() bool {
	for _, rs := range d.Roles {
		if len(rs.Grant) > 0 || len(rs.Revoke) > 0 {
			return false
		}
	}
	return len(d.Voters.Add) == 0 && len(d.Voters.Remove) == 0
}

// Statements counts the individual grant, revoke, add and remove entries.
func (d *Document) Statements() int {
	n := len(d.Voters.Add) + len(d.Voters.Remove)
	for _, rs := range d.Roles {
		n += len(rs.Grant) + len(rs.Revoke)
	}
	return n
}

// Parse parses a policy document from a reader. Unknown keys are rejected.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, err
	}
	for i, rs := range doc.Roles {
		if rs.Role.Name == "" {
			return nil, fmt.Errorf("roles[%d]: role is required", i)
		}
	}
	return &doc, nil
}
