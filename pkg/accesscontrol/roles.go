package accesscontrol

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// DefaultAdminRoleName is the conventional name of the sentinel admin role.
const DefaultAdminRoleName = "DEFAULT_ADMIN_ROLE"

// DefaultAdminRole is the all-zero sentinel role. It administers every role
// that has no admin role configured, itself included.
var DefaultAdminRole = common.Hash{}

var (
	ErrInvalidRole    = errors.New("invalid role")
	ErrInvalidAccount = errors.New("invalid account")
)

// RoleFromName returns the keccak256 hash of name.
func RoleFromName(name string) common.Hash {
	return crypto.Keccak256Hash([]byte(name))
}

// ParseRole accepts a 0x-prefixed 32 byte hex identifier,
// DEFAULT_ADMIN_ROLE, or any other string, which is hashed as a role name.
func ParseRole(s string) (common.Hash, error) {
	switch {
	case s == "":
		return common.Hash{}, fmt.Errorf("%w: empty", ErrInvalidRole)
	case s == DefaultAdminRoleName:
		return DefaultAdminRole, nil
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		b, err := hexutil.Decode("0x" + s[2:])
		if err != nil || len(b) != common.HashLength {
			return common.Hash{}, fmt.Errorf("%w: %q is not a 32 byte hex value", ErrInvalidRole, s)
		}
		return common.BytesToHash(b), nil
	default:
		return RoleFromName(s), nil
	}
}

// ParseAccount accepts a 0x-prefixed 20 byte hex address in any case.
func ParseAccount(s string) (common.Address, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return common.Address{}, fmt.Errorf("%w: %q must start with 0x", ErrInvalidAccount, s)
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q is not a 20 byte hex value", ErrInvalidAccount, s)
	}
	return common.HexToAddress(s), nil
}

// ParseAccounts parses every element of ss with ParseAccount.
func ParseAccounts(ss []string) ([]common.Address, error) {
	out := make([]common.Address, 0, len(ss))
	for _, s := range ss {
		a, err := ParseAccount(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// FormatAccount renders an address in lowercase hex, the form used in error
// messages and storage keys.
func FormatAccount(a common.Address) string {
	return strings.ToLower(a.Hex())
}

// RoleLabel renders a role for humans, naming the sentinel role.
func RoleLabel(role common.Hash) string {
	if role == DefaultAdminRole {
		return DefaultAdminRoleName
	}
	return role.Hex()
}
