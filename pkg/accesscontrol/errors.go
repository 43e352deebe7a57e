package accesscontrol

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrUnauthorized matches every *UnauthorizedError via errors.Is.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSelfOnly is returned when an account renounces a role on behalf of
	// another account.
	ErrSelfOnly = errors.New("AccessControl: can only renounce roles for self")

	// ErrIndexOutOfRange matches every *IndexOutOfRangeError via errors.Is.
	ErrIndexOutOfRange = errors.New("EnumerableSet: index out of bounds")
)

// UnauthorizedError reports a caller missing the role a mutation requires.
type UnauthorizedError struct {
	Account common.Address
	Role    common.Hash
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("AccessControl: account %s is missing role %s", FormatAccount(e.Account), e.Role.Hex())
}

func (e *UnauthorizedError) Is(target error) bool {
	return target == ErrUnauthorized
}

// IndexOutOfRangeError reports an enumeration index at or past the member
// count of a role.
type IndexOutOfRangeError struct {
	Role  common.Hash
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return ErrIndexOutOfRange.Error()
}

func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}
