package accesscontrol

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleFromName(t *testing.T) {
	assert.Equal(t,
		common.HexToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"),
		RoleFromName(""),
	)
	assert.NotEqual(t, RoleFromName("DUMMY_ROLE"), RoleFromName("OTHER_ROLE"))
	assert.NotEqual(t, DefaultAdminRole, RoleFromName(DefaultAdminRoleName))
}

func TestParseRole(t *testing.T) {
	dummy := RoleFromName("DUMMY_ROLE")

	tests := []struct {
		name    string
		input   string
		want    common.Hash
		wantErr bool
	}{
		{name: "sentinel name", input: "DEFAULT_ADMIN_ROLE", want: DefaultAdminRole},
		{name: "role name", input: "DUMMY_ROLE", want: dummy},
		{name: "hex identifier", input: dummy.Hex(), want: dummy},
		{name: "upper case prefix", input: "0X" + dummy.Hex()[2:], want: dummy},
		{name: "zero hex", input: "0x" + "0000000000000000000000000000000000000000000000000000000000000000", want: DefaultAdminRole},
		{name: "empty", input: "", wantErr: true},
		{name: "short hex", input: "0x1234", wantErr: true},
		{name: "bad hex", input: "0x" + "zz00000000000000000000000000000000000000000000000000000000000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAccount(t *testing.T) {
	want := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "checksummed", input: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"},
		{name: "lower case", input: "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"},
		{name: "missing prefix", input: "70997970c51812dc3a010c7d01b50e0d17dc79c8", wantErr: true},
		{name: "too short", input: "0x7099", wantErr: true},
		{name: "not hex", input: "0xzz997970c51812dc3a010c7d01b50e0d17dc79c8", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAccount(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAccount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseAccounts(t *testing.T) {
	got, err := ParseAccounts([]string{"0x0000000000000000000000000000000000000001", "0x0000000000000000000000000000000000000002"})
	require.NoError(t, err)
	assert.Equal(t, []common.Address{common.BytesToAddress([]byte{1}), common.BytesToAddress([]byte{2})}, got)

	_, err = ParseAccounts([]string{"0x0000000000000000000000000000000000000001", "nope"})
	assert.ErrorIs(t, err, ErrInvalidAccount)
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "DEFAULT_ADMIN_ROLE", RoleLabel(DefaultAdminRole))
	dummy := RoleFromName("DUMMY_ROLE")
	assert.Equal(t, dummy.Hex(), RoleLabel(dummy))
}
