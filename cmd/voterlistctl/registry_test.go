package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/voterlist/pkg/event"
	"github.com/doodlesbykumbi/voterlist/pkg/identity"
)

var (
	alice = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	bob   = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
)

func TestReadAccounts(t *testing.T) {
	file := filepath.Join(t.TempDir(), "voters.txt")
	require.NoError(t, os.WriteFile(file, []byte("# voters\n\n  "+bob.Hex()+"  \n"), 0o600))

	accounts, err := readAccounts([]string{alice.Hex()}, file)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{alice, bob}, accounts)

	_, err = readAccounts([]string{"alice"}, "")
	assert.Error(t, err)

	_, err = readAccounts(nil, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func newOperatorCmd(as string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("as", as, "")
	return cmd
}

func TestOperatorContext(t *testing.T) {
	ctx, err := operatorContext(newOperatorCmd(alice.Hex()))
	require.NoError(t, err)

	id, ok := identity.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, alice, id.Caller)
	assert.Equal(t, identity.SourceOperator, id.Source)

	_, err = operatorContext(newOperatorCmd(""))
	assert.Error(t, err)

	_, err = operatorContext(newOperatorCmd("0x1234"))
	assert.Error(t, err)
}

func TestEventRow(t *testing.T) {
	row := eventRow(event.Event{
		TxID:    "01TX",
		Index:   1,
		Kind:    event.KindVoterAdded,
		Account: alice,
		Sender:  bob,
	})
	assert.Equal(t, "01TX#1", row[1])
	assert.Equal(t, "VoterAdded", row[2])
	assert.Equal(t, "", row[3])
	assert.Equal(t, "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", row[4])
	assert.Equal(t, "0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc", row[5])
}
