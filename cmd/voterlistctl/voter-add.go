package main

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/voterlist/pkg/event"
	"github.com/doodlesbykumbi/voterlist/pkg/voterlist"
)

var voterAddCmd = &cobra.Command{
	Use:   "add [account...]",
	Short: "Give the vote right to accounts",
	Long: `Give the vote right to accounts. The --as account must hold the admin role.

A single account is added with addVoter; several accounts, or a --file with
one account per line, are added atomically with addVoters.

Example:
  voterlistctl voter add 0x7099...79c8 --as 0xf39f...2266
  voterlistctl voter add --file voters.txt --as 0xf39f...2266`,
	Run: runVoterMutation(true),
}

var voterRemoveCmd = &cobra.Command{
	Use:   "remove [account...]",
	Short: "Take the vote right from accounts",
	Long: `Take the vote right from accounts. The --as account must hold the admin role.
Several accounts, or a --file, are removed atomically.`,
	Run: runVoterMutation(false),
}

func init() {
	voterCmd.AddCommand(voterAddCmd)
	voterCmd.AddCommand(voterRemoveCmd)
	voterAddCmd.Flags().StringP("file", "f", "", "file with one account per line")
	voterRemoveCmd.Flags().StringP("file", "f", "", "file with one account per line")
}

func runVoterMutation(voter bool) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		accounts, err := readAccounts(args, file)
		if err != nil {
			fail("Bad account", err)
		}
		if len(accounts) == 0 {
			fail("Nothing to do", errors.New("give accounts as arguments or with --file"))
		}
		ctx, err := operatorContext(cmd)
		if err != nil {
			fail("No caller", err)
		}

		registry, closeAudit, err := openRegistry(ctx)
		if err != nil {
			fail("Unable to open registry", err)
		}
		defer closeAudit()

		receipt, err := setVoteRights(ctx, registry, accounts, voter, file != "")
		if err != nil {
			fail("voter "+cmd.Name()+" failed", err)
		}
		printReceipt(receipt)
	}
}

func setVoteRights(ctx context.Context, registry *voterlist.VoterList, accounts []common.Address, voter, batch bool) (*event.Receipt, error) {
	single := len(accounts) == 1 && !batch
	switch {
	case voter && single:
		return registry.AddVoter(ctx, accounts[0])
	case voter:
		return registry.AddVoters(ctx, accounts)
	case single:
		return registry.RemoveVoter(ctx, accounts[0])
	default:
		return registry.RemoveVoters(ctx, accounts)
	}
}
