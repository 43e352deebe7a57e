package main

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/event"
)

type roleMutation func(ac *accesscontrol.AccessControl) func(context.Context, common.Hash, common.Address) (*event.Receipt, error)

var roleGrantCmd = &cobra.Command{
	Use:   "grant <role> <account>",
	Short: "Grant a role to an account",
	Long: `Grant a role to an account. The --as account must hold the admin role of
the role.

Example:
  voterlistctl role grant DUMMY_ROLE 0x7099...79c8 --as 0xf39f...2266`,
	Args: cobra.ExactArgs(2),
	Run: runRoleMutation(func(ac *accesscontrol.AccessControl) func(context.Context, common.Hash, common.Address) (*event.Receipt, error) {
		return ac.GrantRole
	}),
}

var roleRevokeCmd = &cobra.Command{
	Use:   "revoke <role> <account>",
	Short: "Revoke a role from an account",
	Long: `Revoke a role from an account. The --as account must hold the admin role of
the role.`,
	Args: cobra.ExactArgs(2),
	Run: runRoleMutation(func(ac *accesscontrol.AccessControl) func(context.Context, common.Hash, common.Address) (*event.Receipt, error) {
		return ac.RevokeRole
	}),
}

var roleRenounceCmd = &cobra.Command{
	Use:   "renounce <role> <account>",
	Short: "Give up a role held by the --as account",
	Long: `Give up a role. The account must be the --as account; nobody can renounce a
role on behalf of another account.`,
	Args: cobra.ExactArgs(2),
	Run: runRoleMutation(func(ac *accesscontrol.AccessControl) func(context.Context, common.Hash, common.Address) (*event.Receipt, error) {
		return ac.RenounceRole
	}),
}

func init() {
	roleCmd.AddCommand(roleGrantCmd)
	roleCmd.AddCommand(roleRevokeCmd)
	roleCmd.AddCommand(roleRenounceCmd)
}

func runRoleMutation(method roleMutation) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		role, err := accesscontrol.ParseRole(args[0])
		if err != nil {
			fail("Bad role", err)
		}
		account, err := accesscontrol.ParseAccount(args[1])
		if err != nil {
			fail("Bad account", err)
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

		receipt, err := method(registry.AccessControl)(ctx, role, account)
		if err != nil {
			fail(cmd.Name()+" failed", err)
		}
		printReceipt(receipt)
	}
}
