package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
)

var voterCheckCmd = &cobra.Command{
	Use:   "check <account>",
	Short: "Check whether an account may vote",
	Long: `Print true or false. Exits with status 2 when the account has no vote
right.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		account, err := accesscontrol.ParseAccount(args[0])
		if err != nil {
			fail("Bad account", err)
		}

		ctx := context.Background()
		registry, closeAudit, err := openRegistry(ctx)
		if err != nil {
			fail("Unable to open registry", err)
		}
		defer closeAudit()

		voter, err := registry.HasVoteRight(ctx, account)
		if err != nil {
			fail("Lookup failed", err)
		}
		fmt.Println(voter)
		if !voter {
			closeAudit()
			os.Exit(2)
		}
	},
}

func init() {
	voterCmd.AddCommand(voterCheckCmd)
}
