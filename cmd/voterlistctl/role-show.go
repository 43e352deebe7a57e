package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
)

var roleHasCmd = &cobra.Command{
	Use:   "has <role> <account>",
	Short: "Check whether an account holds a role",
	Long: `Print true or false. Exits with status 2 when the account does not hold the
role, so the command can be used in scripts.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		role, err := accesscontrol.ParseRole(args[0])
		if err != nil {
			fail("Bad role", err)
		}
		account, err := accesscontrol.ParseAccount(args[1])
		if err != nil {
			fail("Bad account", err)
		}

		ctx := context.Background()
		registry, closeAudit, err := openRegistry(ctx)
		if err != nil {
			fail("Unable to open registry", err)
		}
		defer closeAudit()

		has, err := registry.HasRole(ctx, role, account)
		if err != nil {
			fail("Lookup failed", err)
		}
		fmt.Println(has)
		if !has {
			closeAudit()
			os.Exit(2)
		}
	},
}

var roleAdminCmd = &cobra.Command{
	Use:   "admin <role>",
	Short: "Print the admin role of a role",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		role, err := accesscontrol.ParseRole(args[0])
		if err != nil {
			fail("Bad role", err)
		}

		ctx := context.Background()
		registry, closeAudit, err := openRegistry(ctx)
		if err != nil {
			fail("Unable to open registry", err)
		}
		defer closeAudit()

		admin, err := registry.GetRoleAdmin(ctx, role)
		if err != nil {
			fail("Lookup failed", err)
		}
		fmt.Println(accesscontrol.RoleLabel(admin))
	},
}

var roleMembersCmd = &cobra.Command{
	Use:   "members <role>",
	Short: "List the members of a role in enumeration order",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		role, err := accesscontrol.ParseRole(args[0])
		if err != nil {
			fail("Bad role", err)
		}

		ctx := context.Background()
		registry, closeAudit, err := openRegistry(ctx)
		if err != nil {
			fail("Unable to open registry", err)
		}
		defer closeAudit()

		members, err := registry.GetRoleMembers(ctx, role)
		if err != nil {
			fail("Lookup failed", err)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Index", "Account"})
		for i, m := range members {
			table.Append([]string{strconv.Itoa(i), accesscontrol.FormatAccount(m)})
		}
		table.SetFooter([]string{"", fmt.Sprintf("%d member(s) of %s", len(members), accesscontrol.RoleLabel(role))})
		table.Render()
	},
}

func init() {
	roleCmd.AddCommand(roleHasCmd)
	roleCmd.AddCommand(roleAdminCmd)
	roleCmd.AddCommand(roleMembersCmd)
}
