package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/event"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the registry event log",
	Long: `List committed events in the order they were emitted.

Example:
  voterlistctl events
  voterlistctl events --kind RoleGranted --role DUMMY_ROLE
  voterlistctl events --account 0x7099...79c8 --limit 10`,
	Run: func(cmd *cobra.Command, args []string) {
		filter, err := eventFilter(cmd)
		if err != nil {
			fail("Bad filter", err)
		}

		ctx := context.Background()
		registry, closeAudit, err := openRegistry(ctx)
		if err != nil {
			fail("Unable to open registry", err)
		}
		defer closeAudit()

		events, err := registry.Events(ctx, filter)
		if err != nil {
			fail("Failed to read events", err)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Time", "Tx", "Kind", "Role", "Account", "Sender"})
		for _, e := range events {
			table.Append(eventRow(e))
		}
		table.Render()
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().StringSlice("kind", nil, "event kinds to include")
	eventsCmd.Flags().StringSlice("role", nil, "roles to include")
	eventsCmd.Flags().StringSlice("account", nil, "accounts to include")
	eventsCmd.Flags().String("sender", "", "only events sent by this account")
	eventsCmd.Flags().IntP("limit", "n", 0, "maximum number of events (0 for all)")
}

func eventFilter(cmd *cobra.Command) (event.Filter, error) {
	var filter event.Filter

	kinds, _ := cmd.Flags().GetStringSlice("kind")
	for _, k := range kinds {
		kind, err := event.KindString(k)
		if err != nil {
			return filter, err
		}
		filter.Kinds = append(filter.Kinds, kind)
	}

	roles, _ := cmd.Flags().GetStringSlice("role")
	for _, r := range roles {
		role, err := accesscontrol.ParseRole(r)
		if err != nil {
			return filter, err
		}
		filter.Roles = append(filter.Roles, role)
	}

	accountValues, _ := cmd.Flags().GetStringSlice("account")
	accounts, err := accesscontrol.ParseAccounts(accountValues)
	if err != nil {
		return filter, err
	}
	filter.Accounts = accounts

	if s, _ := cmd.Flags().GetString("sender"); s != "" {
		sender, err := accesscontrol.ParseAccount(s)
		if err != nil {
			return filter, err
		}
		filter.Sender = &sender
	}

	filter.Limit, _ = cmd.Flags().GetInt("limit")
	return filter, nil
}

func eventRow(e event.Event) []string {
	role, account := "", accesscontrol.FormatAccount(e.Account)
	switch e.Kind {
	case event.KindRoleAdminChanged:
		role = accesscontrol.RoleLabel(e.Role)
		account = accesscontrol.RoleLabel(e.PreviousAdminRole) + " -> " + accesscontrol.RoleLabel(e.NewAdminRole)
	case event.KindRoleGranted, event.KindRoleRevoked:
		role = accesscontrol.RoleLabel(e.Role)
	}
	return []string{
		e.Time.UTC().Format(time.RFC3339),
		e.TxID + "#" + strconv.Itoa(e.Index),
		e.Kind.String(),
		role,
		account,
		accesscontrol.FormatAccount(e.Sender),
	}
}
