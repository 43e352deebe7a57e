package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/voterlist"
)

// deployCmd represents the deploy command
var deployCmd = &cobra.Command{
	Use:   "deploy <deployer>",
	Short: "Create the registry in the database",
	Long: `Create the registry in the database named by DATABASE_URL.

The deployer receives the admin role. A database holds a single registry;
deploying twice fails.

Example:
  voterlistctl db migrate
  voterlistctl deploy 0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		deployer, err := accesscontrol.ParseAccount(args[0])
		if err != nil {
			fail("Bad deployer", err)
		}

		s, err := openStore()
		if err != nil {
			fail("Unable to connect to DB", err)
		}
		obs, closeAudit, err := auditObserver()
		if err != nil {
			fail("Unable to open audit store", err)
		}
		defer closeAudit()

		ctx := context.Background()
		registry, err := voterlist.Deploy(ctx, s, deployer, accesscontrol.WithObserver(obs))
		if err != nil {
			fail("Deploy failed", err)
		}

		d, err := registry.Deployment(ctx)
		if err != nil {
			fail("Deploy failed", err)
		}
		fmt.Printf("Deployed by %s in %s at %s\n",
			accesscontrol.FormatAccount(d.Deployer), d.TxID, d.DeployedAt.Format(time.RFC3339))
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)
}
