package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/voterlist/pkg/policy/loader"
)

// policyApplyCmd represents the policy apply command
var policyApplyCmd = &cobra.Command{
	Use:   "apply <file>",
	Short: "Apply a policy file",
	Long: `Apply a policy file as the --as account.

Every grant and revoke is checked against the admin role of its role and the
voters section against the admin role. One failure rolls back the document.

Example:
  voterlistctl policy apply policy.yml --as 0xf39f...2266`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, err := operatorContext(cmd)
		if err != nil {
			fail("No caller", err)
		}

		registry, closeAudit, err := openRegistry(ctx)
		if err != nil {
			fail("Unable to open registry", err)
		}
		defer closeAudit()

		file, err := os.Open(args[0])
		if err != nil {
			fail("Failed to open policy file", err)
		}
		defer func() { _ = file.Close() }()

		result, err := loader.NewLoader(registry).Load(ctx, file)
		if err != nil {
			fail("Failed to apply policy", err)
		}

		fmt.Printf("Policy applied with %d change(s)\n", result.Changes)
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
	},
}

func init() {
	policyCmd.AddCommand(policyApplyCmd)
}
