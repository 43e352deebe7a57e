package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/config"
	"github.com/doodlesbykumbi/voterlist/pkg/token"
)

// tokenIssueCmd represents the token issue command
var tokenIssueCmd = &cobra.Command{
	Use:   "issue <account>",
	Short: "Issue a bearer token for an account",
	Long: `Issue a bearer token naming account as the caller of HTTP mutations.

The token is signed with VOTERLIST_TOKEN_KEY and expires after token_ttl.

Example:
  curl -X PUT -H "Authorization: Bearer $(voterlistctl token issue 0xf39f...2266)" \
    http://localhost:8000/voters/0x7099...79c8`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		account, err := accesscontrol.ParseAccount(args[0])
		if err != nil {
			fail("Bad account", err)
		}

		cfg, err := config.Load()
		if err != nil {
			fail("Failed to load configuration", err)
		}
		secrets, err := config.LoadSecrets()
		if err != nil {
			fail("Failed to load secrets", err)
		}
		key, err := secrets.DecodeTokenKey()
		if err != nil {
			fail("Bad VOTERLIST_TOKEN_KEY", err)
		}

		ttl, _ := cmd.Flags().GetDuration("ttl")
		if ttl == 0 {
			ttl = cfg.TokenTTL
		}
		issuer, err := token.NewIssuer(key, cfg.TokenIssuer, ttl, nil)
		if err != nil {
			fail("Unable to create issuer", err)
		}

		signed, claims, err := issuer.Issue(account)
		if err != nil {
			fail("Failed to issue token", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			output, _ := json.MarshalIndent(map[string]interface{}{
				"token":      signed,
				"subject":    claims.Subject,
				"expires_at": claims.ExpiresAt.Time.Format(time.RFC3339),
			}, "", "  ")
			fmt.Println(string(output))
			return
		}
		fmt.Fprintf(os.Stdout, "%s", signed)
	},
}

func init() {
	tokenCmd.AddCommand(tokenIssueCmd)
	tokenIssueCmd.Flags().Duration("ttl", 0, "token lifetime (default token_ttl)")
	tokenIssueCmd.Flags().Bool("json", false, "print the token with its claims as JSON")
}
