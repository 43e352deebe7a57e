package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "voterlistctl",
	Short: "Operate a voter registry",
	Long: `Run and administer a voter registry: the HTTP server, the database schema,
roles, voters and policy documents.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("as", os.Getenv("VOTERLIST_OPERATOR"), "account that mutating commands act as")
}

func main() {
	Execute()
}
