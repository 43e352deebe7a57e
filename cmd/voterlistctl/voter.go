package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// voterCmd represents the voter command
var voterCmd = &cobra.Command{
	Use:   "voter",
	Short: "Manage vote rights",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'voter' requires a subcommand (add, remove, check)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(voterCmd)
}
