package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"codescope/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the codescope version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("codescope version %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
