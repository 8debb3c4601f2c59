package main

import (
	"github.com/spf13/cobra"

	"github.com/tradeflowhq/tradeflow/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println(version.Full())
	},
}
