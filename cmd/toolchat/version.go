package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// set at build time with -ldflags "-X main.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the toolchat version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}
