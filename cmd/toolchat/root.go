package main

import (
	"os"

	"github.com/effective-security/xlog"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	debugLog bool
)

var rootCmd = &cobra.Command{
	Use:   "toolchat",
	Short: "Chat with an AI model that can call MCP tools",
	Long: `toolchat launches the MCP servers listed in the configuration file,
merges their tool catalogs, and runs an interactive chat. Each user
message is interpreted by the configured model into a structured
decision: answer directly, ask for missing input, or call tools.

Type 'exit' or 'quit' to end the chat.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugLog {
			xlog.SetGlobalLogLevel(xlog.DEBUG)
		}
	},
	RunE: runChat,
}

// Execute runs the root command. Startup failures, a missing or invalid
// configuration file above all, are the only fatal errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "toolchat.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug logging")

	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(versionCmd)
}
