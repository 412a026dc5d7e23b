// inspector-notify is a local companion to the Lambda deployment: it replays
// a captured Inspector2 EventBridge event through the same pipeline, against
// the real channels or in dry-run mode.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:                   "inspector-notify [command]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Short:                 "inspector-notify enriches Inspector findings with AI remediation guidance and sends alerts.",
}

func init() {
	rootCmd.AddCommand(newProcessCmd())
}

func main() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
