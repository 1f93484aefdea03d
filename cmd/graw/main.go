// Command graw browses Reddit listings, inboxes and comment threads from the
// command line.
//
// Credentials come from an optional HCL file (--config), REDDIT_*
// environment variables and flags, later sources winning:
//
//	client_id     = "your-client-id"
//	client_secret = "your-client-secret"
//	user_agent    = "graw-cli/0.1 by /u/yourusername"
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:          "graw",
		Short:        "Read Reddit listings and comment threads",
		SilenceUsage: true,
	}
	opts.addFlags(rootCmd)

	rootCmd.AddCommand(newThreadCmd(&opts))
	rootCmd.AddCommand(newListingCmd(&opts))
	rootCmd.AddCommand(newInboxCmd(&opts))
	rootCmd.AddCommand(newStatsCmd(&opts))
	rootCmd.AddCommand(newWatchCmd(&opts))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
