// Command shopctl is the operator CLI for the shopping assistant.
package main

import (
	"fmt"
	"os"

	"ai-shopping-agent-be/internal/config"
	"ai-shopping-agent-be/internal/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	outputJSON bool
	verbose    bool

	cfg *config.Config
	log logger.ILogger
)

var rootCmd = &cobra.Command{
	Use:   "shopctl",
	Short: "Operator CLI for the phone shopping assistant",
	Long: `shopctl drives the dialogue core without the HTTP server.

Use it to chat with the assistant in a terminal, inspect how a message is
classified or ranked, seed the Postgres catalog and read turn analytics.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if verbose {
			log = logger.NewZapLogger(cfg.App.LogFilePath, false)
		} else {
			log = logger.NewNopLogger()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "write structured logs")

	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newRankCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newTurnsCmd())
	rootCmd.AddCommand(newEventsCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
