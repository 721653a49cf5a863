package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the schedbot application
var rootCmd = &cobra.Command{
	Use:   "schedbot",
	Short: "Books calendar events from free-text instructions",
	Long: `schedbot turns free-text scheduling instructions into Google Calendar
events. An LLM plans the events, each one is booked individually, and a
summary of the outcomes is sent back over Telegram.

It can run as:
  - A webhook server receiving Telegram updates (serve)
  - A one-shot CLI run for a single instruction (schedule)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "schedbot version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newScheduleCmd())
	rootCmd.AddCommand(newVersionCmd())
}
