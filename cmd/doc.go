// Package cmd implements the command-line interface for schedbot.
//
// This package provides the following commands:
//   - serve: Start the Telegram webhook server
//   - schedule: Run the pipeline once for a single instruction
//   - version: Display version information
//
// Both serve and schedule read their configuration from flags with
// environment variable fallbacks.
package cmd
