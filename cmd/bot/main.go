// Package main запускает бота заметок botrouter.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFiles []string

	rootCmd := &cobra.Command{
		Use:   "botrouter",
		Short: "Telegram notes bot built on a composable update router",
		Long: `botrouter is a Telegram bot that keeps per-chat notes.

Every update flows through a middleware pipeline and is dispatched by
update kind, then by command name or callback data prefix.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Load environment from file (repeatable)")

	run := runCmd(&envFiles)
	rootCmd.RunE = run.RunE

	rootCmd.AddCommand(
		run,
		routesCmd(),
	)

	return rootCmd
}
