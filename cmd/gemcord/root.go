package main

import (
	"context"
	"os"

	"github.com/grigorel/gemcord/internal/config"
	"github.com/grigorel/gemcord/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "gemcord",
	Short: "Gemcord — A Discord companion bot",
	Long:  `Gemcord is a Discord bot that chats through the Gemini API.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
