package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/campushq/campusbot/internal/config"
	"github.com/campushq/campusbot/pkg/log"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "campusbot",
	Short: "CampusBot — multilingual college help-desk assistant",
	Long:  `CampusBot answers student questions from college documents, the events database and the department directory, in the student's own language.`,
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
