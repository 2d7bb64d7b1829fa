// Package main provides the langscope CLI, which reports the languages a
// GitHub account writes code in.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alimgiray/langscope/internal/models"
	"github.com/alimgiray/langscope/pkg/config"
	"github.com/alimgiray/langscope/pkg/logger"
	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	logger.Init()
	// stdout carries the report
	logger.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "langscope",
		Short: "Per-language code contribution statistics for GitHub accounts",
		Long: `langscope measures how much code a GitHub account adds in each language.

Commands:
  indepth   Scan the full history of the account's repositories
  recent    Scan the commits the account pushed lately`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if verbose {
				logger.SetLevel("debug")
			}
			return config.Load()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newAnalyzeCommand(models.AnalysisModeIndepth, "Scan the full history of the account's repositories"))
	rootCmd.AddCommand(newAnalyzeCommand(models.AnalysisModeRecent, "Scan the commits the account pushed lately"))

	return rootCmd
}
