// Package main implements the folio CLI: the content server and offline
// helpers for the content document.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/folio/internal/app"
	"github.com/MrSnakeDoc/folio/internal/config"
	"github.com/MrSnakeDoc/folio/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Portfolio content server and publish pipeline",
	Long: `folio serves the portfolio content document to the public site, runs the
admin draft/publish pipeline against the remote store and proxies the
third-party APIs the site reads from.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server. Configuration is read from the environment.

Examples:
  # Publish to GitHub, drafts in Redis
  GITHUB_TOKEN=... GITHUB_OWNER=me GITHUB_REPO=site FOLIO_REDIS_ADDR=localhost:6379 folio serve

  # Local development against a file, no Redis
  FOLIO_REMOTE=file FOLIO_CONTENT_FILE=./data/content.json FOLIO_REDIS_ENABLED=false folio serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := app.New(config.Load())
	if err != nil {
		return fmt.Errorf("❌ folio failed to start: %w", err)
	}
	return a.Run()
}
