package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/folio/internal/content"
)

var migrateWrite bool

func init() {
	migrateCmd.Flags().BoolVarP(&migrateWrite, "write", "w", false, "Rewrite the file in place instead of printing to stdout")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(featuredCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate <file>",
	Short: "Apply the load-time migration to a content file",
	Long: `Apply the same migration the server runs on every load: legacy app ids,
empty collections, reserved tabs and renamed labels. Applied patches are
listed on stderr.

Examples:
  # Preview the migrated document
  folio migrate data/content.json

  # Rewrite the file
  folio migrate --write data/content.json`,
	Args: cobra.ExactArgs(1),
	RunE: runMigrate,
}

var featuredCmd = &cobra.Command{
	Use:   "featured <file>",
	Short: "Print the featured items in display order",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeatured,
}

func readDocument(path string) (*content.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := content.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	path := args[0]
	doc, err := readDocument(path)
	if err != nil {
		return err
	}

	applied := content.Migrate(doc)
	for _, name := range applied {
		fmt.Fprintf(cmd.ErrOrStderr(), "applied: %s\n", name)
	}

	out, err := content.Encode(doc)
	if err != nil {
		return err
	}

	if !migrateWrite {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "already up to date")
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	return nil
}

func runFeatured(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}
	content.Migrate(doc)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(content.Featured(doc))
}
