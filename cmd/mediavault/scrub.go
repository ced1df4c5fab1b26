package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mediavault/mediavault/config"
)

var scrubCmd = &cobra.Command{
	Use:   "scrub",
	Short: "Remove orphan payload blobs",
	Long: `Remove payload blobs that have no metadata record.

A crash between the payload write and the metadata commit can leave a
payload behind without a record. Such orphans are invisible to every
operation; run this periodically to reclaim the space.`,
	RunE: runScrub,
}

func init() {
	rootCmd.AddCommand(scrubCmd)
}

func runScrub(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	service, cleanup, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	removed, err := service.Scrub(ctx)
	if err != nil {
		return fmt.Errorf("scrub: %w", err)
	}

	for _, key := range removed {
		slog.Info("removed orphan blob", "key", key)
	}
	slog.Info("scrub complete", "removed", len(removed))

	return nil
}
