package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mediavault/mediavault"
	"github.com/mediavault/mediavault/config"
	"github.com/mediavault/mediavault/metadata"
	"github.com/mediavault/mediavault/metadata/sidecar"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Load sidecar records into the configured SQL backend",
	Long: `Copy every metadata record from the sidecar directory into the
configured sqlite or postgres backend.

Use this when switching an existing sidecar-backed store to a SQL
index. Records already present in the target are updated in place.`,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	if cfg.Metadata.Backend == "sidecar" {
		return errors.New("reindex: target backend is sidecar; configure sqlite or postgres")
	}

	root, err := os.OpenRoot(cfg.Metadata.Path)
	if err != nil {
		return fmt.Errorf("open sidecar root: %w", err)
	}
	defer func() { _ = root.Close() }()

	source := sidecar.NewRepo(root)

	target, closeTarget, err := metadata.Connect(ctx, cfg.Metadata)
	if err != nil {
		return fmt.Errorf("connect metadata backend: %w", err)
	}
	defer closeTarget()

	records, err := source.List(ctx)
	if err != nil {
		return fmt.Errorf("list sidecar records: %w", err)
	}

	for _, rec := range records {
		err := target.Create(ctx, rec)
		if errors.Is(err, mediavault.ErrConflict) {
			err = target.Update(ctx, rec)
		}
		if err != nil {
			return fmt.Errorf("reindex %s: %w", rec.Name, err)
		}
	}

	slog.Info("reindex complete", "records", len(records), "backend", cfg.Metadata.Backend)

	return nil
}
