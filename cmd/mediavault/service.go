package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mediavault/mediavault"
	"github.com/mediavault/mediavault/config"
	"github.com/mediavault/mediavault/filesystem"
	"github.com/mediavault/mediavault/metadata"
)

// buildService assembles the metadata repo, payload storage and the
// store service from the loaded config. The returned cleanup function
// releases the backend resources.
func buildService(ctx context.Context, cfg *config.Config) (*mediavault.Service, func(), error) {
	repo, closeRepo, err := metadata.Connect(ctx, cfg.Metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("connect metadata backend: %w", err)
	}

	if err := os.MkdirAll(cfg.Storage.Path, 0o750); err != nil {
		closeRepo()
		return nil, nil, fmt.Errorf("create storage directory: %w", err)
	}

	root, err := os.OpenRoot(cfg.Storage.Path)
	if err != nil {
		closeRepo()
		return nil, nil, fmt.Errorf("open storage root: %w", err)
	}

	blobs := filesystem.NewBlobStorage(root)

	service, err := mediavault.NewService(repo, blobs, mediavault.ServiceConfig{
		CleanupTimeout: time.Duration(cfg.Service.CleanupTimeout) * time.Second,
	})
	if err != nil {
		closeRepo()
		_ = root.Close()
		return nil, nil, fmt.Errorf("create service: %w", err)
	}

	cleanup := func() {
		closeRepo()
		_ = root.Close()
	}

	return service, cleanup, nil
}
