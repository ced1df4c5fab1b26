package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mediavault/mediavault/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "mediavault",
	Short:   "Metadata-indexed media object store",
	Long: `Mediavault is a small object store for media payloads. Every stored
object pairs the raw bytes with a metadata sidecar record; mutation and
retrieval are gated by the owner set at creation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFiles, _ := cmd.Flags().GetStringSlice("config")

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg.Log.Level)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("metadata-backend", "", "metadata backend: sidecar, sqlite, postgres (env: MEDIAVAULT_METADATA_BACKEND)")
	rootCmd.PersistentFlags().String("metadata-dsn", "", "metadata connection string for SQL backends (env: MEDIAVAULT_METADATA_DSN)")
	rootCmd.PersistentFlags().String("metadata-path", "", "sidecar directory path (env: MEDIAVAULT_METADATA_PATH)")
	rootCmd.PersistentFlags().String("storage-path", "", "payload directory path (env: MEDIAVAULT_STORAGE_PATH)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
