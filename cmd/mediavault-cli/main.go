package main

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mediavault/mediavault/clientcli"
)

var (
	version = "dev"

	cfgFile    string
	profile    string
	endpoint   string
	owner      string
	jsonOutput bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:     "mediavault-cli",
	Version: version,
	Short:   "Client for mediavault object storage",
	Long: `Mediavault CLI - Client for the mediavault media store

Objects are JPEG images or MP4 videos stored under a unique name,
paired with a metadata record. All mutating operations and retrieval
require the owner that created the object.

Examples:
  mediavault-cli upload ./sunset.jpg --owner alice
  mediavault-cli fetch sunset --owner alice
  mediavault-cli query by-date --start "2026-01-01 00:00:00" --end "2026-02-01 00:00:00"`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.mediavault/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "profile name (env: MEDIAVAULT_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "server", "s", "", "server URL (default: "+clientcli.DefaultEndpoint+", env: MEDIAVAULT_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&owner, "owner", "o", "", "owner identity (env: MEDIAVAULT_OWNER)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(1)
	}
}

// getConfigPath resolves the config file path from flag, env, or default.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if envPath := clientcli.ConfigPathFromEnv(); envPath != "" {
		return envPath
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges config from profile, env vars, and flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	// 1. Resolve profile from config file
	configPath := getConfigPath()
	if configPath != "" {
		cfg, err := clientcli.LoadConfigFile(configPath)
		if err == nil {
			profileName := profile
			if profileName == "" {
				profileName = clientcli.ProfileFromEnv()
			}
			p, profErr := cfg.GetProfile(profileName)
			if profErr != nil {
				// A missing named profile is an error, a missing
				// default profile just means no file-based config.
				if profileName != "" {
					return nil, profErr
				}
			} else {
				configs = append(configs, clientcli.ConfigFromProfile(p))
			}
		} else if cfgFile != "" {
			// Only error when the user explicitly named a config file.
			return nil, err
		}
	}

	// 2. Environment variables
	configs = append(configs, clientcli.ConfigFromEnv())

	// 3. Flags
	configs = append(configs, &clientcli.Config{
		Endpoint: endpoint,
		Owner:    owner,
	})

	return clientcli.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	return clientcli.New(cfg)
}

// handleError prints the error through the formatter and returns it.
func handleError(w io.Writer, err error) error {
	formatter := getFormatter()
	_ = formatter.FormatError(w, err)
	return &exitError{code: 1}
}

// exitError is returned when we want to exit with a specific code
// but don't want cobra to print an error message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}
