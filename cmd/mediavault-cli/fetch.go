package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mediavault/mediavault/clientcli"
)

var (
	fetchOutput string
	fetchStdout bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <name> [local-path]",
	Short: "Download an object's payload",
	Long: `Download an object's payload from the server.

Only the owner that created the object may fetch it. The local file
name defaults to the server's File-Name header (name plus extension).

Examples:
  mediavault-cli fetch sunset
  mediavault-cli fetch sunset ./local-sunset.jpg
  mediavault-cli fetch --stdout holiday-clip > clip.mp4
  mediavault-cli fetch -O ./out.jpg sunset`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "O", "", "output file path")
	fetchCmd.Flags().BoolVar(&fetchStdout, "stdout", false, "write payload to stdout")
}

func runFetch(_ *cobra.Command, args []string) error {
	localPath := ""
	if len(args) > 1 {
		localPath = args[1]
	}
	if fetchOutput != "" {
		localPath = fetchOutput
	}
	if fetchStdout {
		localPath = "-"
	}

	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.FetchOptions{
		Name:      args[0],
		Owner:     owner,
		LocalPath: localPath,
	}

	result, reader, err := client.Fetch(context.Background(), opts)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	// Stdout mode streams the payload and keeps metadata off stdout.
	if reader != nil {
		defer func() { _ = reader.Close() }()
		if _, err := io.Copy(os.Stdout, reader); err != nil {
			return err
		}
		if jsonOutput {
			formatter := getFormatter()
			return formatter.FormatFetch(os.Stderr, result)
		}
		return nil
	}

	formatter := getFormatter()
	return formatter.FormatFetch(os.Stdout, result)
}
