package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mediavault/mediavault/clientcli"
)

var removeCmd = &cobra.Command{
	Use:     "remove <name> [name...]",
	Aliases: []string{"rm"},
	Short:   "Remove objects from the server",
	Long: `Remove one or more objects from the server.

Only the owner that created an object may remove it. Both the payload
and the metadata record are deleted.

Examples:
  mediavault-cli remove sunset
  mediavault-cli remove sunset holiday-clip beach-photo
  mediavault-cli rm -q old-draft`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

func runRemove(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.RemoveOptions{
		Names: args,
		Owner: owner,
	}

	results, err := client.Remove(context.Background(), opts)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	formatter := getFormatter()
	if err := formatter.FormatRemove(os.Stdout, results); err != nil {
		return err
	}

	if clientcli.HasRemoveErrors(results) {
		return &exitError{code: 1}
	}

	return nil
}
