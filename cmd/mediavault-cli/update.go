package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mediavault/mediavault/clientcli"
)

var (
	updateFile        string
	updateDescription string
	updateContentType string
)

var updateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Update an existing object",
	Long: `Update an existing object's payload and/or description.

At least one of --file or --description must be provided. Only the
owner that created the object may update it. The object name and
creation time never change.

Examples:
  mediavault-cli update sunset --file ./sunset-v2.jpg
  mediavault-cli update sunset --description "Golden hour"
  mediavault-cli update holiday-clip --file ./clip2.mp4 --description "Day two"`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVarP(&updateFile, "file", "f", "", "replacement payload file")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "replacement description")
	updateCmd.Flags().StringVarP(&updateContentType, "content-type", "t", "", "override content-type")
}

func runUpdate(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.UpdateOptions{
		Name:        args[0],
		Owner:       owner,
		Description: updateDescription,
		LocalPath:   updateFile,
		ContentType: updateContentType,
	}

	result, err := client.Update(context.Background(), opts)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	formatter := getFormatter()
	return formatter.FormatUpload(os.Stdout, result)
}
