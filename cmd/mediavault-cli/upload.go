package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mediavault/mediavault/clientcli"
)

var (
	uploadName        string
	uploadDescription string
	uploadContentType string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path>",
	Short: "Upload a media file to the server",
	Long: `Upload a JPEG image or MP4 video to the server.

The object name defaults to the local file name without its extension.
The name must be unique; uploading an existing name fails with a conflict.

Examples:
  mediavault-cli upload ./sunset.jpg --owner alice
  mediavault-cli upload ./clip.mp4 --name holiday-clip --description "Day one"
  mediavault-cli upload --content-type image/jpeg ./photo.bin --name photo`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadName, "name", "n", "", "object name (default: local file name without extension)")
	uploadCmd.Flags().StringVarP(&uploadDescription, "description", "d", "", "object description")
	uploadCmd.Flags().StringVarP(&uploadContentType, "content-type", "t", "", "override content-type")
}

func runUpload(_ *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.UploadOptions{
		LocalPath:   args[0],
		Name:        uploadName,
		Owner:       owner,
		Description: uploadDescription,
		ContentType: uploadContentType,
	}

	result, err := client.Upload(context.Background(), opts)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	formatter := getFormatter()
	return formatter.FormatUpload(os.Stdout, result)
}
