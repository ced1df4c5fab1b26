package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mediavault/mediavault/clientcli"
)

var (
	queryStart  string
	queryEnd    string
	querySort   string
	queryOwners []string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query objects by creation time",
	Long: `Query object metadata by creation time.

Both --start and --end are required and the window is exclusive on
both ends. Timestamps accept "2006-01-02 15:04:05", RFC 3339, or a
bare date like "2026-01-15".`,
}

var queryByDateCmd = &cobra.Command{
	Use:   "by-date",
	Short: "List one owner's objects created inside a window",
	Long: `List the calling owner's objects created strictly inside the window.

Examples:
  mediavault-cli query by-date --start "2026-01-01 00:00:00" --end "2026-02-01 00:00:00"
  mediavault-cli query by-date --start 2026-01-01 --end 2026-02-01 --sort desc`,
	RunE: runQueryByDate,
}

var queryByOwnersCmd = &cobra.Command{
	Use:   "by-owners",
	Short: "List objects of a set of owners created inside a window",
	Long: `List objects belonging to any of the given owners, created strictly
inside the window.

Examples:
  mediavault-cli query by-owners --member alice --member bob --start 2026-01-01 --end 2026-02-01
  mediavault-cli query by-owners --member alice --start 2026-01-01 --end 2026-02-01 --sort desc`,
	RunE: runQueryByOwners,
}

func init() {
	for _, cmd := range []*cobra.Command{queryByDateCmd, queryByOwnersCmd} {
		cmd.Flags().StringVar(&queryStart, "start", "", "window start (exclusive)")
		cmd.Flags().StringVar(&queryEnd, "end", "", "window end (exclusive)")
		cmd.Flags().StringVar(&querySort, "sort", "", "sort order by creation time: asc or desc")
		_ = cmd.MarkFlagRequired("start")
		_ = cmd.MarkFlagRequired("end")
	}

	queryByOwnersCmd.Flags().StringArrayVarP(&queryOwners, "member", "m", nil, "owner to include (repeatable)")
	_ = queryByOwnersCmd.MarkFlagRequired("member")

	queryCmd.AddCommand(queryByDateCmd)
	queryCmd.AddCommand(queryByOwnersCmd)
}

func runQueryByDate(_ *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	items, err := client.QueryByDate(context.Background(), clientcli.DateQueryOptions{
		Owner: owner,
		Start: queryStart,
		End:   queryEnd,
		Sort:  querySort,
	})
	if err != nil {
		return handleError(os.Stderr, err)
	}

	formatter := getFormatter()
	return formatter.FormatQuery(os.Stdout, items)
}

func runQueryByOwners(_ *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	items, err := client.QueryByOwners(context.Background(), clientcli.OwnerQueryOptions{
		Owners: queryOwners,
		Start:  queryStart,
		End:    queryEnd,
		Sort:   querySort,
	})
	if err != nil {
		return handleError(os.Stderr, err)
	}

	formatter := getFormatter()
	return formatter.FormatQuery(os.Stdout, items)
}
