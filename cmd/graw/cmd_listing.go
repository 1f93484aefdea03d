package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesprial/graw"
	"github.com/jamesprial/graw/pkg/types"
)

func newListingCmd(opts *globalOptions) *cobra.Command {
	var (
		limit     int
		count     int
		timeRange string
	)

	cmd := &cobra.Command{
		Use:   "listing [subreddit] [hot|new|rising|top|controversial]",
		Short: "Print posts from a subreddit or the front page",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var subreddit, sort string
			if len(args) > 0 {
				subreddit = args[0]
			}
			sort = "hot"
			if len(args) > 1 {
				sort = args[1]
			}

			client, err := opts.newClient()
			if err != nil {
				return err
			}

			listOpts := &types.ListingOptions{
				Pagination: types.Pagination{Limit: min(limit, count)},
				Time:       types.TimeFilter(timeRange),
			}
			var listing *graw.Listing[*types.Post]
			switch sort {
			case "hot":
				listing, err = client.Hot(subreddit, listOpts)
			case "new":
				listing, err = client.New(subreddit, listOpts)
			case "rising":
				listing, err = client.Rising(subreddit, listOpts)
			case "top":
				listing, err = client.Top(subreddit, listOpts)
			case "controversial":
				listing, err = client.Controversial(subreddit, listOpts)
			default:
				return fmt.Errorf("unknown sort %q", sort)
			}
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			posts, err := listing.Collect(ctx, count)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", sort, err)
			}

			out := cmd.OutOrStdout()
			for i, p := range posts {
				fmt.Fprintf(out, "%3d. [%d] %s\n     r/%s by u/%s | %d comments | %s\n",
					i+1, p.Score, p.Title, p.Subreddit, p.Author, p.NumComments, p.ID)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", types.DefaultListingLimit, "page size (Reddit serves at most 100)")
	cmd.Flags().IntVar(&count, "count", types.DefaultListingLimit, "number of posts to print")
	cmd.Flags().StringVar(&timeRange, "time", "", "time window for top and controversial: hour, day, week, month, year, all")
	return cmd
}
