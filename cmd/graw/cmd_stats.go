package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesprial/graw"
	"github.com/jamesprial/graw/pkg/types"
)

func newStatsCmd(opts *globalOptions) *cobra.Command {
	var maxReplies int

	cmd := &cobra.Command{
		Use:   "stats (<subreddit> <post-id> | <permalink>)",
		Short: "Summarise the discussion under a post",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := threadRequest(args)
			if err != nil {
				return err
			}

			client, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			defer client.Close(context.WithoutCancel(ctx))

			thread, err := client.Comments(ctx, req)
			if err != nil {
				return fmt.Errorf("fetch thread: %w", err)
			}
			replies, err := thread.Collect(ctx, maxReplies)
			if err != nil {
				return fmt.Errorf("expand thread: %w", err)
			}

			tree := graw.NewReplyTree(replies)
			comments := make([]*types.Comment, 0, tree.Count())
			tree.Walk(func(r *graw.Reply) {
				comments = append(comments, r.Comment())
			})

			out := cmd.OutOrStdout()
			if p := thread.Post; p != nil {
				fmt.Fprintf(out, "Title: %s\nAuthor: u/%s\nScore: %d | Comments: %d\n\n", p.Title, p.Author, p.Score, p.NumComments)
			}
			calculateStats(comments, tree.GetDepth()).write(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxReplies, "max", 0, "maximum number of top-level replies to analyse (0 for all)")
	return cmd
}
