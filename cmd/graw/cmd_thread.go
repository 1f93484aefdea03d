package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesprial/graw"
	"github.com/jamesprial/graw/pkg/types"
	"github.com/jamesprial/graw/pkg/validation"
)

// threadRequest reads either "<subreddit> <post-id>" or a single permalink.
func threadRequest(args []string) (*types.CommentsRequest, error) {
	if len(args) == 2 {
		return &types.CommentsRequest{Subreddit: args[0], PostID: args[1]}, nil
	}
	link, ok := validation.ParsePermalink(args[0])
	if !ok {
		return nil, fmt.Errorf("not a comments permalink: %s", args[0])
	}
	return &types.CommentsRequest{Subreddit: link.Subreddit, PostID: link.PostID, Comment: link.CommentID}, nil
}

func newThreadCmd(opts *globalOptions) *cobra.Command {
	var (
		maxReplies int
		sort       string
		depth      int
	)

	cmd := &cobra.Command{
		Use:   "thread (<subreddit> <post-id> | <permalink>)",
		Short: "Print the full comment tree of a post",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := threadRequest(args)
			if err != nil {
				return err
			}
			req.Sort = types.CommentSort(sort)
			req.Depth = depth

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

			out := cmd.OutOrStdout()
			if thread.Post != nil {
				fmt.Fprintf(out, "%s\n  u/%s | %d points | %d comments\n\n",
					thread.Post.Title, thread.Post.Author, thread.Post.Score, thread.Post.NumComments)
			}
			printReplies(out, replies)
			if n := thread.Orphaned(); n > 0 {
				fmt.Fprintf(out, "\n(%d comments could not be placed)\n", n)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxReplies, "max", 0, "maximum number of top-level replies (0 for all)")
	cmd.Flags().StringVar(&sort, "sort", "", "comment sort: confidence, top, new, controversial, old, qa")
	cmd.Flags().IntVar(&depth, "depth", 0, "maximum depth Reddit should inline (0 for the server default)")
	return cmd
}

// printReplies writes replies depth-first, indenting each level.
func printReplies(w io.Writer, replies []*graw.Reply) {
	it := graw.NewReplyIterator(replies, nil)
	for it.HasNext() {
		r, err := it.Next()
		if err != nil {
			return
		}
		c := r.Comment()
		indent := strings.Repeat("  ", it.Depth())
		fmt.Fprintf(w, "%su/%s (%d)\n", indent, c.Author, c.Score)
		for _, line := range strings.Split(strings.TrimSpace(c.Body), "\n") {
			fmt.Fprintf(w, "%s  %s\n", indent, line)
		}
	}
}
