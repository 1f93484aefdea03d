package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesprial/graw/pkg/types"
)

func newInboxCmd(opts *globalOptions) *cobra.Command {
	var (
		unread bool
		count  int
		mark   bool
	)

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Print messages from the authenticated user's inbox",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient()
			if err != nil {
				return err
			}

			listOpts := &types.ListingOptions{Pagination: types.Pagination{Limit: count}}
			list := client.Inbox
			if unread {
				list = client.Unread
			}
			listing, err := list(listOpts)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			msgs, err := listing.Collect(ctx, count)
			if err != nil {
				return fmt.Errorf("fetch inbox: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, m := range msgs {
				flag := " "
				if m.New {
					flag = "*"
				}
				fmt.Fprintf(out, "%s %s  u/%s: %s\n", flag, m.Fullname(), m.Author, m.Subject)
			}

			if mark && len(msgs) > 0 {
				if err := client.MarkRead(ctx, msgs...); err != nil {
					return fmt.Errorf("mark read: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unread, "unread", false, "only unread messages")
	cmd.Flags().IntVar(&count, "count", types.DefaultListingLimit, "number of messages to print")
	cmd.Flags().BoolVar(&mark, "mark-read", false, "mark the printed messages as read")
	return cmd
}
