package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesprial/graw"
	"github.com/jamesprial/graw/pkg/types"
)

const maxSeenPosts = 1000

// postWatcher remembers which posts have already been reported.
type postWatcher struct {
	seen  map[string]struct{}
	order []string
}

func newPostWatcher() *postWatcher {
	return &postWatcher{seen: make(map[string]struct{})}
}

// fresh returns the posts not reported before, oldest first. posts is in
// listing order, newest first.
func (w *postWatcher) fresh(posts []*types.Post) []*types.Post {
	var out []*types.Post
	for i := len(posts) - 1; i >= 0; i-- {
		p := posts[i]
		if p == nil {
			continue
		}
		id := p.Fullname()
		if _, ok := w.seen[id]; ok {
			continue
		}
		w.seen[id] = struct{}{}
		w.order = append(w.order, id)
		out = append(out, p)
	}

	for len(w.order) > maxSeenPosts {
		delete(w.seen, w.order[0])
		w.order = w.order[1:]
	}
	return out
}

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var (
		interval time.Duration
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "watch <subreddit>",
		Short: "Poll a subreddit and print new posts as they appear",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			defer client.Close(context.WithoutCancel(ctx))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching r/%s every %s (Ctrl+C to stop)\n", args[0], interval)
			return watch(ctx, client, args[0], limit, interval, out, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "time between polls")
	cmd.Flags().IntVar(&limit, "limit", 10, "posts fetched per poll")
	return cmd
}

func watch(ctx context.Context, client *graw.Client, subreddit string, limit int, interval time.Duration, out, errOut io.Writer) error {
	watcher := newPostWatcher()
	poll := func() error {
		listing, err := client.New(subreddit, &types.ListingOptions{Pagination: types.Pagination{Limit: limit}})
		if err != nil {
			return err
		}
		posts, err := listing.Collect(ctx, limit)
		if err != nil {
			return err
		}
		for _, p := range watcher.fresh(posts) {
			fmt.Fprintf(out, "[%s] %s\n    u/%s | https://reddit.com%s\n", time.Now().Format("15:04:05"), p.Title, p.Author, p.Permalink)
		}
		return nil
	}

	if err := poll(); err != nil {
		return fmt.Errorf("initial fetch: %w", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := poll(); err != nil && ctx.Err() == nil {
				fmt.Fprintf(errOut, "poll failed: %v\n", err)
			}
		}
	}
}
