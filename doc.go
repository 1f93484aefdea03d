// Package graw provides lazy access to Reddit's paginated, tree-shaped API
// with OAuth2 authentication.
//
// # Overview
//
// Reddit delivers content in pages and comment threads in pieces: the first
// response carries part of the tree and "more" placeholders stand in for the
// rest. graw hides both. A Listing walks a paginated endpoint one item at a
// time and fetches the next page only when the buffered items run out. A
// Thread hands out the top-level replies of a post and expands placeholders
// on demand, attaching every comment under its parent however the API
// happens to deliver it.
//
// # Features
//
//   - OAuth2 authentication with automatic token refresh and revocation
//   - Typed errors that separate transport, API and parse failures
//   - Built-in rate limiting that honours Reddit's rate-limit headers
//   - Structured logging via Go's slog package and Prometheus metrics
//   - Lazy listings and lazily assembled comment threads
//   - Write actions (vote, reply, edit, moderate, message) on the things
//     that support them
//
// # Quick Start
//
//	client, err := graw.NewClient(&graw.Config{
//		ClientID:     "your-client-id",
//		ClientSecret: "your-client-secret",
//		UserAgent:    "myapp/1.0 by /u/yourusername",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close(ctx)
//
// # Connection Lifecycle
//
// NewClient only validates the configuration. The first API call (or an
// explicit Connect) obtains an access token; a failed attempt is retried on
// the next call. Close revokes the token.
//
// # Authentication Types
//
// Application-Only Authentication (script apps):
//   - Requires only ClientID and ClientSecret
//   - Good for read-only operations and public data
//
// User Authentication:
//   - Requires ClientID, ClientSecret, Username, and Password
//   - Required for Me, the inbox and write actions
//
// # Listings
//
//	hot, err := client.Hot("golang", &types.ListingOptions{Pagination: types.Pagination{Limit: 50}})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for post, err := range hot.All(ctx) {
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Printf("%s (score: %d)\n", post.Title, post.Score)
//	}
//
// Next returns errors.ErrExhausted at the end of a listing. Limit is clamped
// to Reddit's maximum of 100 per page; After and Before anchor the listing
// and cannot be combined. Reset starts over from the anchor.
//
// # Threads
//
//	thread, err := client.Comments(ctx, &types.CommentsRequest{Subreddit: "golang", PostID: "abc123"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	replies, err := thread.Collect(ctx, 10)
//	if err != nil {
//		log.Fatal(err)
//	}
//	tree := graw.NewReplyTree(replies)
//	fmt.Printf("%d comments, %d levels deep\n", tree.Count(), tree.GetDepth()+1)
//
// Each top-level reply comes with the descendants known so far. Collecting
// everything (max <= 0) expands every placeholder. Replies narrows a thread
// to the replies of one comment.
//
// # Error Handling
//
// Errors are defined in package errors and are matched with errors.As:
//
//	var apiErr *errors.APIError
//	switch {
//	case errors.Is(err, errors.ErrExhausted):
//		// normal end of a listing or thread
//	case errors.As(err, &apiErr) && apiErr.Retryable():
//		// 429 or 5xx, try again later
//	case errors.IsRetryable(err):
//		// transport failure
//	}
//
// A failed fetch leaves a Listing or Thread unchanged, so calling Next again
// retries it.
//
// # Logging
//
// Enable debug logging by providing a logger in the config:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//		Level: slog.LevelDebug,
//	}))
//
//	config := &graw.Config{
//		// ... other config ...
//		Logger: logger,
//	}
//
// # Reddit API Documentation
//
// For detailed information about Reddit's API endpoints, parameters, and responses,
// refer to Reddit's official API documentation at https://www.reddit.com/dev/api/.
package graw
