package internal

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func benchServer(b *testing.B, body []byte) *httptest.Server {
	b.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Ratelimit-Remaining", "60")
		w.Header().Set("X-Ratelimit-Reset", "3600")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}))
	b.Cleanup(server.Close)
	return server
}

func benchmarkGet(b *testing.B, body []byte, logger *slog.Logger) {
	server := benchServer(b, body)
	tokenProvider := &mockTokenProvider{token: "test-token"}
	client, _ := NewClient(http.DefaultClient, tokenProvider, server.URL, "bench/1.0",
		&RateLimitConfig{RequestsPerMinute: 1e9, Burst: 1 << 20}, logger)

	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := client.Get(ctx, "api/v1/me", nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkClient_Get_WithLogging(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
	benchmarkGet(b, []byte(`{"kind":"t2","data":{"name":"test","id":"123"}}`), logger)
}

func BenchmarkClient_Get_WithLoggingDebug(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
	benchmarkGet(b, bytes.Repeat([]byte(`{"kind":"Listing","data":{"children":[]}}`), 100), logger)
}

func BenchmarkClient_Get_WithoutLogging(b *testing.B) {
	benchmarkGet(b, []byte(`{"kind":"t2","data":{"name":"test","id":"123"}}`), nil)
}
