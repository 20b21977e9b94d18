package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testFetcher(t *testing.T, baseURL string) *PageFetcher {
	t.Helper()
	return NewPageFetcher(
		FetcherConfig{
			BaseURL:   baseURL,
			UserAgent: "casescan-test",
			Timeout:   2 * time.Second,
		},
		NewRetryPolicy(3, time.Millisecond, 2*time.Millisecond),
		nil,
	)
}

func TestPageFetcherSuccess(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	var gotPath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotPath.Store(r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(validCasePage))
	}))
	defer srv.Close()

	res := testFetcher(t, srv.URL).Fetch(context.Background(), 97)
	require.Equal(t, "/mal/nr/97/skoda/mal/", gotPath.Load())
	require.Equal(t, OutcomeSuccess, res.Outcome)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, 1, res.Attempts)
	require.Contains(t, string(res.Body), "page-header")
	require.Equal(t, int64(1), hits.Load())
}

func TestPageFetcherNotFoundNoRetry(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	res := testFetcher(t, srv.URL).Fetch(context.Background(), 98)
	require.Equal(t, OutcomeNotFound, res.Outcome)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	require.Equal(t, 1, res.Attempts)
	require.Equal(t, int64(1), hits.Load())
}

func TestPageFetcherPermanentNoRetry(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	res := testFetcher(t, srv.URL).Fetch(context.Background(), 99)
	require.Equal(t, OutcomePermanent, res.Outcome)
	require.Equal(t, http.StatusForbidden, res.StatusCode)
	require.Equal(t, 1, res.Attempts)
	require.Equal(t, int64(1), hits.Load())
}

func TestPageFetcherRecoversAfterTransientFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) <= 2 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(validCasePage))
	}))
	defer srv.Close()

	res := testFetcher(t, srv.URL).Fetch(context.Background(), 96)
	require.Equal(t, OutcomeSuccess, res.Outcome)
	require.Equal(t, 3, res.Attempts)
	require.Equal(t, int64(3), hits.Load())
}

func TestPageFetcherExhaustsRetries(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	res := testFetcher(t, srv.URL).Fetch(context.Background(), 95)
	require.Equal(t, OutcomeTransient, res.Outcome)
	require.Equal(t, 3, res.Attempts)
	require.Equal(t, int64(3), hits.Load())
}

func TestPageFetcherTooManyRequestsRetries(t *testing.T) {
	t.Parallel()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(validCasePage))
	}))
	defer srv.Close()

	res := testFetcher(t, srv.URL).Fetch(context.Background(), 94)
	require.Equal(t, OutcomeSuccess, res.Outcome)
	require.Equal(t, 2, res.Attempts)
}

func TestPageFetcherContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := testFetcher(t, srv.URL).Fetch(ctx, 93)
	require.Equal(t, OutcomeTransient, res.Outcome)
}
