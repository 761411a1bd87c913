package recordstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pazlcollab/internal/platform/config"
	"pazlcollab/pkg/sentinel"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.RecordStoreConfig{
		BaseURL:       srv.URL,
		BaseID:        "base1",
		APIKey:        "key1",
		Table:         "Experts",
		Timeout:       2 * time.Second,
		MaxRetries:    3,
		MinBackoff:    time.Millisecond,
		MaxBackoff:    5 * time.Millisecond,
		RateLimitWait: 10 * time.Millisecond,
	}
	return New(cfg, zap.NewNop(), nil), srv
}

func TestRateLimitHonoursRetryAfter(t *testing.T) {
	var calls int32
	start := time.Now()
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(Record{ID: "rec1"})
	}))

	rec, err := c.Get(context.Background(), "rec1")
	require.NoError(t, err)
	assert.Equal(t, "rec1", rec.ID)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.GreaterOrEqual(t, time.Since(start), time.Second,
		"must wait at least the server-specified interval")
}

func TestRateLimitGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.Get(context.Background(), "rec1")
	assert.ErrorIs(t, err, sentinel.ErrRateLimited)
	assert.EqualValues(t, 4, atomic.LoadInt32(&calls), "initial attempt plus three retries")
}

func TestServerErrorRetriesThenSucceeds(t *testing.T) {
	var calls int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(Record{ID: "rec1"})
	}))

	_, err := c.Get(context.Background(), "rec1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestClientErrorIsPermanent(t *testing.T) {
	var calls int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"INVALID_FILTER_BY_FORMULA"}`))
	}))

	_, err := c.List(context.Background(), ListOptions{Formula: "bogus("})
	require.Error(t, err)
	assert.NotErrorIs(t, err, sentinel.ErrUnavailable)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "4xx must not be retried")
}

func TestListFollowsPagination(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("offset") == "" {
			json.NewEncoder(w).Encode(map[string]any{
				"records": []Record{{ID: "rec1"}, {ID: "rec2"}},
				"offset":  "page2",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"records": []Record{{ID: "rec3"}},
		})
	}))

	recs, err := c.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "rec3", recs[2].ID)
}

func TestRequestCarriesAuth(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(Record{ID: "rec1"})
	}))
	_, err := c.Get(context.Background(), "rec1")
	require.NoError(t, err)
}

func TestContextCancelStopsRetrying(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Get(ctx, "rec1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
