package restcountries

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/findcountry/internal/logger"
	"github.com/joefazee/findcountry/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*Config)) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := Config{
		BaseURL:           srv.URL + "/",
		Timeout:           time.Second,
		MaxRetries:        1,
		BackoffMultiplier: 1.0,
		Enabled:           true,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg, srv.Client(), logger.NewNullLogger()), &calls
}

func TestClient_FetchAll(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v3.1/all", r.URL.Path)
			assert.Contains(t, r.URL.Query().Get("fields"), "cca3")
			fmt.Fprint(w, `[{"name":{"common":"France"},"area":551695,"population":67000000},`+
				`{"name":{"common":"Fiji"},"area":18274,"population":896444}]`)
		}, nil)

		records, err := client.FetchAll(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "France", records[0].Name())
		assert.Equal(t, "Fiji", records[1].Name())
		assert.EqualValues(t, 1, atomic.LoadInt32(calls))
	})

	t.Run("Empty Array", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `[]`)
		}, nil)

		records, err := client.FetchAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Not An Array", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"message":"bad"}`)
		}, nil)

		_, err := client.FetchAll(context.Background())
		assert.ErrorIs(t, err, models.ErrNetwork)
	})

	t.Run("Server Error Is Not Retried", func(t *testing.T) {
		client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, nil)

		_, err := client.FetchAll(context.Background())
		assert.ErrorIs(t, err, models.ErrNetwork)
		assert.EqualValues(t, 1, atomic.LoadInt32(calls))
	})

	t.Run("Timeout Is Retried", func(t *testing.T) {
		var n int32
		client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&n, 1) == 1 {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
				return
			}
			fmt.Fprint(w, `[{"name":{"common":"Fiji"}}]`)
		}, func(c *Config) {
			c.Timeout = 50 * time.Millisecond
		})

		records, err := client.FetchAll(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.EqualValues(t, 2, atomic.LoadInt32(calls))
	})

	t.Run("Timeout Exhausts Retries", func(t *testing.T) {
		client, calls := newTestClient(t, func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}, func(c *Config) {
			c.Timeout = 20 * time.Millisecond
			c.MaxRetries = 2
		})

		_, err := client.FetchAll(context.Background())
		assert.ErrorIs(t, err, models.ErrNetwork)
		assert.EqualValues(t, 3, atomic.LoadInt32(calls))
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `[]`)
		}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.FetchAll(ctx)
		assert.ErrorIs(t, err, models.ErrNetwork)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Permission Denied", func(t *testing.T) {
		client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `[]`)
		}, func(c *Config) {
			c.Enabled = false
		})

		_, err := client.FetchAll(context.Background())
		assert.ErrorIs(t, err, models.ErrPermissionDenied)
		assert.EqualValues(t, 0, atomic.LoadInt32(calls))

		client.SetNetworkAccess(true)
		_, err = client.FetchAll(context.Background())
		assert.NoError(t, err)
		assert.EqualValues(t, 1, atomic.LoadInt32(calls))
	})
}

func TestClient_FailuresAreLeftToTheCaller(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	cfg := *GetDefaultConfig()
	cfg.BaseURL = srv.URL
	client := NewClient(cfg, srv.Client(), logger.NewZeroLogger(&buf, logger.LevelError, nil))

	_, err := client.FetchAll(context.Background())
	require.ErrorIs(t, err, models.ErrNetwork)
	assert.Contains(t, err.Error(), "after 1 attempt(s)")

	client.SetNetworkAccess(false)
	_, err = client.FetchByName(context.Background(), "Fiji")
	require.ErrorIs(t, err, models.ErrPermissionDenied)

	assert.Empty(t, buf.String())
}

func TestClient_FetchByName(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v3.1/name/United%20Kingdom", r.URL.EscapedPath())
			fmt.Fprint(w, `[{"name":{"common":"United Kingdom","official":"United Kingdom of Great Britain and Northern Ireland"}}]`)
		}, nil)

		records, err := client.FetchByName(context.Background(), " United Kingdom ")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "United Kingdom of Great Britain and Northern Ireland", records[0].OfficialName())
	})

	t.Run("Not Found", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"status":404,"message":"Not Found"}`)
		}, nil)

		_, err := client.FetchByName(context.Background(), "Atlantis")
		assert.ErrorIs(t, err, models.ErrCountryNotFound)
	})

	t.Run("Empty Result", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `[]`)
		}, nil)

		_, err := client.FetchByName(context.Background(), "Atlantis")
		assert.ErrorIs(t, err, models.ErrCountryNotFound)
	})

	t.Run("Blank Name", func(t *testing.T) {
		client, calls := newTestClient(t, func(http.ResponseWriter, *http.Request) {}, nil)

		_, err := client.FetchByName(context.Background(), "  ")
		assert.ErrorIs(t, err, models.ErrInvalidCountryName)
		assert.EqualValues(t, 0, atomic.LoadInt32(calls))
	})
}
