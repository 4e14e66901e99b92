package restcountries

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/joefazee/findcountry/internal/logger"
	"github.com/joefazee/findcountry/models"
)

// listFields keeps the /all payload to what the list view reads.
const listFields = "name,cca2,cca3,capital,region,area,population,languages,currencies,flags"

// DataSource is the remote side of the country browser.
type DataSource interface {
	FetchAll(ctx context.Context) ([]Record, error)
	FetchByName(ctx context.Context, name string) ([]Record, error)
}

// Client talks to a restcountries v3.1 compatible API.
type Client struct {
	cfg     Config
	http    *http.Client
	logger  logger.Logger
	enabled atomic.Bool
}

var _ DataSource = (*Client)(nil)

// NewClient creates a client. A nil httpClient gets a plain http.Client; the
// per-attempt deadline comes from cfg.Timeout, not from the http.Client.
func NewClient(cfg Config, httpClient *http.Client, log logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = logger.NewNullLogger()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	c := &Client{cfg: cfg, http: httpClient, logger: log}
	c.enabled.Store(cfg.Enabled)
	return c
}

// SetNetworkAccess grants or revokes network access at runtime.
func (c *Client) SetNetworkAccess(granted bool) {
	c.enabled.Store(granted)
}

// NetworkAccess reports whether fetches may reach the network.
func (c *Client) NetworkAccess() bool {
	return c.enabled.Load()
}

// FetchAll returns every country from /v3.1/all.
func (c *Client) FetchAll(ctx context.Context) ([]Record, error) {
	body, err := c.get(ctx, "/v3.1/all", url.Values{"fields": {listFields}})
	if err != nil {
		return nil, err
	}
	records, err := ParseRecords(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrNetwork, err)
	}
	c.logger.Info("countries fetched", map[string]interface{}{"count": len(records)})
	return records, nil
}

// FetchByName returns the countries matching name from /v3.1/name/{name}.
func (c *Client) FetchByName(ctx context.Context, name string) ([]Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrInvalidCountryName
	}
	body, err := c.get(ctx, "/v3.1/name/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, err
	}
	records, err := ParseRecords(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrNetwork, err)
	}
	if len(records) == 0 {
		return nil, models.ErrCountryNotFound
	}
	return records, nil
}

// statusError is a non-2xx reply.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if !c.NetworkAccess() {
		return nil, models.ErrPermissionDenied
	}

	endpoint := c.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var (
		body    []byte
		attempt int
		timeout = c.cfg.Timeout
	)

	operation := func() error {
		attempt++
		c.logger.Debug("requesting countries", map[string]interface{}{
			"url": endpoint, "attempt": attempt, "timeout": timeout.String(),
		})

		b, err := c.do(ctx, endpoint, timeout)
		if err == nil {
			body = b
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if !isTimeout(err) {
			return backoff.Permanent(err)
		}
		// each retry waits longer for the server, like the attempt before it
		timeout += time.Duration(float64(timeout) * c.cfg.BackoffMultiplier)
		return err
	}

	err := backoff.Retry(operation, c.policy(ctx))
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			return nil, models.ErrCountryNotFound
		}
		return nil, fmt.Errorf("%w: GET %s after %d attempt(s): %w", models.ErrNetwork, path, attempt, err)
	}
	return body, nil
}

func (c *Client) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.InitialBackoff
	b.RandomizationFactor = 0
	if c.cfg.BackoffMultiplier > 0 {
		b.Multiplier = c.cfg.BackoffMultiplier
	}
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.cfg.MaxRetries)), ctx)
}

func (c *Client) do(ctx context.Context, endpoint string, timeout time.Duration) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &statusError{code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
