package driveapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"
)

// Retry policy constants: base 1s, factor 2x, max 60s, +/-25% jitter, 5 retries.
const (
	maxRetries     = 5
	baseBackoff    = 1 * time.Second
	maxBackoff     = 60 * time.Second
	backoffFactor  = 2.0
	jitterFraction = 0.25
	userAgent      = "driveindex/0.1"
)

// TokenSource provides OAuth2 bearer tokens. Credential acquisition is an
// external collaborator (spec non-goal); callers inject their own
// implementation. Defined at the consumer per "accept interfaces, return
// structs".
type TokenSource interface {
	Token() (string, error)
}

// Client is the remote adapter of spec.md §4.1: typed calls to the five
// required endpoints, with retry and error classification. It never
// retries silently beyond the fixed policy below, and never retries at all
// from the caller's perspective — once do returns, the result is final.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	logger     *slog.Logger

	sleepFunc func(ctx context.Context, d time.Duration) error
}

// NewClient creates a remote adapter client. baseURL is the API root, e.g.
// "https://www.googleapis.com/drive/v3".
func NewClient(baseURL string, httpClient *http.Client, token TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		token:      token,
		logger:     logger,
		sleepFunc:  timeSleep,
	}
}

// do executes an authenticated GET against path with the given query values
// already encoded, retrying transient failures per the fixed backoff policy.
// Callers must close the response body on success.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	url := c.baseURL + path

	var attempt int

	for {
		resp, err := c.doOnce(ctx, method, url, body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: request canceled: %s", ErrNetwork, ctx.Err())
			}

			if errors.Is(err, ErrAuth) {
				return nil, err
			}

			if attempt < maxRetries {
				c.waitBackoff(ctx, attempt, "network error", err.Error())
				attempt++

				continue
			}

			return nil, fmt.Errorf("%w: %s %s failed after %d retries: %s", ErrNetwork, method, path, maxRetries, err)
		}

		if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
			return resp, nil
		}

		errBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if readErr != nil {
			errBody = []byte("(failed to read response body)")
		}

		if isRetryable(resp.StatusCode) && attempt < maxRetries {
			backoff := c.retryBackoff(resp, attempt)
			c.logger.Warn("retrying after HTTP error",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)

			if sleepErr := c.sleepFunc(ctx, backoff); sleepErr != nil {
				return nil, fmt.Errorf("%w: request canceled: %s", ErrNetwork, sleepErr)
			}

			attempt++

			continue
		}

		return nil, &RemoteError{
			StatusCode: resp.StatusCode,
			Message:    string(errBody),
			Err:        classifyStatus(resp.StatusCode),
		}
	}
}

func (c *Client) waitBackoff(ctx context.Context, attempt int, reason, detail string) {
	backoff := c.calcBackoff(attempt)
	c.logger.Warn("retrying after "+reason,
		slog.Int("attempt", attempt+1),
		slog.Duration("backoff", backoff),
		slog.String("error", detail),
	)

	_ = c.sleepFunc(ctx, backoff)
}

func (c *Client) doOnce(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	tok, err := c.token.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: obtaining token: %s", ErrAuth, err)
	}

	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("User-Agent", userAgent)

	return c.httpClient.Do(req)
}

// retryBackoff honors Retry-After on 429 responses; otherwise computes the
// standard exponential backoff.
func (c *Client) retryBackoff(resp *http.Response, attempt int) time.Duration {
	if resp.StatusCode == http.StatusTooManyRequests {
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if seconds, err := strconv.Atoi(ra); err == nil && seconds > 0 {
				return time.Duration(seconds) * time.Second
			}
		}
	}

	return c.calcBackoff(attempt)
}

// calcBackoff computes exponential backoff with +/-25% jitter, capped at maxBackoff.
func (c *Client) calcBackoff(attempt int) time.Duration {
	backoff := float64(baseBackoff) * math.Pow(backoffFactor, float64(attempt))
	if backoff > float64(maxBackoff) {
		backoff = float64(maxBackoff)
	}

	jitter := backoff * jitterFraction * (rand.Float64()*2 - 1)

	return time.Duration(backoff + jitter)
}

func timeSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
