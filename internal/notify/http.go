// Package notify turns a calculated schedule into outbound messages: JIRA
// issue payloads, Slack posts and plain-text email bodies. Each client sends
// one request per message and never updates what it sent before.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/logging"
	"github.com/hashicorp/go-retryablehttp"
)

const stampLayout = "01/02(Mon) 15:04"

type ClientOption func(*retryablehttp.Client)

// WithLogger routes retry logging through l.
func WithLogger(l *slog.Logger, component string) ClientOption {
	return func(c *retryablehttp.Client) {
		c.Logger = logging.HTTPLogger(l, component)
	}
}

// WithRetryMax overrides the retry count.
func WithRetryMax(n int) ClientOption {
	return func(c *retryablehttp.Client) {
		c.RetryMax = n
	}
}

// WithRetryWait bounds the backoff between attempts.
func WithRetryWait(min, max time.Duration) ClientOption {
	return func(c *retryablehttp.Client) {
		c.RetryWaitMin = min
		c.RetryWaitMax = max
	}
}

func newRetryClient(component string, opts []ClientOption) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = logging.HTTPLogger(nil, component)
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

// postJSON sends body as JSON and returns the response payload. Non-2xx
// statuses come back as errors carrying the payload.
func postJSON(ctx context.Context, c *retryablehttp.Client, url string, body any, decorate func(*retryablehttp.Request)) ([]byte, int, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("encoding request: %w", err)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if decorate != nil {
		decorate(req)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	return payload, resp.StatusCode, nil
}

func formatSpan(e *domain.ScheduleEntry) string {
	return e.Start.Format(stampLayout) + " ~ " + e.End.Format(stampLayout)
}

// selectTables returns tables, or every table when none are named.
func selectTables(tables []domain.TableID) []domain.TableID {
	if len(tables) == 0 {
		return domain.AllTables
	}
	return tables
}
