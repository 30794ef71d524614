// Package holiday loads public holidays from external sources and normalizes
// them into domain.Holiday records. Nothing here persists; the holiday
// service decides what to store.
package holiday

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/logging"
	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

// DefaultAPIURL is the public-data holiday endpoint (getRestDeInfo).
const DefaultAPIURL = "https://apis.data.go.kr/B090041/openapi/service/SpcdeInfoService/getRestDeInfo"

const (
	pageSize       = 100
	resultCodeOK   = "00"
	defaultRetries = 3
)

// APIError is a non-success result reported inside an otherwise valid
// response body.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("holiday API error %s: %s", e.Code, e.Message)
}

// Fetcher returns the holidays of one calendar year.
type Fetcher interface {
	FetchYear(ctx context.Context, year int) ([]domain.Holiday, error)
}

// APIClient queries the holiday open-data API.
type APIClient struct {
	baseURL    string
	serviceKey string
	http       *retryablehttp.Client
}

type APIClientOption func(*APIClient)

// WithLogger routes retry logging through l.
func WithLogger(l *slog.Logger) APIClientOption {
	return func(c *APIClient) {
		c.http.Logger = logging.HTTPLogger(l, "holiday-api")
	}
}

// WithRetryMax overrides the retry count.
func WithRetryMax(n int) APIClientOption {
	return func(c *APIClient) {
		c.http.RetryMax = n
	}
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) APIClientOption {
	return func(c *APIClient) {
		c.http.HTTPClient = hc
	}
}

func NewAPIClient(baseURL, serviceKey string, opts ...APIClientOption) *APIClient {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = defaultRetries
	rc.Logger = logging.HTTPLogger(nil, "holiday-api")

	c := &APIClient{baseURL: baseURL, serviceKey: serviceKey, http: rc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchYear pages through every holiday of year.
func (c *APIClient) FetchYear(ctx context.Context, year int) ([]domain.Holiday, error) {
	if c.serviceKey == "" {
		return nil, fmt.Errorf("holiday API service key is not configured")
	}

	var all []domain.Holiday
	for page := 1; ; page++ {
		body, err := c.get(ctx, year, page)
		if err != nil {
			return nil, err
		}
		resp, err := ParseResponse(body)
		if err != nil {
			return nil, fmt.Errorf("parsing holidays for %d page %d: %w", year, page, err)
		}
		all = append(all, resp.Holidays...)
		if len(resp.Holidays) == 0 || page*pageSize >= resp.TotalCount {
			break
		}
	}
	return all, nil
}

func (c *APIClient) get(ctx context.Context, year, page int) ([]byte, error) {
	q := url.Values{}
	q.Set("solYear", strconv.Itoa(year))
	q.Set("numOfRows", strconv.Itoa(pageSize))
	q.Set("pageNo", strconv.Itoa(page))
	// Portal keys are often issued pre-encoded; avoid double-escaping them.
	rawURL := c.baseURL + "?" + q.Encode() + "&ServiceKey=" + escapeKey(c.serviceKey)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building holiday request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching holidays for %d: %w", year, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading holiday response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday API returned HTTP %d", resp.StatusCode)
	}
	return body, nil
}

func escapeKey(key string) string {
	if strings.Contains(key, "%") {
		return key
	}
	return url.QueryEscape(key)
}

// Response is one decoded API page.
type Response struct {
	Holidays   []domain.Holiday
	TotalCount int
}

// ParseResponse decodes an API XML body. Items flagged isHoliday=N are
// skipped; items without the flag are kept.
func ParseResponse(body []byte) (*Response, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("invalid XML: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("empty document")
	}

	// Gateway-level failures use a different envelope.
	if hdr := doc.FindElement("//cmmMsgHeader"); hdr != nil {
		return nil, &APIError{
			Code:    childText(hdr, "returnReasonCode"),
			Message: strings.TrimSpace(childText(hdr, "errMsg") + " " + childText(hdr, "returnAuthMsg")),
		}
	}

	code := doc.FindElement("//header/resultCode")
	if code == nil {
		return nil, fmt.Errorf("missing resultCode")
	}
	if c := strings.TrimSpace(code.Text()); c != resultCodeOK {
		msg := ""
		if m := doc.FindElement("//header/resultMsg"); m != nil {
			msg = strings.TrimSpace(m.Text())
		}
		return nil, &APIError{Code: c, Message: msg}
	}

	out := &Response{}
	if tc := doc.FindElement("//body/totalCount"); tc != nil {
		n, err := strconv.Atoi(strings.TrimSpace(tc.Text()))
		if err != nil {
			return nil, fmt.Errorf("invalid totalCount %q", tc.Text())
		}
		out.TotalCount = n
	}

	for _, item := range doc.FindElements("//items/item") {
		if strings.EqualFold(childText(item, "isHoliday"), "N") {
			continue
		}
		d, err := domain.ParseDate(childText(item, "locdate"))
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", childText(item, "dateName"), err)
		}
		out.Holidays = append(out.Holidays, domain.Holiday{
			ID:   uuid.NewString(),
			Date: d,
			Name: childText(item, "dateName"),
		})
	}
	return out, nil
}

func childText(el *etree.Element, tag string) string {
	if c := el.SelectElement(tag); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}
