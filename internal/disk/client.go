package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/time/rate"
)

const (
	TypeFile = "file"
	TypeDir  = "dir"

	// Only the fields the index needs are requested from the API.
	listFields = "_embedded.items.name,_embedded.items.path,_embedded.items.type"

	// A full listing of LIST_LIMIT items fits well within this.
	maxResponseBytes = 8 << 20
)

// ErrNoLink is returned when the download endpoint answers without an href.
var ErrNoLink = errors.New("download link missing from response")

// Resource is a single item of a folder listing.
type Resource struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Type      string `json:"type"`
	MediaType string `json:"media_type,omitempty"`
}

type resourceList struct {
	Embedded struct {
		Items []Resource `json:"items"`
		Limit int        `json:"limit"`
		Total int        `json:"total"`
	} `json:"_embedded"`
}

// Link is the body of the download endpoint.
type Link struct {
	Href      string `json:"href"`
	Method    string `json:"method"`
	Templated bool   `json:"templated"`
}

// Client talks to the Yandex Disk REST API with a static OAuth token.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	maxBody int64
	http    *http.Client
	limiter *rate.Limiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithRateLimit throttles outbound requests to rps per second.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64) ClientOption {
	return func(cl *Client) {
		if rps <= 0 {
			cl.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		cl.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a Disk client. timeout bounds every request.
func NewClient(baseURL, token string, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		timeout: timeout,
		maxBody: maxResponseBytes,
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListFolder returns up to limit entries of the folder at path.
func (c *Client) ListFolder(ctx context.Context, path string, limit int) ([]Resource, error) {
	q := url.Values{}
	q.Set("path", path)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("fields", listFields)

	var list resourceList
	if err := c.get(ctx, "list", "/resources", q, &list); err != nil {
		return nil, err
	}
	return list.Embedded.Items, nil
}

// DownloadLink resolves path into a direct, time-limited download URL.
func (c *Client) DownloadLink(ctx context.Context, path string) (string, error) {
	q := url.Values{}
	q.Set("path", path)

	var link Link
	if err := c.get(ctx, "download", "/resources/download", q, &link); err != nil {
		return "", err
	}
	if link.Href == "" {
		return "", ErrNoLink
	}
	return link.Href, nil
}

func (c *Client) get(ctx context.Context, op, endpoint string, query url.Values, out any) error {
	// The deadline covers the limiter wait as well as the request itself.
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("disk %s: rate limiter: %w", op, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("disk %s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("disk %s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return fmt.Errorf("disk %s: read body: %w", op, err)
	}
	if int64(len(body)) > c.maxBody {
		return fmt.Errorf("disk %s: response exceeds %d bytes", op, c.maxBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Op: op, StatusCode: resp.StatusCode}
		// Error bodies are best effort, the status alone is enough
		_ = sonic.Unmarshal(body, apiErr)
		return apiErr
	}

	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("disk %s: decode response: %w", op, err)
	}
	return nil
}
