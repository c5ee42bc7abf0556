// Package remote provides the HTTP client used for all bucket access: the
// paginated listing endpoint, streamed object fetches, and small text objects
// such as checksum siblings. Retry policy and status classification live here
// so the catalog walker and the transfer engine share one discipline.
package remote

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/histbin/bvget/pkg/errors"
)

const (
	// DefaultTimeout bounds a single HTTP attempt, including the body copy.
	DefaultTimeout = 30 * time.Second

	defaultUserAgent  = "bvget/1.0"
	redirectHopLimit  = 10
	textObjectByteCap = 1 << 20 // 1 MiB is plenty for a digest line
)

// Options configures a Client. ListingURL receives the paginated listing
// GETs; DownloadURL receives object GETs at <DownloadURL>/<key>.
type Options struct {
	ListingURL  string
	DownloadURL string
	Timeout     time.Duration
	Proxy       string
	UserAgent   string
}

// Client wraps a resty client bound to the bucket's two endpoints.
type Client struct {
	http        *resty.Client
	listingURL  string
	downloadURL string
}

// New creates a Client from Options, applying defaults for unset fields.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(redirectHopLimit)).
		SetDisableWarn(true)
	if opts.Proxy != "" {
		httpClient.SetProxy(opts.Proxy)
	}

	return &Client{
		http:        httpClient,
		listingURL:  strings.TrimSuffix(opts.ListingURL, "/"),
		downloadURL: strings.TrimSuffix(opts.DownloadURL, "/"),
	}
}

// List issues one listing GET with the given query parameters and returns the
// raw XML body. Pagination is the caller's concern; this is a single page.
func (c *Client) List(ctx context.Context, params map[string]string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(c.listingURL)
	if err != nil {
		return nil, errors.Wrap(err, "listing request failed")
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{Code: resp.StatusCode(), URL: c.listingURL}
	}
	return resp.Body(), nil
}

// FetchFile streams the object at key to w. The response body is never
// buffered in memory, so arbitrarily large archives download in constant
// space.
func (c *Client) FetchFile(ctx context.Context, key string, w io.Writer) error {
	url := c.objectURL(key)
	resp, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return errors.Wrapf(err, "fetch %s failed", key)
	}
	body := resp.RawBody()
	defer func() { _ = body.Close() }()

	if !resp.IsSuccess() {
		return &StatusError{Code: resp.StatusCode(), URL: url}
	}
	if _, err := io.Copy(w, body); err != nil {
		return errors.Wrapf(err, "fetch %s interrupted", key)
	}
	return nil
}

// FetchText fetches a small text object (a checksum sibling) and returns its
// content as a string. Bodies above textObjectByteCap are truncated; digest
// lines are a few dozen bytes.
func (c *Client) FetchText(ctx context.Context, key string) (string, error) {
	var sb strings.Builder
	err := c.FetchFile(ctx, key, &capWriter{w: &sb, remaining: textObjectByteCap})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (c *Client) objectURL(key string) string {
	return fmt.Sprintf("%s/%s", c.downloadURL, strings.TrimPrefix(key, "/"))
}

// capWriter discards bytes beyond its budget instead of failing, which keeps
// FetchText total on any response the server chooses to send.
type capWriter struct {
	w         io.Writer
	remaining int
}

func (cw *capWriter) Write(p []byte) (int, error) {
	n := len(p)
	if cw.remaining <= 0 {
		return n, nil
	}
	if len(p) > cw.remaining {
		p = p[:cw.remaining]
	}
	written, err := cw.w.Write(p)
	cw.remaining -= written
	if err != nil {
		return written, err
	}
	return n, nil
}
