// Package portalclient consumes the gateway's listing endpoints on behalf of
// a portal front end.
package portalclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/yourorg/listings-gateway/listing"
	"github.com/yourorg/listings-gateway/upstream"
)

const maxResponseBody = 8 << 20

type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	RetryMax   int
}

type Client struct {
	base string
	http *retryablehttp.Client
}

func New(baseURL string, opts Options) *Client {
	rc := retryablehttp.NewClient()
	if opts.HTTPClient != nil {
		rc.HTTPClient = opts.HTTPClient
	}
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	}
	rc.RetryMax = opts.RetryMax
	rc.Logger = nil
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return &Client{base: strings.TrimRight(baseURL, "/"), http: rc}
}

// Result is one search response. Sequence is the gateway's fetch sequence.
type Result struct {
	Page     listing.Page
	Sequence int64
	Fallback bool
}

// APIError is a non-2xx gateway response.
type APIError struct {
	StatusCode int
	Code       string
	Detail     string
	Missing    []string
	Body       []byte
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("gateway %d", e.StatusCode)
	if e.Code != "" {
		msg += ": " + e.Code
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Search calls /listings/sale with f.
func (c *Client) Search(ctx context.Context, f upstream.ListingFilter) (Result, error) {
	target := c.base + "/listings/sale"
	if q := f.Values().Encode(); q != "" {
		target += "?" + q
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Result{}, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("search listings: %w", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return Result{}, fmt.Errorf("read search response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, decodeAPIError(resp.StatusCode, b)
	}

	var out struct {
		listing.Page
		Sequence int64 `json:"sequence"`
		Fallback bool  `json:"fallback"`
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return Result{}, fmt.Errorf("decode search response: %w", err)
	}
	if out.Sequence == 0 {
		out.Sequence, _ = strconv.ParseInt(resp.Header.Get("X-Fetch-Sequence"), 10, 64)
	}
	return Result{Page: out.Page, Sequence: out.Sequence, Fallback: out.Fallback}, nil
}

func decodeAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: body}
	var env struct {
		Error   string   `json:"error"`
		Detail  string   `json:"detail"`
		Missing []string `json:"missing"`
	}
	if json.Unmarshal(body, &env) == nil {
		e.Code, e.Detail, e.Missing = env.Error, env.Detail, env.Missing
	}
	return e
}
