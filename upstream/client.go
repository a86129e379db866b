package upstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/yourorg/listings-gateway/internal/credentials"
	"github.com/yourorg/listings-gateway/internal/events"
)

// Mode selects how a request reaches the provider.
type Mode string

const (
	// ModeDirect calls the provider with injected credentials.
	ModeDirect Mode = "direct"
	// ModeRelay forwards through the relay tier, which holds its own credentials.
	ModeRelay Mode = "relay"
)

const defaultMaxBody = 4 << 20

var errPayloadTooLarge = errors.New("payload too large")

type Options struct {
	Timeout    time.Duration // 0 leaves the call bounded only by ctx
	RetryMax   int
	RatePerSec float64 // 0 disables pacing
	MaxBody    int64
	HTTPClient *http.Client
	Logger     *zap.Logger
	Publisher  events.Publisher
}

type Client struct {
	http    *retryablehttp.Client
	limiter *rate.Limiter
	maxBody int64
	log     *zap.Logger
	pub     events.Publisher
}

func NewClient(opts Options) *Client {
	rc := retryablehttp.NewClient()
	if opts.HTTPClient != nil {
		rc.HTTPClient = opts.HTTPClient
	}
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = opts.RetryMax
	rc.HTTPClient.Timeout = opts.Timeout
	rc.Logger = nil
	// Hand back the last response instead of a "giving up" error so non-2xx
	// bodies reach the caller.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		http:    rc,
		maxBody: opts.MaxBody,
		log:     opts.Logger,
		pub:     opts.Publisher,
	}
	if c.maxBody <= 0 {
		c.maxBody = defaultMaxBody
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if opts.RatePerSec > 0 {
		burst := int(opts.RatePerSec)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), burst)
	}
	return c
}

type Request struct {
	Mode    Mode
	BaseURL string
	Path    string
	Query   url.Values
	Method  string
	Header  http.Header
	Body    []byte
	// Credentials are injected in ModeDirect only.
	Credentials credentials.Credentials
}

type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) ContentType() string { return r.Header.Get("Content-Type") }

// Direct issues a GET against the provider with the bearer token and API key.
func (c *Client) Direct(ctx context.Context, creds credentials.Credentials, path string, query url.Values) (*Response, error) {
	return c.Dispatch(ctx, Request{
		Mode:        ModeDirect,
		BaseURL:     creds.BaseURL,
		Path:        path,
		Query:       query,
		Method:      http.MethodGet,
		Credentials: creds,
	})
}

// Dispatch performs one upstream round trip. Transport failures come back as
// *UnreachableError and non-2xx responses as *StatusError.
func (c *Client) Dispatch(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	mode := req.Mode
	if mode == "" {
		mode = ModeDirect
	}
	target, err := buildURL(req.BaseURL, req.Path, req.Query)
	if err != nil {
		return nil, err
	}
	shown := redactURL(target)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &UnreachableError{URL: shown, Err: err}
		}
	}

	var body any
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	hreq, err := retryablehttp.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	switch mode {
	case ModeRelay:
		copyForwardHeaders(hreq.Header, req.Header)
	default:
		for k, vs := range req.Header {
			hreq.Header[k] = append([]string(nil), vs...)
		}
		hreq.Header.Set("Accept", "application/json")
		hreq.Header.Set("Authorization", "Bearer "+req.Credentials.Token)
		hreq.Header.Set("x-api-key", req.Credentials.APIKey)
	}

	rec := events.DispatchRecorded{
		ID:     uuid.NewString(),
		Mode:   string(mode),
		Method: method,
		URL:    shown,
		At:     time.Now(),
	}
	resp, err := c.http.Do(hreq)
	if err != nil {
		rec.Duration = time.Since(rec.At)
		rec.Error = err.Error()
		c.record(ctx, rec)
		return nil, &UnreachableError{URL: shown, Err: err}
	}
	defer resp.Body.Close()

	b, err := readAllLimit(resp.Body, c.maxBody)
	rec.StatusCode = resp.StatusCode
	rec.Duration = time.Since(rec.At)
	if err != nil {
		rec.Error = err.Error()
		c.record(ctx, rec)
		return nil, &UnreachableError{URL: shown, Err: err}
	}
	c.record(ctx, rec)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			URL:         shown,
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        b,
		}
	}
	return &Response{URL: shown, StatusCode: resp.StatusCode, Header: resp.Header.Clone(), Body: b}, nil
}

func (c *Client) record(ctx context.Context, rec events.DispatchRecorded) {
	fields := []zap.Field{
		zap.String("dispatch_id", rec.ID),
		zap.String("mode", rec.Mode),
		zap.String("method", rec.Method),
		zap.String("url", rec.URL),
		zap.Int("status", rec.StatusCode),
		zap.Duration("duration", rec.Duration),
	}
	switch {
	case rec.Error != "":
		c.log.Error("upstream dispatch failed", append(fields, zap.String("error", rec.Error))...)
	case rec.StatusCode < 200 || rec.StatusCode > 299:
		c.log.Warn("upstream dispatch non-2xx", fields...)
	default:
		c.log.Info("upstream dispatch", fields...)
	}
	if c.pub != nil {
		c.pub.PublishDispatch(ctx, rec)
	}
}

func buildURL(base, path string, query url.Values) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", errors.New("upstream base url is empty")
	}
	u, err := url.Parse(strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("parse upstream url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("upstream url %q: unsupported scheme", base)
	}
	if len(query) > 0 {
		merged := u.Query()
		for k, vs := range query {
			merged[k] = append(merged[k], vs...)
		}
		u.RawQuery = merged.Encode()
	}
	return u.String(), nil
}

var secretParams = []string{"key", "token", "secret", "password", "signature"}

// redactURL masks query values whose names look like credentials.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	changed := false
	for k := range q {
		lk := strings.ToLower(k)
		for _, s := range secretParams {
			if strings.Contains(lk, s) {
				q.Set(k, "REDACTED")
				changed = true
				break
			}
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	u.User = nil
	return u.String()
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errPayloadTooLarge
	}
	return b, nil
}
