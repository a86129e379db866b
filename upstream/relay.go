package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// hopHeaders are connection-scoped and never forwarded to the relay.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
	"Host",
	"Content-Length",
	"Accept-Encoding",
}

type RelayRequest struct {
	BaseURL string
	Path    string
	Method  string
	Query   url.Values
	Header  http.Header
	Body    []byte
}

// Relay forwards a request verbatim to the relay tier. No credentials are
// added; the relay carries its own.
func (c *Client) Relay(ctx context.Context, r RelayRequest) (*Response, error) {
	return c.Dispatch(ctx, Request{
		Mode:    ModeRelay,
		BaseURL: r.BaseURL,
		Path:    r.Path,
		Query:   r.Query,
		Method:  r.Method,
		Header:  r.Header,
		Body:    r.Body,
	})
}

var ErrInvalidRelayPath = errors.New("invalid relay path")

// CleanRelayPath accepts only a relative path on the relay host. Absolute
// URLs, scheme-relative paths and dot-dot segments are refused.
func CleanRelayPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" || strings.Contains(p, "://") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return "", ErrInvalidRelayPath
	}
	pathOnly := p
	if i := strings.IndexAny(pathOnly, "?#"); i >= 0 {
		pathOnly = pathOnly[:i]
	}
	decoded, ok := unescapeFully(pathOnly)
	if !ok || strings.HasPrefix(decoded, "//") || strings.Contains(decoded, "\\") {
		return "", ErrInvalidRelayPath
	}
	for _, seg := range strings.Split(decoded, "/") {
		if seg == ".." || seg == "." {
			return "", ErrInvalidRelayPath
		}
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p, nil
}

// maxUnescapeRounds bounds how deeply nested an encoded relay path may be.
const maxUnescapeRounds = 4

// unescapeFully percent-decodes p until it stops changing, so encoded dot
// segments cannot hide from the traversal check.
func unescapeFully(p string) (string, bool) {
	for i := 0; i < maxUnescapeRounds; i++ {
		next, err := url.PathUnescape(p)
		if err != nil {
			return "", false
		}
		if next == p {
			return p, true
		}
		p = next
	}
	return "", false
}

func copyForwardHeaders(dst, src http.Header) {
	skip := map[string]bool{}
	for _, h := range hopHeaders {
		skip[h] = true
	}
	// Headers named by Connection are hop-by-hop too.
	for _, v := range src.Values("Connection") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				skip[http.CanonicalHeaderKey(name)] = true
			}
		}
	}
	for k, vs := range src {
		if skip[http.CanonicalHeaderKey(k)] {
			continue
		}
		dst[k] = append([]string(nil), vs...)
	}
}
