// Package linked talks to the converter service that turns compact XML
// result sets into the linked JSON and CSV formats using a dataset's
// linkage schema.
package linked

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pquerna/cachecontrol"
	"github.com/pquerna/cachecontrol/cacheobject"

	"github.com/geoknoesis/structwsf/resultset"
)

const (
	// DefaultTimeout bounds one conversion request.
	DefaultTimeout = 30 * time.Second

	maxErrorBody = 512
)

// Client is a resultset.LinkedTransformer backed by HTTP converter
// endpoints, one per output format. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	endpoints  map[resultset.Format]string
	schema     string
	logger     *slog.Logger
	cache      *responseCache
	now        func() time.Time
}

var _ resultset.LinkedTransformer = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSchema sets the linkage schema sent with every conversion.
func WithSchema(schema string) Option {
	return func(c *Client) {
		c.schema = schema
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithCache enables caching of responses the converter declares cacheable.
func WithCache() Option {
	return func(c *Client) {
		c.cache = &responseCache{entries: map[string]cacheEntry{}}
	}
}

// New returns a client posting to endpoints, keyed by delegated format.
func New(endpoints map[resultset.Format]string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		endpoints:  make(map[resultset.Format]string, len(endpoints)),
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
	}
	for format, endpoint := range endpoints {
		c.endpoints[format] = endpoint
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transform posts document to the endpoint of format. Any status other than
// 200 is a DELEGATED_TRANSFORM_FAILURE carrying the status and the start of
// the response body.
func (c *Client) Transform(ctx context.Context, document []byte, format resultset.Format) ([]byte, error) {
	endpoint, ok := c.endpoints[format]
	if !ok || endpoint == "" {
		return nil, &resultset.Error{
			Code:    resultset.ErrCodeDelegatedTransform,
			Format:  format,
			Message: "no converter endpoint configured",
			Err:     resultset.ErrUnsupportedFormat,
		}
	}

	key := cacheKey(endpoint, c.schema, document)
	if body, ok := c.cache.get(key, c.now()); ok {
		c.logger.Debug("linked conversion served from cache", "format", string(format))
		return body, nil
	}

	form := url.Values{}
	form.Set("docmime", string(resultset.FormatXML))
	form.Set("text", string(document))
	if c.schema != "" {
		form.Set("schema", c.schema)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, c.failure(format, 0, "invalid converter request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", string(format))

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.failure(format, 0, "converter unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.failure(format, resp.StatusCode, "reading converter response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.failure(format, resp.StatusCode, truncate(strings.TrimSpace(string(body)), maxErrorBody), nil)
	}
	c.logger.Debug("linked conversion done", "format", string(format), "bytes", len(body), "elapsed", c.now().Sub(start))

	if c.cache != nil {
		if expires, ok := cacheable(req, resp, c.now()); ok {
			c.cache.put(key, body, expires)
		}
	}
	return body, nil
}

func (c *Client) failure(format resultset.Format, status int, msg string, err error) error {
	c.logger.Warn("linked conversion failed", "format", string(format), "status", status, "error", msg)
	return &resultset.Error{
		Code:    resultset.ErrCodeDelegatedTransform,
		Format:  format,
		Status:  status,
		Message: msg,
		Err:     err,
	}
}

// cacheable reports whether resp may be reused and until when. Conversion
// requests are POSTs, which HTTP caches refuse by default; the converter is
// a pure function of its input, so only the response directives count.
func cacheable(req *http.Request, resp *http.Response, now time.Time) (time.Time, bool) {
	reasons, expires, err := cachecontrol.CachableResponse(req, resp, cachecontrol.Options{PrivateCache: true})
	if err != nil {
		return time.Time{}, false
	}
	for _, reason := range reasons {
		if reason != cacheobject.ReasonRequestMethodPOST {
			return time.Time{}, false
		}
	}
	if expires.IsZero() || !expires.After(now) {
		return time.Time{}, false
	}
	return expires, true
}

func cacheKey(endpoint, schema string, document []byte) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", endpoint, schema)
	h.Write(document)
	return hex.EncodeToString(h.Sum(nil))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

type cacheEntry struct {
	body    []byte
	expires time.Time
}

// responseCache is an in-memory map of converted documents. A nil cache
// stores nothing.
type responseCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

func (rc *responseCache) get(key string, now time.Time) ([]byte, bool) {
	if rc == nil {
		return nil, false
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	entry, ok := rc.entries[key]
	if !ok {
		return nil, false
	}
	if !entry.expires.After(now) {
		delete(rc.entries, key)
		return nil, false
	}
	return bytes.Clone(entry.body), true
}

func (rc *responseCache) put(key string, body []byte, expires time.Time) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.entries[key] = cacheEntry{body: bytes.Clone(body), expires: expires}
}
