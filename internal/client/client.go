package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/studiowebux/blogdesk/internal/config"
	"github.com/studiowebux/blogdesk/internal/types"
)

const postsPath = "/posts"

// Recorder receives one entry per repository call
type Recorder interface {
	Record(entry types.ActivityEntry) error
}

// Client talks to the posts collection of a REST backend
type Client struct {
	baseURL  string
	http     *http.Client
	headers  map[string]string
	recorder Recorder
	profile  string
	logger   zerolog.Logger
	now      func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithHeaders adds headers sent on every request
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithRecorder reports every call to r
func WithRecorder(r Recorder, profile string) Option {
	return func(c *Client) {
		c.recorder = r
		c.profile = profile
	}
}

// WithLogger sets the logger used for failed calls
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the collection at baseURL + "/posts"
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u.String(),
		http:    &http.Client{},
		headers: make(map[string]string),
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewFromProfile builds a client with the profile's headers, TLS and timeout
func NewFromProfile(profile *config.Profile, baseURL string, opts ...Option) (*Client, error) {
	hc, err := buildHTTPClient(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}
	all := []Option{WithHTTPClient(hc)}
	if profile != nil {
		all = append(all, WithHeaders(profile.Headers))
	}
	return New(baseURL, append(all, opts...)...)
}

// BaseURL returns the backend root the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CollectionURL returns the posts collection URL
func (c *Client) CollectionURL() string {
	return c.baseURL + postsPath
}

func (c *Client) itemURL(id types.PostID) string {
	return c.CollectionURL() + "/" + url.PathEscape(id.String())
}

// ListPosts fetches all posts in server order
func (c *Client) ListPosts(ctx context.Context) ([]types.Post, error) {
	var posts []types.Post
	if err := c.do(ctx, "list", http.MethodGet, c.CollectionURL(), nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches one post; a missing id yields a 404 Failure
func (c *Client) GetPost(ctx context.Context, id types.PostID) (types.Post, error) {
	var post types.Post
	if err := c.do(ctx, "get", http.MethodGet, c.itemURL(id), nil, &post); err != nil {
		return types.Post{}, err
	}
	return post, nil
}

// CreatePost submits a draft; the server assigns the id
func (c *Client) CreatePost(ctx context.Context, draft types.Draft) (types.Post, error) {
	var post types.Post
	if err := c.do(ctx, "create", http.MethodPost, c.CollectionURL(), draft, &post); err != nil {
		return types.Post{}, err
	}
	return post, nil
}

// UpdatePost sends a partial update carrying only title and content
func (c *Client) UpdatePost(ctx context.Context, id types.PostID, patch types.Patch) (types.Post, error) {
	var post types.Post
	if err := c.do(ctx, "update", http.MethodPatch, c.itemURL(id), patch, &post); err != nil {
		return types.Post{}, err
	}
	return post, nil
}

// DeletePost removes a post. Deleting an already deleted id is a Failure.
func (c *Client) DeletePost(ctx context.Context, id types.PostID) error {
	return c.do(ctx, "delete", http.MethodDelete, c.itemURL(id), nil, nil)
}

// do performs a single attempt. A nil out means the response body is ignored.
func (c *Client) do(ctx context.Context, op, method, target string, in, out interface{}) error {
	start := c.now()
	requestID := uuid.NewString()

	entry := types.ActivityEntry{
		Timestamp: start.Local().Format("2006-01-02 15:04:05"),
		RequestID: requestID,
		Operation: op,
		Method:    method,
		URL:       target,
		Profile:   c.profile,
	}

	var bodyReader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return c.fail(entry, &Failure{Op: op, Kind: KindTransport, Err: fmt.Errorf("failed to encode request: %w", err)})
		}
		bodyReader = bytes.NewReader(payload)
		entry.RequestSize = len(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return c.fail(entry, &Failure{Op: op, Kind: KindTransport, Err: fmt.Errorf("failed to create request: %w", err)})
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	entry.Duration = c.now().Sub(start).Milliseconds()
	if err != nil {
		return c.fail(entry, &Failure{Op: op, Kind: KindTransport, Err: err})
	}
	defer resp.Body.Close()

	entry.Status = resp.StatusCode
	bodyBytes, err := io.ReadAll(resp.Body)
	entry.ResponseSize = len(bodyBytes)
	if err != nil {
		return c.fail(entry, &Failure{Op: op, Kind: KindTransport, Err: fmt.Errorf("failed to read response body: %w", err)})
	}

	if !IsSuccessStatus(resp.StatusCode) {
		return c.fail(entry, &Failure{Op: op, Kind: KindHTTPStatus, Status: resp.StatusCode})
	}

	if out != nil {
		if err := json.Unmarshal(bodyBytes, out); err != nil {
			return c.fail(entry, &Failure{Op: op, Kind: KindTransport, Err: fmt.Errorf("malformed response: %w", err)})
		}
	}

	c.record(entry)
	return nil
}

func (c *Client) fail(entry types.ActivityEntry, f *Failure) error {
	entry.Error = f.Error()
	c.record(entry)
	c.logger.Warn().
		Str("op", f.Op).
		Str("kind", f.Kind.String()).
		Int("status", f.Status).
		Str("url", entry.URL).
		Str("request_id", entry.RequestID).
		Err(f.Err).
		Msg("repository call failed")
	return f
}

func (c *Client) record(entry types.ActivityEntry) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.Record(entry); err != nil {
		c.logger.Debug().Err(err).Msg("failed to record activity")
	}
}

// buildHTTPClient creates an HTTP client with optional TLS/mTLS configuration
func buildHTTPClient(profile *config.Profile) (*http.Client, error) {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	client := &http.Client{Transport: transport}

	if profile == nil {
		return client, nil
	}
	client.Timeout = profile.Timeout

	if profile.TLS != nil {
		tlsCfg := &tls.Config{
			InsecureSkipVerify: profile.TLS.InsecureSkipVerify,
		}

		// Load client certificate if provided (for mTLS)
		if profile.TLS.CertFile != "" && profile.TLS.KeyFile != "" {
			cert, err := tls.LoadX509KeyPair(profile.TLS.CertFile, profile.TLS.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load client certificate: %w", err)
			}
			tlsCfg.Certificates = []tls.Certificate{cert}
		}

		// Load CA certificate if provided (for server verification)
		if profile.TLS.CAFile != "" {
			caCert, err := os.ReadFile(profile.TLS.CAFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read CA certificate: %w", err)
			}
			caCertPool := x509.NewCertPool()
			if !caCertPool.AppendCertsFromPEM(caCert) {
				return nil, fmt.Errorf("failed to parse CA certificate")
			}
			tlsCfg.RootCAs = caCertPool
		}

		transport.TLSClientConfig = tlsCfg
	}

	return client, nil
}

// FormatDuration formats duration in milliseconds to human-readable string
func FormatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	seconds := float64(ms) / 1000.0
	return fmt.Sprintf("%.2fs", seconds)
}

// FormatSize formats byte size to human-readable string
func FormatSize(bytes int) string {
	if bytes < 1024 {
		return fmt.Sprintf("%dB", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.2fKB", float64(bytes)/1024.0)
	}
	return fmt.Sprintf("%.2fMB", float64(bytes)/(1024.0*1024.0))
}
