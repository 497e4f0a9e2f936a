// Package http is the transport layer: one HTTP round trip per call, failure
// classification and Link-header pagination.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/restkit/internal/auth"
	"github.com/fivetwenty-io/restkit/internal/constants"
	"github.com/fivetwenty-io/restkit/pkg/restkit"
)

// Request describes an outbound request.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is appended to the client base URL. Absolute URLs are used as-is.
	Path string
	// Query parameters are merged into the URL query string.
	Query url.Values
	// Body is JSON-encoded when non-nil.
	Body interface{}
	// Form is sent form-encoded when Body is nil.
	Form url.Values
	// Headers are request-specific headers.
	Headers map[string]string
}

// Response is the result of a single round trip.
type Response struct {
	StatusCode int
	URL        string
	Headers    nethttp.Header
	Body       []byte
}

// Client performs requests against one API.
type Client struct {
	httpClient      *retryablehttp.Client
	baseURL         string
	authProvider    auth.HeaderProvider
	logger          restkit.Logger
	debug           bool
	userAgent       string
	linksHeader     string
	maxPages        int
	requestIDHeader string
	headers         map[string]string
	interceptors    *restkit.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger restkit.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithLinksHeader sets the response header read for pagination links.
func WithLinksHeader(name string) Option {
	return func(c *Client) {
		c.linksHeader = name
	}
}

// WithMaxPages bounds paginated requests. Values <= 0 remove the bound;
// restkit.Config maps 0 to the default before it reaches the transport.
func WithMaxPages(maxPages int) Option {
	return func(c *Client) {
		c.maxPages = maxPages
	}
}

// WithRequestIDHeader sends a fresh UUID under name on every request.
func WithRequestIDHeader(name string) Option {
	return func(c *Client) {
		c.requestIDHeader = name
	}
}

// WithHeaders sets headers sent on every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.headers = headers
	}
}

// WithInterceptors runs chain around every round trip.
func WithInterceptors(chain *restkit.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *nethttp.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// NewClient creates a client for baseURL. provider may be nil.
func NewClient(baseURL string, provider auth.HeaderProvider, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = cleanhttp.DefaultPooledClient()
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil
	retryClient.RetryMax = 0
	retryClient.CheckRetry = neverRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		httpClient:   retryClient,
		baseURL:      baseURL,
		authProvider: provider,
		userAgent:    constants.DefaultUserAgent,
		linksHeader:  constants.DefaultLinksHeaderName,
		maxPages:     constants.DefaultMaxPages,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.debug && client.logger != nil {
		retryClient.RequestLogHook = client.logRequest
		retryClient.ResponseLogHook = client.logResponse
	}

	return client
}

// neverRetry keeps every call to exactly one round trip.
func neverRetry(ctx context.Context, resp *nethttp.Response, err error) (bool, error) {
	return false, nil
}

func (c *Client) logRequest(_ retryablehttp.Logger, req *nethttp.Request, attempt int) {
	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method":  req.Method,
		"url":     req.URL.String(),
		"attempt": attempt,
	})
}

func (c *Client) logResponse(_ retryablehttp.Logger, resp *nethttp.Response) {
	c.logger.Debug("HTTP Response", map[string]interface{}{
		"method":      resp.Request.Method,
		"url":         resp.Request.URL.String(),
		"status_code": resp.StatusCode,
	})
}

// BaseURL returns the URL relative paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs exactly one round trip. Responses with a status of 400 or above
// are returned together with a classified error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, rawBody, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	view := &restkit.Request{
		Method:  httpReq.Method,
		URL:     httpReq.URL.String(),
		Headers: httpReq.Header,
		Body:    rawBody,
	}

	err = c.interceptors.ExecuteRequestInterceptors(ctx, view)
	if err != nil {
		return nil, err
	}

	httpReq.Header = view.Headers

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		_ = c.interceptors.ExecuteResponseInterceptors(ctx, view, &restkit.Response{Error: err})

		return nil, fmt.Errorf("%s %s: %w", view.Method, view.URL, err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body from %s: %w", view.URL, err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		URL:        view.URL,
		Headers:    httpResp.Header,
		Body:       body,
	}

	var respErr error
	if resp.StatusCode >= constants.StatusErrorThreshold {
		respErr = restkit.NewResponseError(resp.StatusCode, resp.URL, resp.Body)
	}

	err = c.interceptors.ExecuteResponseInterceptors(ctx, view, &restkit.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
		Error:      respErr,
	})
	if err != nil {
		if respErr != nil {
			return resp, errors.Join(respErr, err)
		}

		return resp, err
	}

	return resp, respErr
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path})
}

// ResolveURL returns path unchanged when absolute, otherwise joined to the base URL.
func (c *Client) ResolveURL(path string) string {
	if c.baseURL == "" {
		return path
	}

	if parsed, err := url.Parse(path); err == nil && parsed.IsAbs() {
		return path
	}

	return strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) buildRequest(ctx context.Context, req *Request) (*retryablehttp.Request, []byte, error) {
	var (
		rawBody     []byte
		contentType string
	)

	switch {
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("encoding request body: %w", err)
		}

		rawBody = data
		contentType = constants.ContentTypeJSON
	case req.Form != nil:
		rawBody = []byte(req.Form.Encode())
		contentType = constants.ContentTypeForm
	}

	var body interface{}
	if rawBody != nil {
		body = bytes.NewReader(rawBody)
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, c.ResolveURL(req.Path), body)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}

	if len(req.Query) > 0 {
		query := httpReq.URL.Query()
		for key, values := range req.Query {
			for _, value := range values {
				query.Add(key, value)
			}
		}

		httpReq.URL.RawQuery = query.Encode()
	}

	httpReq.Header.Set("Accept", constants.ContentTypeJSON)
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if c.requestIDHeader != "" {
		httpReq.Header.Set(c.requestIDHeader, uuid.NewString())
	}

	for key, value := range c.headers {
		httpReq.Header.Set(key, value)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.authProvider != nil {
		name, value, err := c.authProvider.AuthHeader(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("getting auth header: %w", err)
		}

		httpReq.Header.Set(name, value)
	}

	return httpReq, rawBody, nil
}
