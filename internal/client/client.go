package client

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/fivetwenty-io/restkit/internal/auth"
	"github.com/fivetwenty-io/restkit/internal/http"
	"github.com/fivetwenty-io/restkit/pkg/restkit"
)

// Static errors for err113 compliance.
var (
	ErrDeclarationNameRequired = errors.New("declaration name is required")
	ErrDuplicateDeclaration    = errors.New("resource declared more than once")
	ErrNilDecoratedResource    = errors.New("wrap returned a nil resource")
)

// Client implements the restkit.Client interface.
type Client struct {
	transport *http.Client
	config    restkit.Config
	baseURL   string
	logger    restkit.Logger

	mutex     sync.Mutex
	resources map[string]restkit.Resource
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *restkit.Config) []http.Option {
	httpOpts := []http.Option{
		http.WithTimeout(config.HTTPTimeout),
		http.WithLinksHeader(config.LinksHeaderName),
		http.WithMaxPages(config.MaxPages),
	}

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.RequestIDHeader != "" {
		httpOpts = append(httpOpts, http.WithRequestIDHeader(config.RequestIDHeader))
	}

	if len(config.Headers) > 0 {
		httpOpts = append(httpOpts, http.WithHeaders(config.Headers))
	}

	if config.Interceptors != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(config.Interceptors))
	}

	return httpOpts
}

// New creates a client from config. The configuration is copied; later
// changes to config have no effect on the client.
func New(config *restkit.Config) (*Client, error) {
	if config == nil {
		return nil, &restkit.ConfigurationError{Reason: restkit.ErrConfigRequired.Error(), Err: restkit.ErrConfigRequired}
	}

	cfg := *config
	cfg.Headers = copyHeaders(config.Headers)
	cfg.Resources = append([]restkit.Declaration(nil), config.Resources...)
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	provider := auth.NewProvider(cfg.AuthHeaderName, cfg.APIKey, cfg.TokenSource)
	baseURL := cfg.BaseURL()

	client := &Client{
		transport: http.NewClient(baseURL, provider, createHTTPClientOptions(&cfg)...),
		config:    cfg,
		baseURL:   baseURL,
		logger:    cfg.Logger,
		resources: make(map[string]restkit.Resource),
	}

	err = client.declare(cfg.Resources)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// declare builds every declared resource under its snake_case name.
func (c *Client) declare(declarations []restkit.Declaration) error {
	var result *multierror.Error

	for index, declaration := range declarations {
		if declaration.Name == "" {
			result = multierror.Append(result, fmt.Errorf("resource %d: %w", index, ErrDeclarationNameRequired))

			continue
		}

		attribute := restkit.AttributeName(declaration.Name)
		if _, exists := c.resources[attribute]; exists {
			result = multierror.Append(result, fmt.Errorf("%s: %w", attribute, ErrDuplicateDeclaration))

			continue
		}

		segment := declaration.Path
		if segment == "" {
			segment = restkit.PathSegment(declaration.Name, c.config.Pluralize)
		}

		var resource restkit.Resource = newNode(c, declaration.Name, segment, nil)

		if declaration.Wrap != nil {
			resource = declaration.Wrap(resource)
			if resource == nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", attribute, ErrNilDecoratedResource))

				continue
			}
		}

		c.resources[attribute] = resource
	}

	err := result.ErrorOrNil()
	if err != nil {
		return &restkit.ConfigurationError{Field: "Resources", Reason: err.Error(), Err: err}
	}

	return nil
}

// BaseURL implements restkit.Client.BaseURL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Resource implements restkit.Client.Resource.
func (c *Client) Resource(name string) restkit.Resource {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if resource, ok := c.resources[name]; ok {
		return resource
	}

	if resource, ok := c.resources[restkit.AttributeName(name)]; ok {
		return resource
	}

	resource := newNode(c, name, restkit.PathSegment(name, c.config.Pluralize), nil)
	c.resources[name] = resource

	if c.config.Debug && c.logger != nil {
		c.logger.Debug("Created resource", map[string]interface{}{
			"name": name,
			"path": resource.Path(),
		})
	}

	return resource
}

// Names implements restkit.Client.Names.
func (c *Client) Names() []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	names := make([]string, 0, len(c.resources))
	for name := range c.resources {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Request implements restkit.Client.Request.
func (c *Client) Request(ctx context.Context, method, rawURL string, opts ...restkit.CallOption) (any, error) {
	options := restkit.NewCallOptions(opts...)

	target := rawURL
	if options.URL != "" {
		target = options.URL
	}

	return c.perform(ctx, method, target, options.Body, options)
}

func (c *Client) perform(ctx context.Context, method, target string, body any, options *restkit.CallOptions) (any, error) {
	req := &http.Request{
		Method:  method,
		Path:    target,
		Query:   options.Query,
		Body:    body,
		Form:    options.Form,
		Headers: options.Headers,
	}

	return c.transport.Perform(ctx, req, options.Paginate)
}

func copyHeaders(headers map[string]string) map[string]string {
	if headers == nil {
		return nil
	}

	copied := make(map[string]string, len(headers))
	for key, value := range headers {
		copied[key] = value
	}

	return copied
}
