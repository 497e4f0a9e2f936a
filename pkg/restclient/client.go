package restclient

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/fivetwenty-io/restkit/internal/auth"
	"github.com/fivetwenty-io/restkit/internal/client"
	"github.com/fivetwenty-io/restkit/pkg/restkit"
)

// New creates a new API client from config. config is not modified.
func New(config *restkit.Config) (restkit.Client, error) {
	if config == nil {
		return nil, &restkit.ConfigurationError{Reason: restkit.ErrConfigRequired.Error(), Err: restkit.ErrConfigRequired}
	}

	cfg := *config
	cfg.Host = NormalizeHost(cfg.Host)

	if cfg.Debug && cfg.Logger == nil {
		cfg.Logger = restkit.NewHCLogLogger(hclog.New(&hclog.LoggerOptions{
			Name:   "restkit",
			Level:  hclog.Debug,
			Output: os.Stderr,
		}))
	}

	c, err := client.New(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NormalizeHost trims trailing slashes and adds "https://" when host has no
// scheme. An empty host stays empty.
func NormalizeHost(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return ""
	}

	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}

	return host
}

// NewWithHost creates a client without authentication.
func NewWithHost(host, version string) (restkit.Client, error) {
	return New(&restkit.Config{
		Host:    host,
		Version: version,
	})
}

// NewWithAPIKey creates a client sending apiKey in headerName on every
// request. An empty headerName means "Authorization".
func NewWithAPIKey(host, version, headerName, apiKey string) (restkit.Client, error) {
	return New(&restkit.Config{
		Host:           host,
		Version:        version,
		AuthHeaderName: headerName,
		APIKey:         apiKey,
	})
}

// NewWithClientCredentials creates a client authenticating with the OAuth2
// client credentials grant against tokenURL.
func NewWithClientCredentials(ctx context.Context, host, version, tokenURL, clientID, clientSecret string, scopes ...string) (restkit.Client, error) {
	return New(&restkit.Config{
		Host:        host,
		Version:     version,
		TokenSource: auth.ClientCredentials(ctx, tokenURL, clientID, clientSecret, scopes...),
	})
}
