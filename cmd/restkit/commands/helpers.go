package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/restkit/internal/auth"
	"github.com/fivetwenty-io/restkit/pkg/restclient"
	"github.com/fivetwenty-io/restkit/pkg/restkit"
)

// Common static errors used throughout the commands package.
var (
	ErrHostNotConfigured  = errors.New("no API host configured (use --host or 'restkit config set host URL')")
	ErrResourceRequired   = errors.New("resource path is required")
	ErrInvalidQueryFormat = errors.New("invalid query format, expected KEY=VALUE")
	ErrBodyRequired       = errors.New("a request body is required (use --data or --form)")
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
	ErrInvalidConfigValue = errors.New("invalid configuration value")
	ErrAPIKeyRequired     = errors.New("API key must not be empty")
)

// newLogger returns the CLI logger; debug output is enabled with --verbose.
func newLogger() hclog.Logger {
	level := hclog.Warn
	if viper.GetBool("verbose") {
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "restkit",
		Level:  level,
		Output: os.Stderr,
	})
}

// buildClientConfig converts the CLI configuration into a client config.
func buildClientConfig(ctx context.Context, config *Config) (*restkit.Config, error) {
	if config.Host == "" {
		return nil, ErrHostNotConfigured
	}

	clientConfig := &restkit.Config{
		Host:            config.Host,
		Version:         config.Version,
		AuthHeaderName:  config.AuthHeader,
		APIKey:          config.APIKey,
		LinksHeaderName: config.LinksHeader,
		MaxPages:        config.MaxPages,
		HTTPTimeout:     config.Timeout,
		UserAgent:       "restkit-cli",
		Debug:           viper.GetBool("verbose"),
		Logger:          restkit.NewHCLogLogger(newLogger()),
	}

	if config.APIKey == "" && config.ClientID != "" && config.TokenURL != "" {
		clientConfig.TokenSource = auth.ClientCredentials(ctx, config.TokenURL, config.ClientID, config.ClientSecret)
	}

	return clientConfig, nil
}

// createClient creates a client from the effective configuration.
func createClient(ctx context.Context) (restkit.Client, error) {
	clientConfig, err := buildClientConfig(ctx, loadConfig())
	if err != nil {
		return nil, err
	}

	return restclient.New(clientConfig)
}

// resolveResource walks a slash separated path such as "launches/past" from
// the client root.
func resolveResource(client restkit.Client, path string) (restkit.Resource, error) {
	parts := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	if len(parts) == 0 {
		return nil, ErrResourceRequired
	}

	resource := client.Resource(parts[0])
	for _, part := range parts[1:] {
		resource = resource.Child(part)
	}

	return resource, nil
}

// parseKeyValues parses KEY=VALUE pairs.
func parseKeyValues(pairs []string) (url.Values, error) {
	values := url.Values{}

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %s", ErrInvalidQueryFormat, pair)
		}

		values.Add(key, value)
	}

	return values, nil
}

// parseBody decodes a request body given inline or as @file. JSON is tried
// first, then YAML.
func parseBody(data string) (any, error) {
	raw := []byte(data)

	if strings.HasPrefix(data, "@") {
		// the file is named explicitly by the user
		// #nosec G304
		content, err := os.ReadFile(strings.TrimPrefix(data, "@"))
		if err != nil {
			return nil, fmt.Errorf("failed to read body file: %w", err)
		}

		raw = content
	}

	var body any

	jsonErr := json.Unmarshal(raw, &body)
	if jsonErr == nil {
		return body, nil
	}

	yamlErr := yaml.Unmarshal(raw, &body)
	if yamlErr != nil {
		return nil, fmt.Errorf("body is neither JSON nor YAML: %w", errors.Join(jsonErr, yamlErr))
	}

	return body, nil
}

// callOptions builds the per-call options shared by the resource commands.
func callOptions(query []string, overrideURL string) ([]restkit.CallOption, error) {
	values, err := parseKeyValues(query)
	if err != nil {
		return nil, err
	}

	opts := []restkit.CallOption{restkit.WithParams(values)}

	if overrideURL != "" {
		opts = append(opts, restkit.WithURL(overrideURL))
	}

	return opts, nil
}
