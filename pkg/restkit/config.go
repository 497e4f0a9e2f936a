package restkit

import (
	"errors"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/oauth2"

	"github.com/fivetwenty-io/restkit/internal/constants"
)

var errNotAbsoluteURL = errors.New("must be an absolute http or https URL")

// Config represents client configuration for building a restkit.Client.
//
// # Authentication
//
// When APIKey is set, every request carries the header AuthHeaderName: APIKey.
// AuthHeaderName defaults to "Authorization". When TokenSource is set instead,
// requests carry "Authorization: <type> <token>" from the token source, which
// is consulted on every request so expiring tokens are refreshed.
//
// # Base URL
//
// The base URL is Host + "/" + Version + "/", or Host + "/" when Version is
// empty. restclient.New normalizes Host by trimming a trailing slash and adding
// "https://" if no scheme is present.
//
// # Timeouts and pagination
//
// HTTPTimeout bounds a single round trip; use the context passed to resource
// methods for overall deadlines. Paginated lists follow at most MaxPages pages
// (a negative value removes the bound).
type Config struct {
	// Host is the API host including scheme, e.g. "https://api.spacexdata.com".
	Host string
	// Version is the API version path element, e.g. "v3". Optional.
	Version string

	// AuthHeaderName is the header used to send APIKey.
	AuthHeaderName string
	// APIKey is sent verbatim as the value of AuthHeaderName.
	APIKey string
	// TokenSource supplies OAuth2 tokens. Ignored when APIKey is set.
	TokenSource oauth2.TokenSource

	// LinksHeaderName is the response header holding pagination links.
	// Defaults to "Link".
	LinksHeaderName string
	// MaxPages bounds paginated lists. Defaults to 1000.
	MaxPages int
	// Pluralize appends a plural suffix to path segments derived from names.
	Pluralize bool

	// HTTPTimeout is the per-request timeout. Defaults to 30s.
	HTTPTimeout time.Duration
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// RequestIDHeader, when set, names a header carrying a fresh UUID on
	// every request.
	RequestIDHeader string
	// Headers are sent with every request.
	Headers map[string]string

	// Debug enables request/response logging when a Logger is provided.
	Debug bool
	// Logger is an optional structured logger used by the HTTP layer.
	Logger Logger
	// Interceptors are run around every HTTP round trip.
	Interceptors *InterceptorChain

	// Resources are constructed eagerly when the client is created.
	Resources []Declaration
}

// ApplyDefaults fills in zero-value fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.APIKey != "" && c.AuthHeaderName == "" {
		c.AuthHeaderName = constants.DefaultAuthHeaderName
	}

	if c.LinksHeaderName == "" {
		c.LinksHeaderName = constants.DefaultLinksHeaderName
	}

	if c.MaxPages == 0 {
		c.MaxPages = constants.DefaultMaxPages
	}

	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = constants.DefaultHTTPTimeout
	}

	if c.UserAgent == "" {
		c.UserAgent = constants.DefaultUserAgent
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required.ErrorObject(
			validation.NewError("validation_host_required", ErrHostRequired.Error()),
		), validation.By(absoluteURL)),
		validation.Field(&c.HTTPTimeout, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return &ConfigurationError{Reason: err.Error(), Err: err}
	}

	return nil
}

// BaseURL computes the base URL from Host and Version.
func (c *Config) BaseURL() string {
	if c.Version == "" {
		return c.Host + "/"
	}

	return c.Host + "/" + c.Version + "/"
}

func absoluteURL(value interface{}) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return errNotAbsoluteURL
	}

	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return errNotAbsoluteURL
	}

	return nil
}
