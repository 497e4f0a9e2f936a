package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for a single HTTP round trip.
	DefaultHTTPTimeout = 30 * time.Second
)

// Header names and values.
const (
	// DefaultAuthHeaderName is used when an API key is configured without a header name.
	DefaultAuthHeaderName = "Authorization"

	// DefaultLinksHeaderName is the response header carrying pagination links.
	DefaultLinksHeaderName = "Link"

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "restkit-go"

	// ContentTypeJSON is the media type for JSON bodies.
	ContentTypeJSON = "application/json"

	// ContentTypeForm is the media type for form-encoded bodies.
	ContentTypeForm = "application/x-www-form-urlencoded"

	// RelNext is the link relation followed during pagination.
	RelNext = "next"
)

// Pagination limits.
const (
	// DefaultMaxPages bounds the number of pages followed by a single paginated list.
	DefaultMaxPages = 1000
)

// HTTP status code classes, keyed by the leading digit of the status code.
const (
	// StatusClassClient is the leading digit of 4xx responses.
	StatusClassClient = 4

	// StatusClassServer is the leading digit of 5xx responses.
	StatusClassServer = 5

	// StatusErrorThreshold is the first status code treated as a failure.
	StatusErrorThreshold = 400
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "********"

	// MaxTableColumns limits the number of columns rendered for list output.
	MaxTableColumns = 8
)
