package restkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/restkit/internal/constants"
)

// Sentinel errors usable with errors.Is.
var (
	ErrClient            = errors.New("client error")
	ErrServer            = errors.New("server error")
	ErrDecode            = errors.New("response body is not valid JSON")
	ErrNotSupported      = errors.New("operation not supported")
	ErrConfiguration     = errors.New("invalid configuration")
	ErrPageLimitExceeded = errors.New("page limit exceeded")
	ErrPageNotSequence   = errors.New("paginated response is not a JSON array")
	ErrIdentifierMissing = errors.New("identifier is required")
	ErrHostRequired      = errors.New("host is required")
	ErrConfigRequired    = errors.New("config is required")
)

// ErrorRecord carries the response metadata attached to an HTTP error.
type ErrorRecord struct {
	// StatusCode is the HTTP status code of the failed response.
	StatusCode int
	// URL is the request URL.
	URL string
	// Data is the JSON-decoded response body, or the raw body bytes when the
	// body is not valid JSON.
	Data any
	// Message combines URL and body for display.
	Message string
}

func newErrorRecord(statusCode int, url string, body []byte) ErrorRecord {
	var data any

	err := json.Unmarshal(body, &data)
	if err != nil {
		data = body
	}

	return ErrorRecord{
		StatusCode: statusCode,
		URL:        url,
		Data:       data,
		Message:    fmt.Sprintf("url: %s, data: %s", url, strings.TrimSpace(string(body))),
	}
}

// ClientError is returned for 4xx responses.
type ClientError struct {
	ErrorRecord
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	return fmt.Sprintf("client error %d: %s", e.StatusCode, e.Message)
}

// Is reports whether target is ErrClient.
func (e *ClientError) Is(target error) bool {
	return target == ErrClient
}

// ServerError is returned for 5xx responses.
type ServerError struct {
	ErrorRecord
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
}

// Is reports whether target is ErrServer.
func (e *ServerError) Is(target error) bool {
	return target == ErrServer
}

// UnexpectedStatusError is returned for failing status codes outside the 4xx
// and 5xx classes. It is treated like a server error.
type UnexpectedStatusError struct {
	ErrorRecord
}

// Error implements the error interface.
func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

// Is reports whether target is ErrServer.
func (e *UnexpectedStatusError) Is(target error) bool {
	return target == ErrServer
}

// NewResponseError classifies a failed response by the leading digit of its
// status code.
func NewResponseError(statusCode int, url string, body []byte) error {
	record := newErrorRecord(statusCode, url, body)

	switch leadingDigit(statusCode) {
	case constants.StatusClassClient:
		return &ClientError{ErrorRecord: record}
	case constants.StatusClassServer:
		return &ServerError{ErrorRecord: record}
	default:
		return &UnexpectedStatusError{ErrorRecord: record}
	}
}

func leadingDigit(code int) int {
	if code < 0 {
		code = -code
	}

	for code >= 10 {
		code /= 10
	}

	return code
}

// DecodeError is returned when a successful response body cannot be decoded.
type DecodeError struct {
	URL        string
	StatusCode int
	Body       []byte
	Err        error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response from %s (HTTP %d): %v", e.URL, e.StatusCode, e.Err)
}

// Unwrap returns the underlying JSON error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// NotSupportedError is returned by operations a resource does not implement.
type NotSupportedError struct {
	Operation string
	Path      string
}

// Error implements the error interface.
func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("%s is not supported by resource %q", e.Operation, e.Path)
}

// Is reports whether target is ErrNotSupported.
func (e *NotSupportedError) Is(target error) bool {
	return target == ErrNotSupported
}

// ConfigurationError reports invalid configuration or missing call arguments.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}

	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// Unwrap returns the underlying cause, if any.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// IsClientError checks if the error is a 4xx response error.
func IsClientError(err error) bool {
	return errors.Is(err, ErrClient)
}

// IsServerError checks if the error is a 5xx (or unclassified) response error.
func IsServerError(err error) bool {
	return errors.Is(err, ErrServer)
}

// IsNotFound checks if the error is a 404 response error.
func IsNotFound(err error) bool {
	clientErr := &ClientError{}
	if errors.As(err, &clientErr) {
		return clientErr.StatusCode == 404
	}

	return false
}

// IsNotSupported checks if the error reports an unimplemented operation.
func IsNotSupported(err error) bool {
	return errors.Is(err, ErrNotSupported)
}

// StatusCode returns the HTTP status code carried by err, or 0.
func StatusCode(err error) int {
	clientErr := &ClientError{}
	if errors.As(err, &clientErr) {
		return clientErr.StatusCode
	}

	serverErr := &ServerError{}
	if errors.As(err, &serverErr) {
		return serverErr.StatusCode
	}

	unexpectedErr := &UnexpectedStatusError{}
	if errors.As(err, &unexpectedErr) {
		return unexpectedErr.StatusCode
	}

	decodeErr := &DecodeError{}
	if errors.As(err, &decodeErr) {
		return decodeErr.StatusCode
	}

	return 0
}
