package restkit

import (
	"net/url"
)

// CallOptions collects the per-call settings applied by CallOption values.
type CallOptions struct {
	// Query holds extra query string parameters.
	Query url.Values
	// Headers are added to the request.
	Headers map[string]string
	// Body is sent JSON-encoded by Client.Request. Resource operations take
	// their body as an argument instead.
	Body any
	// Form, when set and no JSON body is given, is sent form-encoded.
	Form url.Values
	// URL overrides the URL built from the resource path.
	URL string
	// Paginate follows Link headers on list calls.
	Paginate bool
}

// CallOption configures a single resource call.
type CallOption func(*CallOptions)

// NewCallOptions applies opts to an empty CallOptions.
func NewCallOptions(opts ...CallOption) *CallOptions {
	options := &CallOptions{Query: url.Values{}}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	return options
}

// WithQuery adds a query string parameter.
func WithQuery(key, value string) CallOption {
	return func(o *CallOptions) {
		o.Query.Add(key, value)
	}
}

// WithParams adds every value of params to the query string.
func WithParams(params url.Values) CallOption {
	return func(o *CallOptions) {
		for key, values := range params {
			for _, value := range values {
				o.Query.Add(key, value)
			}
		}
	}
}

// WithHeader adds a request header.
func WithHeader(key, value string) CallOption {
	return func(o *CallOptions) {
		if o.Headers == nil {
			o.Headers = make(map[string]string)
		}

		o.Headers[key] = value
	}
}

// WithJSON sets the JSON request body used by Client.Request.
func WithJSON(body any) CallOption {
	return func(o *CallOptions) {
		o.Body = body
	}
}

// WithForm sends form as an application/x-www-form-urlencoded body when no
// JSON body is given.
func WithForm(form url.Values) CallOption {
	return func(o *CallOptions) {
		o.Form = form
	}
}

// WithURL bypasses path construction. Absolute URLs are used as-is; relative
// ones are resolved against the client base URL.
func WithURL(rawURL string) CallOption {
	return func(o *CallOptions) {
		o.URL = rawURL
	}
}

// Paginate makes List follow "next" links and concatenate every page.
func Paginate() CallOption {
	return func(o *CallOptions) {
		o.Paginate = true
	}
}
