package restkit

import (
	"context"
)

// Resource is an addressable collection endpoint under the API root.
//
// The default implementation returned by Client.Resource and Resource.Child
// builds URLs from the chain of parent segments and issues requests through
// the client transport. Custom behaviour is added by composition: a
// Declaration's Wrap function receives the default implementation and may
// return a type that embeds it and overrides individual operations.
type Resource interface {
	// Name is the name the resource was declared or accessed with.
	Name() string
	// Segment is the path segment contributed by this resource.
	Segment() string
	// Path is the full path relative to the client base URL.
	Path() string
	// URL returns the absolute URL of the resource with ids appended as
	// further path elements.
	URL(ids ...string) string
	// Parent returns the parent resource, or nil for top-level resources.
	Parent() Resource
	// Child returns the sub-resource called name, creating it on first access.
	Child(name string) Resource
	// Client returns the client the resource belongs to.
	Client() Client

	Get(ctx context.Context, id string, opts ...CallOption) (any, error)
	List(ctx context.Context, opts ...CallOption) (any, error)
	Create(ctx context.Context, body any, opts ...CallOption) (any, error)
	Update(ctx context.Context, id string, body any, opts ...CallOption) (any, error)
	Delete(ctx context.Context, id string, opts ...CallOption) (any, error)
}

// Client is the entry point to an API.
type Client interface {
	// BaseURL is host + "/" + version + "/" (or host + "/" without a version).
	BaseURL() string
	// Resource returns the top-level resource called name. Declared resources
	// are returned by their snake_case name; any other name yields a generic
	// resource created on first access and cached afterwards.
	Resource(name string) Resource
	// Names returns the names of all resources materialised so far, sorted.
	Names() []string
	// Request performs a single request against rawURL, which may be absolute
	// or relative to BaseURL.
	Request(ctx context.Context, method, rawURL string, opts ...CallOption) (any, error)
}

// Declaration registers a resource with the client up front.
type Declaration struct {
	// Name is the resource name in CamelCase, e.g. "SpaceDragon". The client
	// exposes it under its snake_case form ("space_dragon").
	Name string
	// Path overrides the path segment derived from Name.
	Path string
	// Wrap optionally decorates the default implementation.
	Wrap func(base Resource) Resource
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}
