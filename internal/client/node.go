package client

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/fivetwenty-io/restkit/pkg/restkit"
)

var (
	_ restkit.Resource = (*Node)(nil)
	_ restkit.Client   = (*Client)(nil)
)

// Node is the default restkit.Resource implementation.
type Node struct {
	client  *Client
	name    string
	segment string
	parent  restkit.Resource

	mutex    sync.Mutex
	children map[string]restkit.Resource
}

func newNode(client *Client, name, segment string, parent restkit.Resource) *Node {
	return &Node{
		client:   client,
		name:     name,
		segment:  segment,
		parent:   parent,
		children: make(map[string]restkit.Resource),
	}
}

// Name implements restkit.Resource.Name.
func (n *Node) Name() string {
	return n.name
}

// Segment implements restkit.Resource.Segment.
func (n *Node) Segment() string {
	return n.segment
}

// Path implements restkit.Resource.Path.
func (n *Node) Path() string {
	if n.parent == nil {
		return n.segment
	}

	return n.parent.Path() + "/" + n.segment
}

// URL implements restkit.Resource.URL. Each id is escaped as a single path
// element.
func (n *Node) URL(ids ...string) string {
	var builder strings.Builder

	builder.WriteString(n.client.BaseURL())
	builder.WriteString(n.Path())

	for _, id := range ids {
		builder.WriteString("/")
		builder.WriteString(url.PathEscape(id))
	}

	return builder.String()
}

// Parent implements restkit.Resource.Parent.
func (n *Node) Parent() restkit.Resource {
	return n.parent
}

// Client implements restkit.Resource.Client.
func (n *Node) Client() restkit.Client {
	return n.client
}

// Child implements restkit.Resource.Child.
func (n *Node) Child(name string) restkit.Resource {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	if child, ok := n.children[name]; ok {
		return child
	}

	child := newNode(n.client, name, restkit.PathSegment(name, n.client.config.Pluralize), n)
	n.children[name] = child

	return child
}

// Get implements restkit.Resource.Get.
func (n *Node) Get(ctx context.Context, id string, opts ...restkit.CallOption) (any, error) {
	options := restkit.NewCallOptions(opts...)

	if id == "" && options.URL == "" {
		return nil, n.missingIdentifier("get")
	}

	result, err := n.client.perform(ctx, nethttp.MethodGet, n.target(options, id), nil, options)
	if err != nil {
		return nil, fmt.Errorf("getting %s %q: %w", n.Path(), id, err)
	}

	return result, nil
}

// List implements restkit.Resource.List.
func (n *Node) List(ctx context.Context, opts ...restkit.CallOption) (any, error) {
	options := restkit.NewCallOptions(opts...)

	result, err := n.client.perform(ctx, nethttp.MethodGet, n.target(options), nil, options)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", n.Path(), err)
	}

	return result, nil
}

// Create implements restkit.Resource.Create. A nil body with WithForm sends
// the form instead.
func (n *Node) Create(ctx context.Context, body any, opts ...restkit.CallOption) (any, error) {
	options := restkit.NewCallOptions(opts...)
	options.Paginate = false

	result, err := n.client.perform(ctx, nethttp.MethodPost, n.target(options), body, options)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", n.Path(), err)
	}

	return result, nil
}

// Update implements restkit.Resource.Update.
func (n *Node) Update(ctx context.Context, id string, body any, opts ...restkit.CallOption) (any, error) {
	options := restkit.NewCallOptions(opts...)
	options.Paginate = false

	if id == "" && options.URL == "" {
		return nil, n.missingIdentifier("update")
	}

	result, err := n.client.perform(ctx, nethttp.MethodPut, n.target(options, id), body, options)
	if err != nil {
		return nil, fmt.Errorf("updating %s %q: %w", n.Path(), id, err)
	}

	return result, nil
}

// Delete implements restkit.Resource.Delete. The default resource does not
// support deletion; wrap it in a Declaration to provide one.
func (n *Node) Delete(ctx context.Context, id string, opts ...restkit.CallOption) (any, error) {
	return nil, &restkit.NotSupportedError{Operation: "delete", Path: n.Path()}
}

// target returns the override URL when one was given, otherwise the resource
// URL with ids appended.
func (n *Node) target(options *restkit.CallOptions, ids ...string) string {
	if options.URL != "" {
		return options.URL
	}

	return n.URL(ids...)
}

func (n *Node) missingIdentifier(operation string) error {
	return &restkit.ConfigurationError{
		Field:  "id",
		Reason: fmt.Sprintf("%s on %s: %s", operation, n.Path(), restkit.ErrIdentifierMissing),
		Err:    restkit.ErrIdentifierMissing,
	}
}
