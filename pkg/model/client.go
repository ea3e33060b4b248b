package model

import (
	"context"
	"fmt"

	"github.com/apex/log"
	"github.com/materials-commons/mcrel/pkg/clog"
	"github.com/materials-commons/mcrel/pkg/obj"
)

// Request is a remote call issued by the model layer. URL carries no query
// string; query parameters are in Params.
type Request struct {
	Method string
	URL    string
	Params *Params
	Body   any
}

// Transport performs remote calls. The returned body is JSON-shaped
// (map[string]any, []any or a scalar). Failures should be *TransportError.
type Transport interface {
	Do(ctx context.Context, req *Request) (any, error)
}

type NavigateOptions struct {
	Replace bool
}

// Router is the navigation collaborator used by Model.Navigate and Model.UpdateURL.
type Router interface {
	NavigateWithQueryParams(url string, opts NavigateOptions) error
}

const DefaultMaxConcurrentLoads = 4

// Client binds a registry of kinds to a transport. Every model and collection
// belongs to exactly one client.
type Client struct {
	registry           *Registry
	transport          Transport
	router             Router
	log                *log.Entry
	maxConcurrentLoads int
}

type ClientOption func(c *Client)

func WithRouter(r Router) ClientOption {
	return func(c *Client) {
		if obj.IsNil(r) {
			c.router = nil
			return
		}
		c.router = r
	}
}

func WithLogger(entry *log.Entry) ClientOption {
	return func(c *Client) {
		if entry != nil {
			c.log = entry
		}
	}
}

// WithMaxConcurrentLoads bounds how many remote relations of one node are
// fetched at the same time. Values below 1 are ignored.
func WithMaxConcurrentLoads(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxConcurrentLoads = n
		}
	}
}

func NewClient(registry *Registry, transport Transport, opts ...ClientOption) *Client {
	c := &Client{
		registry:           registry,
		transport:          transport,
		log:                clog.UsingCtx(clog.ModelCtx),
		maxConcurrentLoads: DefaultMaxConcurrentLoads,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Registry() *Registry { return c.registry }

// NewModel creates a model of the named kind and applies attrs. Relationships
// marked ForceCreate are materialized even when attrs has no data for them.
func (c *Client) NewModel(kind string, attrs Attrs) (*Model, error) {
	k, ok := c.registry.Kind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: no such kind %s", ErrConfiguration, kind)
	}

	m := newModel(c, k)
	if err := m.initialize(attrs); err != nil {
		return nil, err
	}

	return m, nil
}

// NewCollection creates a standalone collection of the named item kind.
func (c *Client) NewCollection(kind, href string) (*Collection, error) {
	k, ok := c.registry.Kind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: no such kind %s", ErrConfiguration, kind)
	}

	col := newCollection(c, k)
	col.href = href
	return col, nil
}
