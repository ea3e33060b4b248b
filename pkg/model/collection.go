package model

import (
	"fmt"
	"net/http"
	"strings"
)

// Collection is an ordered list of models of one kind. A collection created
// for a relationship keeps a back reference to its owner and hands the same
// back reference to each of its items.
type Collection struct {
	node

	kind    *Kind
	href    string
	owner   *Model
	relName string
	reverse string
	items   []*Model
}

func newCollection(c *Client, k *Kind) *Collection {
	col := &Collection{kind: k}
	col.node.init(c, col)
	return col
}

// Kind is the kind of the items.
func (c *Collection) Kind() *Kind { return c.kind }

func (c *Collection) Href() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.href
}

// URL is the collection's href, else the owner's url plus the relationship
// name, else the item kind's URLRoot.
func (c *Collection) URL() string {
	if href := c.Href(); href != "" {
		return href
	}

	if c.owner != nil {
		if ou := c.owner.URL(); ou != "" {
			path, _, _ := strings.Cut(ou, "?")
			return strings.TrimSuffix(path, "/") + "/" + c.relName
		}
	}

	return c.kind.URLRoot()
}

func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// At returns the item at i, or nil when i is out of range.
func (c *Collection) At(i int) *Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.items) {
		return nil
	}
	return c.items[i]
}

func (c *Collection) Items() []*Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Model(nil), c.items...)
}

// FindByID returns the item whose id renders the same as id.
func (c *Collection) FindByID(id any) *Model {
	want := formatParam(id)
	if want == "" {
		return nil
	}

	for _, item := range c.Items() {
		if formatParam(item.ID()) == want {
			return item
		}
	}
	return nil
}

// Set replaces the items with list. Items whose id matches an existing item
// update that item in place, so identities survive reloads.
func (c *Collection) Set(list []Attrs) error {
	if err := c.reset(list); err != nil {
		return err
	}
	c.markAssigned()
	return nil
}

func (c *Collection) reset(list []Attrs) error {
	existing := make(map[string]*Model)
	for _, item := range c.Items() {
		if id := formatParam(item.ID()); id != "" {
			existing[id] = item
		}
	}

	items := make([]*Model, 0, len(list))
	for _, attrs := range list {
		id := formatParam(attrs[c.kind.URLIDAttribute()])
		if item, ok := existing[id]; ok && id != "" {
			if err := item.Set(attrs); err != nil {
				return err
			}
			item.markAssigned()
			items = append(items, item)
			delete(existing, id)
			continue
		}

		item := newModel(c.client, c.kind)
		if c.owner != nil {
			item.setBackRef(c.reverse, c.owner)
		}
		if err := item.initialize(attrs); err != nil {
			return err
		}
		item.markAssigned()
		items = append(items, item)
	}

	c.mu.Lock()
	c.items = items
	c.mu.Unlock()

	return nil
}

func (c *Collection) applyPayload(p Payload) error {
	switch p.Kind {
	case PayloadNone:
		return nil
	case PayloadReference:
		c.mu.Lock()
		c.href = p.Href
		c.mu.Unlock()
		c.markReference()
		return nil
	case PayloadList:
		if p.Href != "" {
			c.mu.Lock()
			c.href = p.Href
			c.mu.Unlock()
		}
		return c.Set(p.List)
	default:
		return fmt.Errorf("%w: %s payload for collection of kind %s", ErrBadPayload, p.Kind, c.kind.Name())
	}
}

func (c *Collection) applyResponse(body any) error {
	p, err := ParsePayload(body)
	if err != nil {
		return err
	}

	if p.Kind != PayloadList {
		return fmt.Errorf("%w: %s response for collection of kind %s", ErrBadPayload, p.Kind, c.kind.Name())
	}

	return c.applyPayload(p)
}

func (c *Collection) loadRequest(data map[string]string) (*Request, error) {
	u := c.URL()
	if u == "" {
		return nil, fmt.Errorf("%w: collection of kind %s", ErrNoURL, c.kind.Name())
	}

	path, rawQuery, _ := strings.Cut(u, "?")
	params := ParseParams(rawQuery).MergeMap(data)

	return &Request{Method: http.MethodGet, URL: path, Params: params}, nil
}

func (c *Collection) children() []child {
	items := c.Items()
	out := make([]child, 0, len(items))
	for _, item := range items {
		out = append(out, child{node: item, policy: RemoteNone})
	}
	return out
}

func (c *Collection) ToJSON() []Attrs {
	items := c.Items()
	out := make([]Attrs, 0, len(items))
	for _, item := range items {
		out = append(out, item.ToJSON())
	}
	return out
}

func (c *Collection) ToViewJSON() []Attrs {
	items := c.Items()
	out := make([]Attrs, 0, len(items))
	for _, item := range items {
		out = append(out, item.ToViewJSON())
	}
	return out
}
