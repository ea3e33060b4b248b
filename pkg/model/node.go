package model

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Node is implemented by *Model and *Collection.
type Node interface {
	Kind() *Kind
	URL() string
	Fetched() bool
	Loading() bool
	// Deferred is true for a loadOnShow relation that has not been loaded
	// explicitly yet.
	Deferred() bool
	GetRelated(name string) Node
	On(event string, h Handler) func()
	Load(ctx context.Context, opts ...LoadOption) error
	OnLoad(ctx context.Context) error

	base() *node
	loadRequest(data map[string]string) (*Request, error)
	applyResponse(body any) error
	applyPayload(p Payload) error
	children() []child
}

type slot struct {
	node  Node
	owned bool
}

type child struct {
	node   Node
	policy RemotePolicy
}

// node is the state shared by models and collections.
type node struct {
	emitter

	client *Client
	self   Node

	mu            sync.Mutex
	fetched       bool
	loading       bool
	deferred      bool
	referenceOnly bool
	assigned      bool
	slots         map[string]slot

	flight singleflight.Group
}

func (n *node) init(c *Client, self Node) {
	n.client = c
	n.self = self
	n.slots = make(map[string]slot)
}

func (n *node) base() *node { return n }

func (n *node) Fetched() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.fetched
}

func (n *node) Loading() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.loading
}

func (n *node) Deferred() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.deferred
}

func (n *node) isReferenceOnly() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.referenceOnly
}

// GetRelated returns the related node stored under name, including back
// references, or nil.
func (n *node) GetRelated(name string) Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	s, ok := n.slots[name]
	if !ok {
		return nil
	}
	return s.node
}

func (n *node) slot(name string) (slot, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	s, ok := n.slots[name]
	return s, ok
}

// setBackRef points name at owner unless the slot is already taken.
func (n *node) setBackRef(name string, owner Node) {
	if name == "" || owner == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.slots[name]; ok {
		return
	}
	n.slots[name] = slot{node: owner}
}

func (n *node) emit(name string, data any) {
	n.trigger(n.self, name, data)
}

// markAssigned records that full data, not just an address, has been applied.
func (n *node) markAssigned() {
	n.mu.Lock()
	n.assigned = true
	n.referenceOnly = false
	n.mu.Unlock()
}

func (n *node) markReference() {
	n.mu.Lock()
	if !n.assigned && !n.fetched {
		n.referenceOnly = true
	}
	n.mu.Unlock()
}
