package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

const loadFlightKey = "load"

type LoadOption func(o *loadOptions)

type loadOptions struct {
	data      map[string]string
	onSuccess func()
	onError   func(err error)
}

// WithData adds query parameters to the load request. They win over the
// model's own query params.
func WithData(data map[string]string) LoadOption {
	return func(o *loadOptions) { o.data = data }
}

// OnSuccess is called once the node itself has loaded, after its cascade.
func OnSuccess(fn func()) LoadOption {
	return func(o *loadOptions) { o.onSuccess = fn }
}

// OnError is called when the node's own request or response handling fails.
func OnError(fn func(err error)) LoadOption {
	return func(o *loadOptions) { o.onError = fn }
}

// loadRun is the state of one top level load. Every node completes at most
// once per run, which keeps cyclic graphs finite.
type loadRun struct {
	mu      sync.Mutex
	visited map[*node]bool
}

func newLoadRun() *loadRun {
	return &loadRun{visited: make(map[*node]bool)}
}

// visit returns false when n was already visited in this run.
func (r *loadRun) visit(n Node) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := n.base()
	if r.visited[b] {
		return false
	}
	r.visited[b] = true
	return true
}

func (m *Model) Load(ctx context.Context, opts ...LoadOption) error {
	return load(ctx, m, opts)
}

func (c *Collection) Load(ctx context.Context, opts ...LoadOption) error {
	return load(ctx, c, opts)
}

// OnLoad completes a load for data applied with Set: the model is marked
// fetched, fires load, and cascades into its relations the same way a
// fetched response would.
func (m *Model) OnLoad(ctx context.Context) error {
	return onLoad(ctx, m)
}

func (c *Collection) OnLoad(ctx context.Context) error {
	return onLoad(ctx, c)
}

func onLoad(ctx context.Context, n Node) error {
	run := newLoadRun()
	run.visit(n)
	return complete(ctx, run, n)
}

// load fetches n unless a load of n is already in flight, in which case the
// caller waits for that load and shares its result. Either way the caller's
// callbacks run.
func load(ctx context.Context, n Node, opts []LoadOption) error {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	b := n.base()
	_, err, shared := b.flight.Do(loadFlightKey, func() (any, error) {
		run := newLoadRun()
		run.visit(n)
		return nil, fetch(ctx, run, n, o.data)
	})

	if shared {
		b.client.log.WithField("kind", n.Kind().Name()).
			WithField("url", n.URL()).
			Debug("joined in-flight load")
	}

	switch {
	case err == nil || errors.Is(err, ErrRelatedLoad):
		if o.onSuccess != nil {
			o.onSuccess()
		}
	case o.onError != nil:
		o.onError(err)
	}

	return err
}

// fetch requests n, applies the response and completes the load.
func fetch(ctx context.Context, run *loadRun, n Node, data map[string]string) error {
	b := n.base()
	c := b.client

	b.mu.Lock()
	b.loading = true
	b.deferred = false
	b.mu.Unlock()

	entry := c.log.WithField("kind", n.Kind().Name())
	b.emit(EventBeginLoad, nil)

	body, err := func() (any, error) {
		req, err := n.loadRequest(data)
		if err != nil {
			return nil, err
		}
		entry = entry.WithField("url", req.URL)
		entry.Debug("begin load")
		return c.transport.Do(ctx, req)
	}()

	if err == nil {
		err = n.applyResponse(body)
	}

	if err != nil {
		b.mu.Lock()
		b.loading = false
		b.mu.Unlock()

		entry.WithError(err).Warn("load failed")
		b.emit(EventError, err)
		return err
	}

	return complete(ctx, run, n)
}

// complete marks n fetched, fires its load event and then cascades. n's own
// event always precedes the events of anything below it.
func complete(ctx context.Context, run *loadRun, n Node) error {
	b := n.base()

	b.mu.Lock()
	b.loading = false
	b.fetched = true
	b.referenceOnly = false
	b.mu.Unlock()

	b.emit(EventLoad, nil)

	return cascade(ctx, run, n)
}

// cascade completes embedded children depth first, then fetches remote
// children concurrently. A remote child already loading elsewhere is joined,
// not skipped, so n's cascade ends only once every child has loaded. Deferred
// loadOnShow children and remote models without an address are left alone.
//
// Owned relations form a tree and waits only run from a node to its children,
// so joining another run's flight cannot deadlock.
func cascade(ctx context.Context, run *loadRun, n Node) error {
	c := n.base().client

	var (
		errs   []error
		remote []Node
	)

	for _, ch := range n.children() {
		if !run.visit(ch.node) {
			continue
		}

		cb := ch.node.base()
		if ch.policy.IsRemote() {
			if cb.Deferred() {
				c.log.WithField("kind", ch.node.Kind().Name()).Debug("load deferred until shown")
				continue
			}
			if rm, ok := ch.node.(*Model); ok && rm.IsNew() {
				c.log.WithField("kind", rm.Kind().Name()).Debug("remote relation has no address")
				continue
			}
			remote = append(remote, ch.node)
			continue
		}

		if cb.isReferenceOnly() {
			continue
		}

		if err := complete(ctx, run, ch.node); err != nil {
			errs = append(errs, err)
		}
	}

	if len(remote) > 0 {
		var g errgroup.Group
		g.SetLimit(c.maxConcurrentLoads)

		for _, rn := range remote {
			rn := rn
			g.Go(func() error {
				_, err, _ := rn.base().flight.Do(loadFlightKey, func() (any, error) {
					return nil, fetch(ctx, run, rn, nil)
				})
				return err
			})
		}

		if err := g.Wait(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrRelatedLoad, errors.Join(errs...))
	}

	return nil
}
