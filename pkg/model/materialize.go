package model

import (
	"fmt"
)

// related returns the node stored under the relationship name, creating it on
// first use. Creation is where the relationship is validated, so a bad remote
// policy or target kind surfaces here and not when the kind is defined.
func (m *Model) related(name string) (Node, error) {
	if s, ok := m.slot(name); ok {
		return s.node, nil
	}

	rel, target, err := m.client.registry.resolve(m.kind, name)
	if err != nil {
		return nil, err
	}

	var n Node
	if rel.Many {
		col := newCollection(m.client, target)
		col.owner = m
		col.relName = name
		col.reverse = rel.Reverse
		col.setBackRef(rel.Reverse, m)
		n = col
	} else {
		rm := newModel(m.client, target)
		rm.setBackRef(rel.Reverse, m)
		if err := rm.initialize(nil); err != nil {
			return nil, err
		}
		n = rm
	}

	if rel.Remote == RemoteLoadOnShow {
		nb := n.base()
		nb.mu.Lock()
		nb.deferred = true
		nb.mu.Unlock()
	}

	m.mu.Lock()
	if s, ok := m.slots[name]; ok {
		m.mu.Unlock()
		return s.node, nil
	}
	m.slots[name] = slot{node: n, owned: true}
	m.mu.Unlock()

	m.client.log.WithField("kind", m.kind.Name()).
		WithField("relationship", name).
		WithField("remote", string(rel.Remote)).
		Debug("materialized relationship")

	return n, nil
}

// setRelated routes the raw value of a relationship key to its related node.
// Remote relations own their data, so only an address is taken from the parent.
// A name held by a back reference is left alone: the owner is never rewritten
// from a child's payload.
func (m *Model) setRelated(name string, v any) error {
	p, err := ParsePayload(v)
	if err != nil {
		return fmt.Errorf("kind %s relationship %s: %w", m.kind.Name(), name, err)
	}

	if p.Kind == PayloadNone {
		return nil
	}

	if s, ok := m.slot(name); ok && !s.owned {
		m.client.log.WithField("kind", m.kind.Name()).
			WithField("relationship", name).
			Debug("ignoring payload for back reference")
		return nil
	}

	n, err := m.related(name)
	if err != nil {
		return err
	}

	rel, _ := m.kind.Relationship(name)
	if rel.Remote.IsRemote() {
		p = addressOf(p, n)
		if p.Kind == PayloadNone {
			return nil
		}
	}

	if err := n.applyPayload(p); err != nil {
		return fmt.Errorf("kind %s relationship %s: %w", m.kind.Name(), name, err)
	}

	return nil
}

// addressOf reduces p to a reference: the href and, for a model, the value of
// its id attribute. Everything else in p is dropped.
func addressOf(p Payload, n Node) Payload {
	ref := Payload{Kind: PayloadReference, Href: p.Href}

	if rm, ok := n.(*Model); ok && p.Kind == PayloadRecord {
		ref.ID = p.Record[rm.kind.URLIDAttribute()]
	}

	if ref.Href == "" && ref.ID == nil {
		return Payload{Kind: PayloadNone}
	}

	return ref
}

func (m *Model) applyPayload(p Payload) error {
	switch p.Kind {
	case PayloadNone:
		return nil
	case PayloadReference:
		attrs := Attrs{}
		if p.Href != "" {
			attrs["href"] = p.Href
		}
		if p.ID != nil {
			attrs[m.kind.URLIDAttribute()] = p.ID
		}
		if err := m.Set(attrs); err != nil {
			return err
		}
		m.markReference()
		return nil
	case PayloadRecord:
		if err := m.Set(p.Record); err != nil {
			return err
		}
		m.markAssigned()
		return nil
	default:
		return fmt.Errorf("%w: %s payload for model of kind %s", ErrBadPayload, p.Kind, m.kind.Name())
	}
}

// applyResponse applies a load response: {"results": X} or a bare X, where X
// is an object or a one element list.
func (m *Model) applyResponse(body any) error {
	switch data := unwrapResults(body).(type) {
	case map[string]any:
		return m.applyPayload(Payload{Kind: PayloadRecord, Record: data})
	case []any:
		if len(data) == 1 {
			if rec, ok := data[0].(map[string]any); ok {
				return m.applyPayload(Payload{Kind: PayloadRecord, Record: rec})
			}
		}
		return fmt.Errorf("%w: list of %d items for model of kind %s", ErrBadPayload, len(data), m.kind.Name())
	default:
		return fmt.Errorf("%w: %T for model of kind %s", ErrBadPayload, data, m.kind.Name())
	}
}
