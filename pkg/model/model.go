package model

import (
	"reflect"
	"sort"
)

// Model is a single addressable record. Attribute keys that name a declared
// relationship are not stored as attributes; they are materialized into related
// nodes reachable through GetRelated.
type Model struct {
	node

	kind    *Kind
	attrs   Attrs
	invalid any
}

func newModel(c *Client, k *Kind) *Model {
	m := &Model{kind: k, attrs: make(Attrs)}
	m.node.init(c, m)
	return m
}

// initialize applies the first attributes and creates forced relationships.
func (m *Model) initialize(attrs Attrs) error {
	if err := m.Set(attrs); err != nil {
		return err
	}

	for _, name := range m.kind.RelationshipNames() {
		rel, _ := m.kind.Relationship(name)
		if !rel.ForceCreate {
			continue
		}
		if _, err := m.related(name); err != nil {
			return err
		}
	}

	return nil
}

func (m *Model) Kind() *Kind { return m.kind }

func (m *Model) Get(key string) any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attrs[key]
}

func (m *Model) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.attrs[key]
	return ok
}

func (m *Model) ID() any {
	return m.Get(m.kind.URLIDAttribute())
}

func (m *Model) Href() string {
	href, _ := m.Get("href").(string)
	return href
}

// Attributes returns a copy of the plain attributes.
func (m *Model) Attributes() Attrs {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(Attrs, len(m.attrs))
	for k, v := range m.attrs {
		out[k] = v
	}
	return out
}

func (m *Model) SetValue(key string, value any) error {
	return m.Set(Attrs{key: value})
}

func (m *Model) Unset(key string) error {
	return m.Set(Attrs{key: nil})
}

type change struct {
	key   string
	value any
}

// Set merges attrs into the model. Keys are applied in sorted order and
// relationship keys are handed to the materializer, never stored as
// attributes. Once every key is applied, each changed plain attribute fires
// change:<key>, followed by a single change event. A nil value removes the key.
func (m *Model) Set(attrs Attrs) error {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		changes []change
		rels    []string
	)

	m.mu.Lock()
	for _, k := range keys {
		if _, ok := m.kind.Relationship(k); ok {
			rels = append(rels, k)
			continue
		}

		v := attrs[k]
		cur, exists := m.attrs[k]
		switch {
		case v == nil && !exists:
			continue
		case v == nil:
			delete(m.attrs, k)
		case exists && reflect.DeepEqual(cur, v):
			continue
		default:
			m.attrs[k] = v
		}
		changes = append(changes, change{key: k, value: v})
	}
	m.mu.Unlock()

	var err error
	for _, name := range rels {
		if err = m.setRelated(name, attrs[name]); err != nil {
			break
		}
	}

	for _, c := range changes {
		m.emit(ChangeEvent(c.key), c.value)
	}
	if len(changes) > 0 {
		m.emit(EventChange, nil)
	}

	return err
}

// RelatedModel is GetRelated narrowed to a model.
func (m *Model) RelatedModel(name string) *Model {
	rm, _ := m.GetRelated(name).(*Model)
	return rm
}

// RelatedCollection is GetRelated narrowed to a collection.
func (m *Model) RelatedCollection(name string) *Collection {
	rc, _ := m.GetRelated(name).(*Collection)
	return rc
}

// Invalid returns the payload of the last invalid event, or nil once a save
// has succeeded.
func (m *Model) Invalid() any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalid
}

// DisplayName returns the value of the kind's display name attribute, or nil
// when the kind has none.
func (m *Model) DisplayName() any {
	if m.kind.def.DisplayNameAttr == "" {
		return nil
	}
	return m.Get(m.kind.def.DisplayNameAttr)
}

// ToJSON returns the persistable attributes: view attributes are left out,
// owned relations are included. Back references are never followed.
func (m *Model) ToJSON() Attrs {
	out := make(Attrs)
	for k, v := range m.Attributes() {
		if m.kind.IsViewAttr(k) {
			continue
		}
		out[k] = v
	}

	for name, s := range m.ownedSlots() {
		switch rel := s.(type) {
		case *Model:
			out[name] = rel.ToJSON()
		case *Collection:
			out[name] = rel.ToJSON()
		}
	}

	return out
}

// ToViewJSON is ToJSON plus view attributes and displayName.
func (m *Model) ToViewJSON() Attrs {
	out := make(Attrs)
	for k, v := range m.Attributes() {
		out[k] = v
	}

	for name, s := range m.ownedSlots() {
		switch rel := s.(type) {
		case *Model:
			out[name] = rel.ToViewJSON()
		case *Collection:
			out[name] = rel.ToViewJSON()
		}
	}

	if dn := m.DisplayName(); dn != nil {
		out["displayName"] = dn
	}

	return out
}

func (m *Model) ownedSlots() map[string]Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	owned := make(map[string]Node)
	for name, s := range m.slots {
		if s.owned {
			owned[name] = s.node
		}
	}
	return owned
}

func (m *Model) children() []child {
	var out []child
	for _, name := range m.kind.RelationshipNames() {
		s, ok := m.slot(name)
		if !ok || !s.owned {
			continue
		}
		rel, _ := m.kind.Relationship(name)
		out = append(out, child{node: s.node, policy: rel.Remote})
	}
	return out
}
