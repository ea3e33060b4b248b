package model

import (
	"fmt"
	"sort"
	"sync"
)

// RemotePolicy controls whether a related node fetches itself when its parent loads.
type RemotePolicy string

const (
	// RemoteNone relations are filled from the parent's embedded data.
	RemoteNone RemotePolicy = ""
	// RemoteManual relations are filled from embedded data and never fetched by the parent.
	RemoteManual RemotePolicy = "manual"
	// RemoteAutoload relations are fetched as part of the parent's load.
	RemoteAutoload RemotePolicy = "autoload"
	// RemoteLoadOnShow relations are deferred until loaded explicitly.
	RemoteLoadOnShow RemotePolicy = "loadOnShow"
)

func (p RemotePolicy) Valid() bool {
	switch p {
	case RemoteNone, RemoteManual, RemoteAutoload, RemoteLoadOnShow:
		return true
	default:
		return false
	}
}

// IsRemote is true for relations that own their data instead of taking it from the parent.
func (p RemotePolicy) IsRemote() bool {
	return p == RemoteAutoload || p == RemoteLoadOnShow
}

// Relationship declares how the value stored under one attribute name becomes
// a related model or collection.
type Relationship struct {
	// Kind is the target model kind. When Many is set the relation is a
	// collection of Kind.
	Kind        string
	Many        bool
	ForceCreate bool
	Remote      RemotePolicy
	// Reverse names the back-reference set on the related node, and on each
	// item of a related collection, pointing at the owner.
	Reverse string
}

// KindDef is the definition of a model kind. Hooks receive the model they are
// evaluated for.
type KindDef struct {
	Name            string
	URLRoot         string
	URLIDAttribute  string
	ViewAttrs       []string
	DisplayNameAttr string
	Relationships   map[string]Relationship

	URLID       func(m *Model) string
	QueryParams func(m *Model) map[string]string
	ViewURL     func(m *Model) string
}

func (d KindDef) clone() KindDef {
	c := d
	c.ViewAttrs = append([]string(nil), d.ViewAttrs...)
	c.Relationships = make(map[string]Relationship, len(d.Relationships))
	for name, rel := range d.Relationships {
		c.Relationships[name] = rel
	}
	return c
}

// Kind is an immutable, registered KindDef.
type Kind struct {
	def       KindDef
	relNames  []string
	viewAttrs map[string]bool
}

func newKind(def KindDef) *Kind {
	k := &Kind{def: def.clone(), viewAttrs: make(map[string]bool)}
	if k.def.URLIDAttribute == "" {
		k.def.URLIDAttribute = "id"
	}

	for name := range k.def.Relationships {
		k.relNames = append(k.relNames, name)
	}
	sort.Strings(k.relNames)

	for _, a := range k.def.ViewAttrs {
		k.viewAttrs[a] = true
	}

	return k
}

func (k *Kind) Name() string           { return k.def.Name }
func (k *Kind) URLRoot() string        { return k.def.URLRoot }
func (k *Kind) URLIDAttribute() string { return k.def.URLIDAttribute }

func (k *Kind) ViewAttrs() []string {
	return append([]string(nil), k.def.ViewAttrs...)
}

func (k *Kind) IsViewAttr(name string) bool {
	return k.viewAttrs[name]
}

func (k *Kind) Relationship(name string) (Relationship, bool) {
	rel, ok := k.def.Relationships[name]
	return rel, ok
}

// RelationshipNames returns the declared names in sorted order.
func (k *Kind) RelationshipNames() []string {
	return append([]string(nil), k.relNames...)
}

// Def returns a copy of the definition, safe to modify.
func (k *Kind) Def() KindDef {
	return k.def.clone()
}

// Registry holds the kinds of one application. Relationships refer to kinds by
// name so kinds may reference each other cyclically.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]*Kind
}

func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]*Kind)}
}

func (r *Registry) Define(def KindDef) (*Kind, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("%w: kind name is required", ErrConfiguration)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.kinds[def.Name]; ok {
		return nil, fmt.Errorf("%w: kind %s already defined", ErrConfiguration, def.Name)
	}

	k := newKind(def)
	r.kinds[def.Name] = k
	return k, nil
}

func (r *Registry) MustDefine(def KindDef) *Kind {
	k, err := r.Define(def)
	if err != nil {
		panic(err)
	}
	return k
}

// Extend defines name as a copy of parent, after override has been applied to
// the copy. The parent is never modified.
func (r *Registry) Extend(parent, name string, override func(def *KindDef)) (*Kind, error) {
	p, ok := r.Kind(parent)
	if !ok {
		return nil, fmt.Errorf("%w: no such kind %s", ErrConfiguration, parent)
	}

	def := p.Def()
	def.Name = name
	if override != nil {
		override(&def)
	}
	def.Name = name

	return r.Define(def)
}

func (r *Registry) MustExtend(parent, name string, override func(def *KindDef)) *Kind {
	k, err := r.Extend(parent, name, override)
	if err != nil {
		panic(err)
	}
	return k
}

func (r *Registry) Kind(name string) (*Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.kinds[name]
	return k, ok
}

// resolve validates a relationship of owner and returns its target kind.
func (r *Registry) resolve(owner *Kind, name string) (Relationship, *Kind, error) {
	rel, ok := owner.Relationship(name)
	if !ok {
		return rel, nil, &ConfigurationError{Kind: owner.Name(), Relationship: name, Reason: "not declared"}
	}

	if !rel.Remote.Valid() {
		return rel, nil, &ConfigurationError{
			Kind:         owner.Name(),
			Relationship: name,
			Reason:       fmt.Sprintf("unknown remote policy %q", rel.Remote),
		}
	}

	target, ok := r.Kind(rel.Kind)
	if !ok {
		return rel, nil, &ConfigurationError{
			Kind:         owner.Name(),
			Relationship: name,
			Reason:       fmt.Sprintf("unknown kind %q", rel.Kind),
		}
	}

	return rel, target, nil
}
