package model

import (
	"fmt"
	"net/http"
	"strings"
)

// NewSegment marks an href that addresses a resource not yet persisted.
const NewSegment = "new"

// URL returns the model's address: its href when set, "" when the kind has no
// URLRoot, otherwise URLRoot/urlID.
func (m *Model) URL() string {
	if href := m.Href(); href != "" {
		return href
	}

	root := m.kind.URLRoot()
	if root == "" {
		return ""
	}

	id := m.urlID()
	if id == "" {
		return root
	}

	return strings.TrimSuffix(root, "/") + "/" + id
}

func (m *Model) urlID() string {
	if m.kind.def.URLID != nil {
		return m.kind.def.URLID(m)
	}
	return formatParam(m.Get(m.kind.URLIDAttribute()))
}

// IsNew reports whether the model has no persisted identity: its href ends in
// the "new" segment, or it has neither an href nor an id.
func (m *Model) IsNew() bool {
	if href := m.Href(); href != "" {
		path, _, _ := strings.Cut(href, "?")
		path = strings.TrimSuffix(path, "/")
		return path == NewSegment || strings.HasSuffix(path, "/"+NewSegment)
	}

	return m.urlID() == ""
}

// viewParams returns the values of the kind's view attributes in declaration order.
func (m *Model) viewParams() *Params {
	p := NewParams()
	for _, name := range m.kind.ViewAttrs() {
		v := m.Get(name)
		if v == nil {
			continue
		}
		p.Set(name, formatParam(v))
	}
	return p
}

// QueryParams are sent with every load: the view attributes followed by the
// kind's QueryParams hook.
func (m *Model) QueryParams() *Params {
	p := m.viewParams()
	if m.kind.def.QueryParams != nil {
		p.MergeMap(m.kind.def.QueryParams(m))
	}
	return p
}

// URLWithParams returns URL() with the href's own query params, then the view
// attributes, then overrides. Later sources replace values of earlier ones.
func (m *Model) URLWithParams(overrides map[string]string) string {
	path, rawQuery, _ := strings.Cut(m.URL(), "?")

	p := ParseParams(rawQuery).
		Merge(m.viewParams()).
		MergeMap(overrides)

	if p.Len() == 0 {
		return path
	}
	return path + "?" + p.Encode()
}

func (m *Model) viewURL() string {
	if m.kind.def.ViewURL != nil {
		return m.kind.def.ViewURL(m)
	}
	return m.URLWithParams(nil)
}

// Navigate sends the router to the model's view url.
func (m *Model) Navigate() error {
	return m.navigate(NavigateOptions{})
}

// UpdateURL replaces the router's current location with the model's view url.
func (m *Model) UpdateURL() error {
	return m.navigate(NavigateOptions{Replace: true})
}

func (m *Model) navigate(opts NavigateOptions) error {
	if m.client.router == nil {
		return ErrNoRouter
	}

	u := m.viewURL()
	if err := m.client.router.NavigateWithQueryParams(u, opts); err != nil {
		return fmt.Errorf("navigate to %s: %w", u, err)
	}

	return nil
}

func (m *Model) loadRequest(data map[string]string) (*Request, error) {
	u := m.URL()
	if u == "" {
		return nil, fmt.Errorf("%w: kind %s", ErrNoURL, m.kind.Name())
	}

	path, rawQuery, _ := strings.Cut(u, "?")
	params := ParseParams(rawQuery).
		Merge(m.QueryParams()).
		MergeMap(data)

	return &Request{Method: http.MethodGet, URL: path, Params: params}, nil
}
