package model

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Params is an ordered set of single-valued query parameters. Keys keep the
// position of their first insertion; later sets replace the value only.
type Params struct {
	keys   []string
	values map[string]string
}

func NewParams() *Params {
	return &Params{values: make(map[string]string)}
}

// ParseParams parses a raw query string, keeping the order keys appear in.
// Malformed pairs are skipped.
func ParseParams(rawQuery string) *Params {
	p := NewParams()
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			continue
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			continue
		}
		p.Set(key, val)
	}
	return p
}

func (p *Params) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p *Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

func (p *Params) Keys() []string {
	return append([]string(nil), p.keys...)
}

func (p *Params) Len() int {
	return len(p.keys)
}

// Merge copies other into p. Other's values win.
func (p *Params) Merge(other *Params) *Params {
	if other == nil {
		return p
	}
	for _, k := range other.keys {
		p.Set(k, other.values[k])
	}
	return p
}

// MergeMap merges m in sorted key order so the encoding is deterministic.
func (p *Params) MergeMap(m map[string]string) *Params {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p.Set(k, m[k])
	}
	return p
}

func (p *Params) Map() map[string]string {
	m := make(map[string]string, len(p.keys))
	for _, k := range p.keys {
		m[k] = p.values[k]
	}
	return m
}

func (p *Params) Values() url.Values {
	v := make(url.Values, len(p.keys))
	for _, k := range p.keys {
		v.Set(k, p.values[k])
	}
	return v
}

// Encode serializes in insertion order, unlike url.Values.Encode which sorts.
func (p *Params) Encode() string {
	var b strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.values[k]))
	}
	return b.String()
}

// formatParam renders an attribute value for use in a url. JSON numbers decode
// as float64, so whole numbers are printed without a fraction.
func formatParam(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprint(val)
	}
}
