package model

import "fmt"

// Attrs is a JSON-shaped attribute map.
type Attrs = map[string]any

type PayloadKind int

const (
	PayloadNone PayloadKind = iota
	PayloadReference
	PayloadRecord
	PayloadList
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadNone:
		return "none"
	case PayloadReference:
		return "reference"
	case PayloadRecord:
		return "record"
	case PayloadList:
		return "list"
	default:
		return fmt.Sprintf("PayloadKind(%d)", int(k))
	}
}

// Payload is the value of a relationship attribute, classified once when it
// enters the materializer.
//
//	nil                        -> None
//	{"href": h}                -> Reference
//	{"results": [...], ...}    -> List (Href from "href" when present)
//	{...}                      -> Record
//	[...]                      -> List
//
// ID is only set on references built for remote relations, where a model is
// addressed by its id attribute instead of an href.
type Payload struct {
	Kind   PayloadKind
	Href   string
	ID     any
	Record Attrs
	List   []Attrs
}

func ParsePayload(v any) (Payload, error) {
	switch val := v.(type) {
	case nil:
		return Payload{Kind: PayloadNone}, nil

	case map[string]any:
		href, _ := val["href"].(string)
		if results, ok := val["results"]; ok {
			list, err := toAttrsList(results)
			if err != nil {
				return Payload{}, err
			}
			return Payload{Kind: PayloadList, Href: href, List: list}, nil
		}
		if len(val) == 1 && href != "" {
			return Payload{Kind: PayloadReference, Href: href}, nil
		}
		return Payload{Kind: PayloadRecord, Href: href, Record: val}, nil

	default:
		list, err := toAttrsList(v)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Kind: PayloadList, List: list}, nil
	}
}

func toAttrsList(v any) ([]Attrs, error) {
	switch val := v.(type) {
	case nil:
		return []Attrs{}, nil
	case []Attrs:
		return val, nil
	case []any:
		list := make([]Attrs, 0, len(val))
		for i, item := range val {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: list item %d is %T, not an object", ErrBadPayload, i, item)
			}
			list = append(list, m)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("%w: %T is not an object or list", ErrBadPayload, v)
	}
}

// unwrapResults strips a {"results": X} load envelope.
func unwrapResults(body any) any {
	if m, ok := body.(map[string]any); ok {
		if results, ok := m["results"]; ok {
			return results
		}
	}
	return body
}
