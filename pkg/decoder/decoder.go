package decoder

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeMap converts a JSON-shaped map into T, ignoring keys T does not declare.
func DecodeMap[T any](m map[string]any) (T, error) {
	var out T

	b, err := json.Marshal(m)
	if err != nil {
		return out, fmt.Errorf("failed to marshal map: %w", err)
	}

	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&out); err != nil {
		return out, fmt.Errorf("failed to decode map: %w", err)
	}

	return out, nil
}
