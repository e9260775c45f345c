package zscaler

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// members returns the elements of a JSON array or the values of a JSON
// object, in document order.
func members(raw json.RawMessage) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '[' && delim != '{') {
		return nil, fmt.Errorf("expected array or object, got %v", tok)
	}

	var out []json.RawMessage
	for dec.More() {
		if delim == '{' {
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
