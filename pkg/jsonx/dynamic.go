// Package jsonx converts typed values into the loosely typed JSON maps that
// vendor SDKs accept for schemas.
package jsonx

import json "github.com/goccy/go-json"

// ToDynamicJSON round-trips val through JSON into a map[string]any.
// Types with custom marshalers (ordered maps, schemas) come out in their
// wire form.
func ToDynamicJSON(val any) (map[string]any, error) {
	b, err := json.Marshal(val)
	if err != nil {
		return nil, err
	}
	result := make(map[string]any)
	if err = json.Unmarshal(b, &result); err != nil {
		return nil, err
	}
	return result, nil
}
