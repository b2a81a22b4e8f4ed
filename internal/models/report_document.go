package models

import (
	"encoding/json"
	"fmt"
)

// Document flattens the report into a plain nested mapping of strings, numbers,
// lists and maps so any downstream renderer can consume it without our types.
func (r Report) Document() (map[string]any, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report document: %w", err)
	}
	return doc, nil
}
