package schema

import (
	"encoding/json"
	"fmt"
)

// Variable is a key/value record declared on a collection, folder or
// request, or a path variable of a URL.
type Variable struct {
	ID          string       `json:"id,omitempty"`
	Key         string       `json:"key,omitempty"`
	Value       any          `json:"value,omitempty"`
	Type        string       `json:"type,omitempty"`
	Name        string       `json:"name,omitempty"`
	Description *Description `json:"description,omitempty"`
	Disabled    bool         `json:"disabled,omitempty"`
}

// Environment is a named set of values used as the fallback source for
// collection variables.
type Environment struct {
	ID     string     `json:"id,omitempty"`
	Name   string     `json:"name,omitempty"`
	Values []EnvValue `json:"values"`
}

// EnvValue is one entry of an Environment.
type EnvValue struct {
	Key     string `json:"key"`
	Value   any    `json:"value"`
	Type    string `json:"type,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// ValueText renders a decoded JSON value as plain text. Strings are returned
// as-is, nil as "", numbers and booleans in their JSON spelling.
func ValueText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64, bool, json.Number:
		return fmt.Sprint(v)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
