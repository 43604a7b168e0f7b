package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AuthForm tells how the parameters of an Auth are laid out.
type AuthForm int

const (
	// ArrayForm stores parameters as an ordered list of key/value records
	// (v1 and v2.1 documents).
	ArrayForm AuthForm = iota
	// MapForm stores parameters as a plain object (v2.0 documents).
	MapForm
)

// AuthParam is one parameter of an array form auth block.
type AuthParam struct {
	Key   string `json:"key"`
	Value any    `json:"value,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Auth is a structured auth block: a kind tag and the parameters of that
// kind. On the wire the parameters live under a member named after the kind:
//
//	{"type": "basic", "basic": [{"key": "username", "value": "u"}]}
type Auth struct {
	Type   string
	Form   AuthForm
	Params []AuthParam
	Fields map[string]any
}

func (a Auth) MarshalJSON() ([]byte, error) {
	members := map[string]any{"type": a.Type}
	if a.Type == "" {
		members["type"] = nil
	}

	switch a.Form {
	case MapForm:
		if a.Fields != nil && a.Type != "" {
			members[a.Type] = a.Fields
		}
	default:
		if a.Params != nil && a.Type != "" {
			members[a.Type] = a.Params
		}
	}
	return json.Marshal(members)
}

func (a *Auth) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	*a = Auth{}
	if raw, ok := members["type"]; ok {
		if err := json.Unmarshal(raw, &a.Type); err != nil {
			return fmt.Errorf("auth type: %w", err)
		}
	}
	if a.Type == "" {
		return nil
	}

	raw := bytes.TrimSpace(members[a.Type])
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	switch raw[0] {
	case '[':
		a.Form = ArrayForm
		return json.Unmarshal(raw, &a.Params)
	case '{':
		a.Form = MapForm
		return json.Unmarshal(raw, &a.Fields)
	default:
		return fmt.Errorf("auth %q: parameters must be a list or an object", a.Type)
	}
}
