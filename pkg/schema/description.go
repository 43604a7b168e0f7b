package schema

import (
	"bytes"
	"encoding/json"
)

// Description is a free-text description. Documents carry it either as a
// plain string or as an object with content and a MIME type.
type Description struct {
	Content string
	Type    string
}

// NewDescription returns nil for empty text.
func NewDescription(text string) *Description {
	if text == "" {
		return nil
	}
	return &Description{Content: text}
}

// Text returns the content of d, or "" for a nil description.
func (d *Description) Text() string {
	if d == nil {
		return ""
	}
	return d.Content
}

// Empty reports whether d carries no content.
func (d *Description) Empty() bool {
	return d == nil || d.Content == ""
}

func (d Description) MarshalJSON() ([]byte, error) {
	if d.Type == "" {
		return json.Marshal(d.Content)
	}
	return json.Marshal(struct {
		Content string `json:"content"`
		Type    string `json:"type"`
	}{d.Content, d.Type})
}

func (d *Description) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*d = Description{}
		return nil
	case len(data) > 0 && data[0] == '"':
		*d = Description{}
		return json.Unmarshal(data, &d.Content)
	}

	var obj struct {
		Content string `json:"content"`
		Type    string `json:"type"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*d = Description{Content: obj.Content, Type: obj.Type}
	return nil
}
