// Package v1 models collection documents of schema generation 1.0.0: a flat
// list of folders and a flat list of requests tied together by id order lists.
package v1

import (
	"bytes"
	"encoding/json"

	"github.com/blackcoderx/transformer/pkg/schema"
)

// Version is the schema generation modelled by this package.
const Version = "1.0.0"

// Collection is the root of a v1 document.
type Collection struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Order        []string   `json:"order,omitempty"`
	FoldersOrder []string   `json:"folders_order,omitempty"`
	Folders      []*Folder  `json:"folders,omitempty"`
	Requests     []*Request `json:"requests,omitempty"`
	Timestamp    any        `json:"timestamp,omitempty"`

	schema.Behavior
}

// Folder groups requests (Order) and sub-folders (FoldersOrder) by id.
type Folder struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  *string  `json:"description,omitempty"`
	Order        []string `json:"order,omitempty"`
	FoldersOrder []string `json:"folders_order,omitempty"`
	CollectionID string   `json:"collectionId,omitempty"`
	Owner        string   `json:"owner,omitempty"`

	schema.Behavior

	Extra schema.Extra `json:"-"`
}

func (f *Folder) UnmarshalJSON(data []byte) error {
	type plain Folder
	var p plain
	extra, err := schema.DecodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*f = Folder(p)
	f.Extra = extra
	return nil
}

func (f Folder) MarshalJSON() ([]byte, error) {
	type plain Folder
	return schema.EncodeWithExtra(plain(f), f.Extra)
}

// Param is a key/value entry of header data, query params or body data.
// Values are kept as decoded: exporters wrote numbers and booleans too.
type Param struct {
	Key         string              `json:"key"`
	Value       any                 `json:"value,omitempty"`
	Name        string              `json:"name,omitempty"`
	Type        string              `json:"type,omitempty"`
	Description *schema.Description `json:"description,omitempty"`
	Enabled     *bool               `json:"enabled,omitempty"`
	Disabled    bool                `json:"disabled,omitempty"`
	Equals      *bool               `json:"equals,omitempty"`

	Extra schema.Extra `json:"-"`
}

func (p *Param) UnmarshalJSON(data []byte) error {
	type plain Param
	var v plain
	extra, err := schema.DecodeWithExtra(data, &v)
	if err != nil {
		return err
	}
	*p = Param(v)
	p.Extra = extra
	return nil
}

func (p Param) MarshalJSON() ([]byte, error) {
	type plain Param
	return schema.EncodeWithExtra(plain(p), p.Extra)
}

// Text returns the value of p as header or query text.
func (p Param) Text() string {
	return schema.ValueText(p.Value)
}

// Request is a v1 request. Legacy documents describe headers as one raw
// string (Headers) and structured ones as a list (HeaderData); both may be
// present.
type Request struct {
	ID               string            `json:"id"`
	Name             string            `json:"name,omitempty"`
	Description      *string           `json:"description,omitempty"`
	URL              string            `json:"url,omitempty"`
	Method           string            `json:"method,omitempty"`
	Headers          string            `json:"headers,omitempty"`
	HeaderData       []Param           `json:"headerData,omitempty"`
	QueryParams      []Param           `json:"queryParams,omitempty"`
	PathVariables    map[string]any    `json:"pathVariables,omitempty"`
	PathVariableData []schema.Variable `json:"pathVariableData,omitempty"`
	DataMode         string            `json:"dataMode,omitempty"`
	Data             []Param           `json:"data,omitempty"`
	RawModeData      string            `json:"rawModeData,omitempty"`
	GraphqlModeData  any               `json:"graphqlModeData,omitempty"`
	DataOptions      any               `json:"dataOptions,omitempty"`
	DataDisabled     bool              `json:"dataDisabled,omitempty"`
	CollectionID     string            `json:"collectionId,omitempty"`
	Folder           string            `json:"folder,omitempty"`
	Responses        []*Response       `json:"responses,omitempty"`

	schema.Behavior

	Extra schema.Extra `json:"-"`
}

func (r *Request) UnmarshalJSON(data []byte) error {
	type plain Request
	var p plain
	extra, err := schema.DecodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*r = Request(p)
	r.Extra = extra
	return nil
}

// MarshalJSON writes an empty, non-nil Data as "data": [] so that a binary
// body stays distinguishable from a request without body data.
func (r Request) MarshalJSON() ([]byte, error) {
	type plain Request
	extra := r.Extra
	if r.Data != nil && len(r.Data) == 0 {
		extra = extra.With("data", json.RawMessage("[]"))
	}
	return schema.EncodeWithExtra(plain(r), extra)
}

// ResponseCode is the status line of a saved response.
type ResponseCode struct {
	Code   int    `json:"code"`
	Name   string `json:"name,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Response is a saved response. Its embedded request is not owned by the
// collection request list.
type Response struct {
	ID           string        `json:"id"`
	Name         string        `json:"name,omitempty"`
	Status       string        `json:"status,omitempty"`
	ResponseCode *ResponseCode `json:"responseCode,omitempty"`
	Time         any           `json:"time,omitempty"`
	Headers      []Param       `json:"headers,omitempty"`
	Cookies      []any         `json:"cookies,omitempty"`
	Mime         string        `json:"mime,omitempty"`
	Text         string        `json:"text,omitempty"`
	Language     string        `json:"language,omitempty"`
	PreviewType  string        `json:"previewType,omitempty"`
	RawDataType  string        `json:"rawDataType,omitempty"`
	Request      *RequestRef   `json:"request,omitempty"`

	Extra schema.Extra `json:"-"`
}

func (r *Response) UnmarshalJSON(data []byte) error {
	type plain Response
	var p plain
	extra, err := schema.DecodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*r = Response(p)
	r.Extra = extra
	return nil
}

func (r Response) MarshalJSON() ([]byte, error) {
	type plain Response
	return schema.EncodeWithExtra(plain(r), r.Extra)
}

// RequestRef is the request a response was recorded for: either a full
// request object or the id of a request elsewhere in the collection.
type RequestRef struct {
	ID      string
	Request *Request
}

func (r RequestRef) MarshalJSON() ([]byte, error) {
	if r.Request != nil {
		return json.Marshal(r.Request)
	}
	if r.ID != "" {
		return json.Marshal(r.ID)
	}
	return []byte("null"), nil
}

func (r *RequestRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = RequestRef{}
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		return json.Unmarshal(data, &r.ID)
	}
	r.Request = new(Request)
	return json.Unmarshal(data, r.Request)
}
