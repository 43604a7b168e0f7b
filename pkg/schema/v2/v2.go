// Package v2 models collection documents of schema generations 2.0.0 and
// 2.1.0: a tree of items where folders nest other items. The two generations
// differ only in the layout of auth parameters (see schema.AuthForm).
package v2

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/blackcoderx/transformer/pkg/parse"
	"github.com/blackcoderx/transformer/pkg/schema"
)

// Schema generations modelled by this package.
const (
	Version20 = "2.0.0"
	Version21 = "2.1.0"
)

// Schema URLs written into Info.Schema.
const (
	SchemaURL20 = "https://schema.getpostman.com/json/collection/v2.0.0/collection.json"
	SchemaURL21 = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"
)

// Collection is the root of a v2 document.
type Collection struct {
	Info                    Info              `json:"info"`
	Item                    []*Item           `json:"item"`
	Event                   []schema.Event    `json:"event,omitempty"`
	Variable                []schema.Variable `json:"variable,omitempty"`
	Auth                    *schema.Auth      `json:"auth,omitempty"`
	ProtocolProfileBehavior any               `json:"protocolProfileBehavior,omitempty"`
}

func (c *Collection) IDFields() (*string, *string) {
	return &c.Info.ID, &c.Info.PostmanID
}

func (c *Collection) ChildNodes() []schema.Node {
	return nodes(c.Item)
}

// Info is the metadata block of a v2 collection.
type Info struct {
	PostmanID   string              `json:"_postman_id,omitempty"`
	ID          string              `json:"id,omitempty"`
	Name        string              `json:"name"`
	Description *schema.Description `json:"description,omitempty"`
	Version     any                 `json:"version,omitempty"`
	Schema      string              `json:"schema"`
}

// Identity returns the collection id, preferring the deprecated field the
// way exporters wrote it.
func (i *Info) Identity() string {
	if i.PostmanID != "" {
		return i.PostmanID
	}
	return i.ID
}

// Item is a request or a folder. Folders carry children under "item";
// older documents used "items".
type Item struct {
	ID                      string              `json:"id,omitempty"`
	PostmanID               string              `json:"_postman_id,omitempty"`
	Name                    string              `json:"name,omitempty"`
	Description             *schema.Description `json:"description,omitempty"`
	Item                    []*Item             `json:"item,omitempty"`
	Items                   []*Item             `json:"items,omitempty"`
	Request                 *Request            `json:"request,omitempty"`
	Response                []*Response         `json:"response,omitempty"`
	Event                   []schema.Event      `json:"event,omitempty"`
	Variable                []schema.Variable   `json:"variable,omitempty"`
	Auth                    *schema.Auth        `json:"auth,omitempty"`
	ProtocolProfileBehavior any                 `json:"protocolProfileBehavior,omitempty"`

	Extra schema.Extra `json:"-"`
}

// IsFolder reports whether it has a child list, even an empty one.
func (it *Item) IsFolder() bool {
	return it.Item != nil || it.Items != nil
}

// Children returns the items under both child list names.
func (it *Item) Children() []*Item {
	if len(it.Items) == 0 {
		return it.Item
	}
	out := make([]*Item, 0, len(it.Item)+len(it.Items))
	out = append(out, it.Item...)
	return append(out, it.Items...)
}

func (it *Item) IDFields() (*string, *string) {
	return &it.ID, &it.PostmanID
}

func (it *Item) ChildNodes() []schema.Node {
	return nodes(it.Children())
}

func nodes(items []*Item) []schema.Node {
	out := make([]schema.Node, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	return out
}

func (it *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	var p plain
	extra, err := schema.DecodeWithExtra(data, &p)
	if err != nil {
		return err
	}
	*it = Item(p)
	it.Extra = extra
	return nil
}

// MarshalJSON keeps an empty folder recognisable as a folder.
func (it Item) MarshalJSON() ([]byte, error) {
	type plain Item
	extra := it.Extra
	if it.IsFolder() && len(it.Item) == 0 && len(it.Items) == 0 {
		extra = extra.With("item", json.RawMessage("[]"))
	}
	return schema.EncodeWithExtra(plain(it), extra)
}

// Param is a key/value entry of headers, query params or form bodies.
type Param struct {
	Key         string              `json:"key"`
	Value       any                 `json:"value,omitempty"`
	Src         any                 `json:"src,omitempty"`
	Type        string              `json:"type,omitempty"`
	ContentType string              `json:"contentType,omitempty"`
	Description *schema.Description `json:"description,omitempty"`
	Disabled    bool                `json:"disabled,omitempty"`
}

// Headers is a header list. Some exporters wrote headers as one raw string;
// that form is parsed on decode.
type Headers []Param

func (h *Headers) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		var list []Param
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*h = list
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed := parse.Headers(raw, false)
	list := make([]Param, 0, len(parsed))
	for _, p := range parsed {
		list = append(list, Param{
			Key:         p.Key,
			Value:       p.Value,
			Description: schema.NewDescription(p.Description),
			Disabled:    p.Disabled,
		})
	}
	*h = list
	return nil
}

// Request is the request of an item. A bare string in its place is the URL.
type Request struct {
	URL         *URL                `json:"url,omitempty"`
	Method      string              `json:"method,omitempty"`
	Header      Headers             `json:"header,omitempty"`
	Body        *Body               `json:"body,omitempty"`
	Auth        *schema.Auth        `json:"auth,omitempty"`
	Description *schema.Description `json:"description,omitempty"`
	Proxy       any                 `json:"proxy,omitempty"`
	Certificate any                 `json:"certificate,omitempty"`

	Extra schema.Extra `json:"-"`
}

func (r *Request) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*r = Request{URL: &URL{Raw: raw}}
		return nil
	}

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

func (r Request) MarshalJSON() ([]byte, error) {
	type plain Request
	return schema.EncodeWithExtra(plain(r), r.Extra)
}

// Body is a request body. Mode selects which of the payload fields is used.
type Body struct {
	Mode       string  `json:"mode,omitempty"`
	Raw        string  `json:"raw,omitempty"`
	URLEncoded []Param `json:"urlencoded,omitempty"`
	FormData   []Param `json:"formdata,omitempty"`
	File       *File   `json:"file,omitempty"`
	GraphQL    any     `json:"graphql,omitempty"`
	Options    any     `json:"options,omitempty"`
	Disabled   bool    `json:"disabled,omitempty"`
}

// File is the payload of a file body.
type File struct {
	Src     any    `json:"src,omitempty"`
	Content string `json:"content,omitempty"`
}

// URL is a request URL. Documents write it either as a string or as an
// object whose Raw member holds the string form.
type URL struct {
	Raw      string            `json:"raw,omitempty"`
	Protocol string            `json:"protocol,omitempty"`
	Host     Segments          `json:"host,omitempty"`
	Port     string            `json:"port,omitempty"`
	Path     Segments          `json:"path,omitempty"`
	Query    []Param           `json:"query,omitempty"`
	Hash     string            `json:"hash,omitempty"`
	Variable []schema.Variable `json:"variable,omitempty"`
}

func (u *URL) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*u = URL{}
		return json.Unmarshal(data, &u.Raw)
	}
	type plain URL
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = URL(p)
	return nil
}

// String returns Raw when set, otherwise the URL rebuilt from its parts.
func (u *URL) String() string {
	if u == nil {
		return ""
	}
	if u.Raw != "" {
		return u.Raw
	}

	var sb strings.Builder
	if u.Protocol != "" {
		sb.WriteString(u.Protocol)
		sb.WriteString("://")
	}
	sb.WriteString(strings.Join(u.Host, "."))
	if u.Port != "" {
		sb.WriteString(":")
		sb.WriteString(u.Port)
	}
	if len(u.Path) > 0 {
		sb.WriteString("/")
		sb.WriteString(strings.Join(u.Path, "/"))
	}
	if len(u.Query) > 0 {
		parts := make([]string, 0, len(u.Query))
		for _, q := range u.Query {
			if q.Disabled {
				continue
			}
			parts = append(parts, q.Key+"="+schema.ValueText(q.Value))
		}
		if len(parts) > 0 {
			sb.WriteString("?")
			sb.WriteString(strings.Join(parts, "&"))
		}
	}
	if u.Hash != "" {
		sb.WriteString("#")
		sb.WriteString(u.Hash)
	}
	return sb.String()
}

// Segments is a host or path split into parts. A plain string decodes as a
// single segment; object segments contribute their value.
type Segments []string

func (s *Segments) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = Segments{one}
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Segments, 0, len(raw))
	for _, r := range raw {
		var seg string
		if err := json.Unmarshal(r, &seg); err == nil {
			out = append(out, seg)
			continue
		}
		var obj struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(r, &obj); err != nil {
			return err
		}
		out = append(out, obj.Value)
	}
	*s = out
	return nil
}

// Response is a saved response of an item.
type Response struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name,omitempty"`
	OriginalRequest *Request `json:"originalRequest,omitempty"`
	Status          string   `json:"status,omitempty"`
	Code            int      `json:"code,omitempty"`
	PreviewLanguage string   `json:"_postman_previewlanguage,omitempty"`
	Header          Headers  `json:"header,omitempty"`
	Cookie          []any    `json:"cookie,omitempty"`
	Body            string   `json:"body,omitempty"`
	ResponseTime    any      `json:"responseTime,omitempty"`

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
