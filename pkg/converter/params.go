package converter

import (
	"encoding/json"

	"github.com/blackcoderx/transformer/pkg/lookup"
	"github.com/blackcoderx/transformer/pkg/parse"
	"github.com/blackcoderx/transformer/pkg/schema"
	v1 "github.com/blackcoderx/transformer/pkg/schema/v1"
	v2 "github.com/blackcoderx/transformer/pkg/schema/v2"
)

const (
	fileParam      = "file"
	contentTypeKey = "contentType"
)

func paramToV1(p v2.Param) v1.Param {
	out := v1.Param{Key: p.Key, Value: p.Value, Type: p.Type, Disabled: p.Disabled}
	if p.Type == fileParam {
		if src, ok := p.Src.(string); ok {
			out.Value = src
		}
	}
	if !p.Description.Empty() {
		out.Description = schema.NewDescription(p.Description.Text())
	}
	if p.ContentType != "" {
		raw, _ := json.Marshal(p.ContentType)
		out.Extra = out.Extra.With(contentTypeKey, raw)
	}
	return out
}

func paramsToV1(params []v2.Param) []v1.Param {
	if len(params) == 0 {
		return nil
	}
	out := make([]v1.Param, 0, len(params))
	for _, p := range params {
		out = append(out, paramToV1(p))
	}
	return out
}

func paramToV2(p v1.Param) v2.Param {
	out := v2.Param{
		Key:      p.Key,
		Value:    p.Value,
		Type:     p.Type,
		Disabled: p.Disabled || (p.Enabled != nil && !*p.Enabled),
	}
	if p.Type == fileParam {
		out.Src, out.Value = p.Value, nil
	}
	if !p.Description.Empty() {
		out.Description = schema.NewDescription(p.Description.Text())
	}
	if raw, ok := p.Extra[contentTypeKey]; ok {
		_ = json.Unmarshal(raw, &out.ContentType)
	}
	return out
}

func paramsToV2(params []v1.Param) []v2.Param {
	if len(params) == 0 {
		return nil
	}
	out := make([]v2.Param, 0, len(params))
	for _, p := range params {
		out = append(out, paramToV2(p))
	}
	return out
}

// rawHeaders writes a header list back as the raw block v1 requests carry
// next to their header data.
func rawHeaders(params []v2.Param) string {
	headers := make([]parse.Header, 0, len(params))
	for _, p := range params {
		headers = append(headers, parse.Header{Key: p.Key, Value: schema.ValueText(p.Value), Disabled: p.Disabled})
	}
	return parse.UnparseHeaders(headers)
}

// bodyToV1 copies a v2 body onto the data fields of out.
func bodyToV1(b *v2.Body, out *v1.Request) {
	if b == nil {
		return
	}
	mode, ok := lookup.DataModeFor(b.Mode)
	if !ok {
		return
	}

	out.DataMode = mode
	out.DataOptions = b.Options
	out.DataDisabled = b.Disabled
	switch b.Mode {
	case "raw":
		out.RawModeData = b.Raw
	case "urlencoded":
		out.Data = paramsToV1(b.URLEncoded)
	case "formdata":
		out.Data = paramsToV1(b.FormData)
	case "file":
		out.Data = []v1.Param{}
	case "graphql":
		out.GraphqlModeData = b.GraphQL
	}
}

// bodyToV2 builds the v2 body of r from its already normalized data.
func bodyToV2(r *v1.Request, data []v1.Param) *v2.Body {
	mode, ok := lookup.BodyModeFor(r.DataMode)
	if !ok {
		return nil
	}

	b := &v2.Body{Mode: mode, Options: r.DataOptions, Disabled: r.DataDisabled}
	switch mode {
	case "raw":
		b.Raw = r.RawModeData
	case "urlencoded":
		b.URLEncoded = paramsToV2(data)
	case "formdata":
		b.FormData = paramsToV2(data)
	case "file":
		b.File = &v2.File{}
	case "graphql":
		b.GraphQL = r.GraphqlModeData
	}
	return b
}

func descriptionText(d *schema.Description) *string {
	if d.Empty() {
		return nil
	}
	text := d.Text()
	return &text
}

func descriptionOf(text *string) *schema.Description {
	if text == nil {
		return nil
	}
	return schema.NewDescription(*text)
}
