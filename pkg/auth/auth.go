// Package auth converts structured auth blocks between their array and map
// layouts, sanitizes them, and maps legacy helper attributes to and from
// structured parameters.
package auth

import (
	"sort"

	"github.com/blackcoderx/transformer/pkg/lookup"
	"github.com/blackcoderx/transformer/pkg/schema"
)

// Options controls how a "noauth" block is treated by Sanitize.
type Options struct {
	// IncludeNoauth keeps a noauth block as {type: noauth}.
	IncludeNoauth bool
	// ExcludeNoauth drops a noauth block. It wins over IncludeNoauth.
	ExcludeNoauth bool
}

// Sanitize returns a clean array form copy of a. Blocks without a type are
// dropped, as are parameters without a key. A noauth block is dropped unless
// opts.IncludeNoauth is set.
func Sanitize(a *schema.Auth, opts Options) *schema.Auth {
	if a == nil || a.Type == "" {
		return nil
	}

	if a.Type == lookup.NoAuthKind {
		if opts.ExcludeNoauth || !opts.IncludeNoauth {
			return nil
		}
		return &schema.Auth{Type: lookup.NoAuthKind}
	}

	if a.Form == schema.MapForm {
		return MapToArray(a)
	}

	out := &schema.Auth{Type: a.Type}
	for _, p := range a.Params {
		if p.Key == "" {
			continue
		}
		out.Params = append(out.Params, p)
	}
	return out
}

// MapToArray returns a in array form. Map form parameters are emitted in key
// order, typed after their JSON value.
func MapToArray(a *schema.Auth) *schema.Auth {
	if a == nil || a.Type == "" {
		return nil
	}

	out := &schema.Auth{Type: a.Type, Form: schema.ArrayForm}
	if a.Form != schema.MapForm {
		if a.Params != nil {
			out.Params = append([]schema.AuthParam(nil), a.Params...)
		}
		return out
	}

	keys := make([]string, 0, len(a.Fields))
	for k := range a.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := a.Fields[k]
		out.Params = append(out.Params, schema.AuthParam{Key: k, Value: v, Type: valueType(v)})
	}
	return out
}

// ArrayToMap returns the parameters of a as a plain object keyed by the
// auth kind. Later duplicates of a key win.
func ArrayToMap(a *schema.Auth) map[string]map[string]any {
	if a == nil || a.Type == "" {
		return nil
	}

	params := make(map[string]any)
	if a.Form == schema.MapForm {
		for k, v := range a.Fields {
			params[k] = v
		}
	} else {
		for _, p := range a.Params {
			if p.Key == "" {
				continue
			}
			params[p.Key] = p.Value
		}
	}
	return map[string]map[string]any{a.Type: params}
}

// ToMapForm returns a in map form, as v2.0.0 documents lay it out.
func ToMapForm(a *schema.Auth) *schema.Auth {
	if a == nil || a.Type == "" {
		return nil
	}
	if a.Type == lookup.NoAuthKind {
		return &schema.Auth{Type: a.Type, Form: schema.MapForm}
	}
	return &schema.Auth{Type: a.Type, Form: schema.MapForm, Fields: ArrayToMap(a)[a.Type]}
}

func valueType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	default:
		return "any"
	}
}
