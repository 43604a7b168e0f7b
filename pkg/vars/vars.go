// Package vars sanitizes variable lists and resolves them against a fallback
// environment.
package vars

import (
	"sort"

	"github.com/blackcoderx/transformer/pkg/schema"
)

// Resolve returns a sanitized copy of list. When list is empty the values of
// fallback are used instead. An empty result is returned as nil.
func Resolve(list []schema.Variable, fallback *schema.Environment) []schema.Variable {
	if len(list) == 0 {
		list = fromEnvironment(fallback)
	}
	if len(list) == 0 {
		return nil
	}

	out := make([]schema.Variable, 0, len(list))
	for _, v := range list {
		out = append(out, sanitize(v))
	}
	return out
}

// FromMap builds a variable list from a plain key/value object, in key order.
func FromMap(m map[string]any) []schema.Variable {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]schema.Variable, 0, len(keys))
	for _, k := range keys {
		out = append(out, schema.Variable{Key: k, Value: m[k]})
	}
	return out
}

func sanitize(v schema.Variable) schema.Variable {
	if v.Key == "" {
		v.Key = v.ID
	}
	if v.Description.Empty() {
		v.Description = nil
	}
	return v
}

func fromEnvironment(env *schema.Environment) []schema.Variable {
	if env == nil {
		return nil
	}

	out := make([]schema.Variable, 0, len(env.Values))
	for _, ev := range env.Values {
		v := schema.Variable{Key: ev.Key, Value: ev.Value, Type: ev.Type}
		if ev.Enabled != nil && !*ev.Enabled {
			v.Disabled = true
		}
		out = append(out, v)
	}
	return out
}
