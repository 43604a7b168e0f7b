package auth

import (
	"sync"

	"github.com/blackcoderx/transformer/pkg/schema"
)

// LegacyMapper turns a legacy helper attribute bag into structured params.
type LegacyMapper func(attrs map[string]any) []schema.AuthParam

// CurrentMapper turns structured params, keyed by name, into a legacy
// helper attribute bag.
type CurrentMapper func(params map[string]any) map[string]any

// field maps one legacy helper attribute to its structured param.
type field struct {
	legacy  string
	current string
	typ     string
}

// helper describes the attribute layout of one legacy auth helper.
type helper struct {
	id     string
	fields []field
}

var helpers = map[string]helper{
	"basicAuth": {
		id: "basic",
		fields: []field{
			{"username", "username", "string"},
			{"password", "password", "string"},
			{"saveToRequest", "saveHelperData", "boolean"},
		},
	},
	"digestAuth": {
		id: "digest",
		fields: []field{
			{"username", "username", "string"},
			{"realm", "realm", "string"},
			{"password", "password", "string"},
			{"nonce", "nonce", "string"},
			{"nonceCount", "nonceCount", "string"},
			{"algorithm", "algorithm", "string"},
			{"qop", "qop", "string"},
			{"clientNonce", "clientNonce", "string"},
			{"opaque", "opaque", "string"},
			{"disableRetryRequest", "disableRetryRequest", "boolean"},
		},
	},
	"hawkAuth": {
		id: "hawk",
		fields: []field{
			{"hawk_id", "authId", "string"},
			{"hawk_key", "authKey", "string"},
			{"algorithm", "algorithm", "string"},
			{"user", "user", "string"},
			{"saveToRequest", "saveHelperData", "boolean"},
			{"nonce", "nonce", "string"},
			{"ext", "extraData", "string"},
			{"app", "appId", "string"},
			{"dlg", "delegation", "string"},
			{"timestamp", "timestamp", "string"},
		},
	},
	"oAuth1": {
		id: "oAuth1",
		fields: []field{
			{"consumerKey", "consumerKey", "string"},
			{"consumerSecret", "consumerSecret", "string"},
			{"token", "token", "string"},
			{"tokenSecret", "tokenSecret", "string"},
			{"signatureMethod", "signatureMethod", "string"},
			{"timestamp", "timestamp", "string"},
			{"nonce", "nonce", "string"},
			{"version", "version", "string"},
			{"realm", "realm", "string"},
			{"header", "addParamsToHeader", "boolean"},
			{"auto", "autoAddParam", "boolean"},
			{"includeEmpty", "addEmptyParamsToSign", "boolean"},
		},
	},
	"awsSigV4": {
		id: "awsSigV4",
		fields: []field{
			{"accessKey", "accessKey", "string"},
			{"secretKey", "secretKey", "string"},
			{"region", "region", "string"},
			{"service", "service", "string"},
			{"saveToRequest", "saveHelperData", "boolean"},
		},
	},
}

func (h helper) fromLegacy(attrs map[string]any) []schema.AuthParam {
	if attrs == nil {
		return nil
	}

	var params []schema.AuthParam
	for _, f := range h.fields {
		v, ok := attrs[f.legacy]
		if !ok {
			continue
		}
		params = append(params, schema.AuthParam{Key: f.current, Value: v, Type: f.typ})
	}
	return params
}

func (h helper) fromCurrent(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}

	attrs := make(map[string]any)
	for _, f := range h.fields {
		if v, ok := params[f.current]; ok {
			attrs[f.legacy] = v
		}
	}
	if len(attrs) == 0 {
		return nil
	}
	attrs["id"] = h.id
	return attrs
}

// Registry holds the per-helper mappers, keyed by legacy helper name.
type Registry struct {
	mu          sync.RWMutex
	fromLegacy  map[string]LegacyMapper
	fromCurrent map[string]CurrentMapper
}

// NewRegistry returns a registry preloaded with the built-in helpers.
func NewRegistry() *Registry {
	r := &Registry{
		fromLegacy:  make(map[string]LegacyMapper),
		fromCurrent: make(map[string]CurrentMapper),
	}
	for name, h := range helpers {
		r.Register(name, h.fromLegacy, h.fromCurrent)
	}
	return r
}

// Register adds or replaces the mappers of a helper. Either may be nil.
func (r *Registry) Register(helper string, from LegacyMapper, to CurrentMapper) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if from != nil {
		r.fromLegacy[helper] = from
	}
	if to != nil {
		r.fromCurrent[helper] = to
	}
}

// FromLegacy returns the legacy-to-structured mapper of a helper.
func (r *Registry) FromLegacy(helper string) (LegacyMapper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.fromLegacy[helper]
	return m, ok
}

// FromCurrent returns the structured-to-legacy mapper of a helper.
func (r *Registry) FromCurrent(helper string) (CurrentMapper, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.fromCurrent[helper]
	return m, ok
}

// DefaultRegistry is the registry used when none is configured.
var DefaultRegistry = NewRegistry()
