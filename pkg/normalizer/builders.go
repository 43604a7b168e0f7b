package normalizer

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/blackcoderx/transformer/pkg/auth"
	"github.com/blackcoderx/transformer/pkg/builder"
	"github.com/blackcoderx/transformer/pkg/lookup"
	"github.com/blackcoderx/transformer/pkg/parse"
	"github.com/blackcoderx/transformer/pkg/schema"
	v1 "github.com/blackcoderx/transformer/pkg/schema/v1"
	"github.com/blackcoderx/transformer/pkg/vars"
)

// Builders holds the per-field transformations of a v1 document. The
// converters reuse them to reconcile v1 input before changing generation.
type Builders struct {
	opts    builder.Options
	log     *slog.Logger
	mappers *auth.Registry
}

// NewBuilders returns builders configured by opts.
func NewBuilders(opts builder.Options) *Builders {
	return &Builders{
		opts:    opts,
		log:     opts.Log(),
		mappers: opts.Registry(),
	}
}

// Options returns the options the builders were created with.
func (b *Builders) Options() builder.Options {
	return b.opts
}

// ClassifyAuth picks the authoritative auth shape of n. A structured block
// wins when there is no legacy helper or when the legacy fields are exactly
// what the block derives to. Otherwise a legacy helper wins.
func (b *Builders) ClassifyAuth(n *schema.Behavior) schema.AuthSource {
	legacy := schema.IsLegacy(n, schema.FamilyAuth)
	switch {
	case n.Auth != nil && (!legacy || b.agreesAuth(n)):
		return schema.StructuredAuth{Auth: n.Auth}
	case legacy:
		return schema.LegacyAuth{Helper: n.CurrentHelper, Attributes: n.HelperAttributes}
	}
	return nil
}

func (b *Builders) agreesAuth(n *schema.Behavior) bool {
	helper, attrs := b.LegacyAuth(n.Auth)
	return helper == n.CurrentHelper && sameBag(attrs, n.HelperAttributes)
}

func sameBag(a, b map[string]any) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

// ClassifyEvents picks the authoritative script shape of n. An event list
// wins when there are no legacy scripts or when the legacy scripts are
// exactly what the list derives to. Otherwise the legacy scripts win.
func (b *Builders) ClassifyEvents(n *schema.Behavior) schema.EventSource {
	legacy := schema.IsLegacy(n, schema.FamilyEvent)
	switch {
	case n.Events != nil && (!legacy || agreesEvents(n)):
		return schema.StructuredEvents{Events: n.Events}
	case legacy:
		return schema.LegacyScripts{PreRequest: n.PreRequestScript, Tests: n.Tests}
	}
	return nil
}

func agreesEvents(n *schema.Behavior) bool {
	pre, tests, err := LegacyScripts(n.Events)
	return err == nil && pre == n.PreRequestScript && tests == n.Tests
}

// Auth returns the canonical structured auth for src.
func (b *Builders) Auth(src schema.AuthSource) (*schema.Auth, error) {
	switch src := src.(type) {
	case schema.StructuredAuth:
		if src.Auth.Type == lookup.NoAuthKind {
			if b.opts.ExcludeNoauth {
				return nil, nil
			}
			return &schema.Auth{Type: lookup.NoAuthKind}, nil
		}
		return auth.Sanitize(src.Auth, b.opts.AuthOptions()), nil
	case schema.LegacyAuth:
		return b.fromLegacy(src)
	}
	return nil, nil
}

func (b *Builders) fromLegacy(src schema.LegacyAuth) (*schema.Auth, error) {
	kind, ok := lookup.KindForHelper(src.Helper)
	if !ok {
		return nil, fmt.Errorf("%w: %q", builder.ErrUnknownAuthHelper, src.Helper)
	}
	if kind == "" {
		return nil, nil
	}

	a := &schema.Auth{Type: kind}
	if mapper, ok := b.mappers.FromLegacy(src.Helper); ok {
		if params := mapper(src.Attributes); len(params) > 0 {
			a.Params = params
		}
	}
	return a, nil
}

// LegacyAuth derives the legacy helper name and attribute bag of a. Kinds
// without a legacy helper derive to ("", nil).
func (b *Builders) LegacyAuth(a *schema.Auth) (string, map[string]any) {
	if a == nil {
		return "", nil
	}
	helper, ok := lookup.HelperForKind(a.Type)
	if !ok {
		return "", nil
	}
	mapper, ok := b.mappers.FromCurrent(helper)
	if !ok {
		return helper, nil
	}
	return helper, mapper(auth.ArrayToMap(a)[a.Type])
}

// Events returns the canonical event list for src.
func (b *Builders) Events(src schema.EventSource) ([]schema.Event, error) {
	switch src := src.(type) {
	case schema.StructuredEvents:
		if len(src.Events) == 0 {
			return nil, nil
		}
		for i := range src.Events {
			normalizeEvent(&src.Events[i])
		}
		return src.Events, nil
	case schema.LegacyScripts:
		var events []schema.Event
		if src.PreRequest != "" {
			events = append(events, scriptEvent(schema.ListenPreRequest, src.PreRequest))
		}
		if src.Tests != "" {
			events = append(events, scriptEvent(schema.ListenTest, src.Tests))
		}
		return events, nil
	}
	return nil, nil
}

func normalizeEvent(e *schema.Event) {
	if e.Listen == "" {
		e.Listen = schema.ListenTest
	}
	if e.Script == nil {
		return
	}
	if e.Script.Type == "" {
		e.Script.Type = schema.DefaultScriptType
	}
	if e.Script.Exec != nil {
		e.Script.Exec.Split()
	}
}

func scriptEvent(listen, text string) schema.Event {
	return schema.Event{
		Listen: listen,
		Script: &schema.Script{
			Type: schema.DefaultScriptType,
			Exec: &schema.Exec{Lines: strings.Split(text, "\n")},
		},
	}
}

// LegacyScripts rebuilds the preRequestScript and tests strings of an event
// list. Bodies of the same phase are concatenated in list order.
func LegacyScripts(events []schema.Event) (preRequest, tests string, err error) {
	for i, e := range events {
		if e.Script == nil || e.Script.Exec == nil {
			return "", "", fmt.Errorf("%w: event %d has no script", builder.ErrMalformed, i)
		}
		switch e.Listen {
		case schema.ListenPreRequest:
			preRequest += e.Script.Exec.Join()
		case schema.ListenTest:
			tests += e.Script.Exec.Join()
		}
	}
	return preRequest, tests, nil
}

// Variables returns the sanitized list, falling back to env when empty.
func (b *Builders) Variables(list []schema.Variable, env *schema.Environment) []schema.Variable {
	return vars.Resolve(list, env)
}

// Data returns the canonical body data of r.
func (b *Builders) Data(r *v1.Request) []v1.Param {
	switch r.DataMode {
	case "":
		return nil
	case "binary":
		return []v1.Param{}
	}
	if r.Data == nil {
		return nil
	}
	return normalizeParams(r.Data)
}

// HeaderData returns the canonical header list of r. A request without one
// gets it parsed from its raw header block.
func (b *Builders) HeaderData(r *v1.Request) []v1.Param {
	if len(r.HeaderData) > 0 {
		return normalizeParams(r.HeaderData)
	}

	var out []v1.Param
	for _, h := range parse.Headers(r.Headers, true) {
		p := v1.Param{Key: h.Key, Value: h.Value}
		if h.Disabled {
			p.Enabled = boolPtr(false)
		}
		out = append(out, p)
	}
	return out
}

// QueryParams returns the canonical query list of r. A request without one,
// or with an empty one, gets it parsed from its URL.
func (b *Builders) QueryParams(r *v1.Request) []v1.Param {
	if len(r.QueryParams) > 0 {
		return normalizeParams(r.QueryParams)
	}

	var out []v1.Param
	for _, q := range parse.Query(r.URL) {
		out = append(out, v1.Param{Key: q.Key, Value: q.Value, Equals: boolPtr(q.Equals)})
	}
	return out
}

// PathVariableData returns the sanitized path variables of r, derived from
// the pathVariables object when the list is missing.
func (b *Builders) PathVariableData(r *v1.Request) []schema.Variable {
	list := r.PathVariableData
	if len(list) == 0 {
		list = vars.FromMap(r.PathVariables)
	}
	return vars.Resolve(list, nil)
}

func normalizeParams(params []v1.Param) []v1.Param {
	for i := range params {
		if params[i].Description.Empty() {
			params[i].Description = nil
		}
	}
	return params
}

func description(d *string) *string {
	if d == nil || *d == "" {
		return nil
	}
	return d
}

func nonEmpty(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	return ids
}

func boolPtr(v bool) *bool {
	return &v
}
