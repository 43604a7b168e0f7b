package converter

import (
	"fmt"
	"log/slog"

	"github.com/blackcoderx/transformer/pkg/auth"
	"github.com/blackcoderx/transformer/pkg/builder"
	"github.com/blackcoderx/transformer/pkg/normalizer"
	"github.com/blackcoderx/transformer/pkg/schema"
	v1 "github.com/blackcoderx/transformer/pkg/schema/v1"
	v2 "github.com/blackcoderx/transformer/pkg/schema/v2"
)

// formFunc lays out an array form auth block the way the target generation
// expects it.
type formFunc func(a *schema.Auth) *schema.Auth

func arrayForm(a *schema.Auth) *schema.Auth {
	return auth.MapToArray(a)
}

// ToV2 converts v1 documents to one v2 generation. Auth, scripts and
// request fields are reconciled by the v1 normalizer builders first.
type ToV2 struct {
	opts      builder.Options
	log       *slog.Logger
	norm      *normalizer.Builders
	schemaURL string
	form      formFunc
}

// NewToV2 returns a converter from v1 to the given v2 generation.
func NewToV2(to string, opts builder.Options) (*ToV2, error) {
	c := &ToV2{opts: opts, log: opts.Log(), norm: normalizer.NewBuilders(opts)}
	switch to {
	case v2.Version20:
		c.schemaURL, c.form = v2.SchemaURL20, auth.ToMapForm
	case v2.Version21:
		c.schemaURL, c.form = v2.SchemaURL21, arrayForm
	default:
		return nil, fmt.Errorf("%w: %s to %q", ErrUnsupportedVersion, v1.Version, to)
	}
	return c, nil
}

// resolver finds a collection request by id.
type resolver func(id string) *v1.Request

type toV2Request struct {
	c       *ToV2
	in      *v1.Request
	out     *v2.Item
	req     *v2.Request
	resolve resolver

	skipResponses bool
}

type toV2Response struct {
	c       *ToV2
	in      *v1.Response
	out     *v2.Response
	resolve resolver
}

var (
	toV2RequestUnits  []builder.Unit[*toV2Request]
	toV2ResponseUnits []builder.Unit[*toV2Response]
)

func init() {
	toV2RequestUnits = []builder.Unit[*toV2Request]{
		{Name: "id", Apply: func(s *toV2Request) error {
			s.out.ID = s.c.opts.NewID(s.in.ID)
			return nil
		}},
		{Name: "name", Apply: func(s *toV2Request) error {
			s.out.Name = s.in.Name
			return nil
		}},
		{Name: "description", Apply: func(s *toV2Request) error {
			s.req.Description = descriptionOf(s.in.Description)
			return nil
		}},
		{Name: "url", Apply: func(s *toV2Request) error {
			u := &v2.URL{
				Raw:      s.in.URL,
				Query:    paramsToV2(s.c.norm.QueryParams(s.in)),
				Variable: s.c.norm.PathVariableData(s.in),
			}
			if u.Raw != "" || u.Query != nil || u.Variable != nil {
				s.req.URL = u
			}
			return nil
		}},
		{Name: "method", Apply: func(s *toV2Request) error {
			s.req.Method = s.in.Method
			if s.req.Method == "" {
				s.req.Method = defaultMethod
			}
			return nil
		}},
		{Name: "header", Apply: func(s *toV2Request) error {
			s.req.Header = paramsToV2(s.c.norm.HeaderData(s.in))
			return nil
		}},
		{Name: "body", Apply: func(s *toV2Request) error {
			s.req.Body = bodyToV2(s.in, s.c.norm.Data(s.in))
			return nil
		}},
		{Name: "auth", Apply: func(s *toV2Request) error {
			a, err := s.c.norm.Auth(s.c.norm.ClassifyAuth(&s.in.Behavior))
			s.req.Auth = s.c.form(a)
			return err
		}},
		{Name: "event", Apply: func(s *toV2Request) error {
			events, err := s.c.norm.Events(s.c.norm.ClassifyEvents(&s.in.Behavior))
			s.out.Event = events
			return err
		}},
		{Name: "variable", Apply: func(s *toV2Request) error {
			s.out.Variable = s.c.norm.Variables(s.in.Variables, nil)
			return nil
		}},
		{Name: "response", Apply: func(s *toV2Request) error {
			if s.skipResponses {
				return nil
			}
			for _, resp := range s.in.Responses {
				if resp == nil {
					continue
				}
				r, err := s.c.response(resp, s.resolve)
				if err != nil {
					return err
				}
				s.out.Response = append(s.out.Response, r)
			}
			return nil
		}},
	}

	toV2ResponseUnits = []builder.Unit[*toV2Response]{
		{Name: "id", Apply: func(s *toV2Response) error {
			s.out.ID = s.c.opts.NewID(s.in.ID)
			return nil
		}},
		{Name: "name", Apply: func(s *toV2Response) error {
			s.out.Name = s.in.Name
			return nil
		}},
		{Name: "status", Apply: func(s *toV2Response) error {
			s.out.Status = s.in.Status
			if rc := s.in.ResponseCode; rc != nil {
				s.out.Code = rc.Code
				if s.out.Status == "" {
					s.out.Status = rc.Name
				}
			}
			return nil
		}},
		{Name: "header", Apply: func(s *toV2Response) error {
			s.out.Header = paramsToV2(s.in.Headers)
			return nil
		}},
		{Name: "cookie", Apply: func(s *toV2Response) error {
			if len(s.in.Cookies) > 0 {
				s.out.Cookie = s.in.Cookies
			}
			return nil
		}},
		{Name: "body", Apply: func(s *toV2Response) error {
			s.out.Body = s.in.Text
			s.out.PreviewLanguage = s.in.Language
			s.out.ResponseTime = s.in.Time
			return nil
		}},
		{Name: "originalRequest", Apply: func(s *toV2Response) error {
			ref := s.in.Request
			if ref == nil {
				return nil
			}
			r := ref.Request
			if r == nil && ref.ID != "" && s.resolve != nil {
				r = s.resolve(ref.ID)
			}
			if r == nil {
				return nil
			}
			item, err := s.c.request(r, s.resolve, true)
			if err != nil {
				return err
			}
			s.out.OriginalRequest = item.Request
			return nil
		}},
	}
}

// Request converts a standalone request into a request item.
func (c *ToV2) Request(r *v1.Request) (*v2.Item, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: no request", builder.ErrMalformed)
	}
	return c.request(r, nil, false)
}

func (c *ToV2) request(r *v1.Request, resolve resolver, skipResponses bool) (*v2.Item, error) {
	s := &toV2Request{
		c:             c,
		in:            r,
		out:           &v2.Item{},
		req:           &v2.Request{},
		resolve:       resolve,
		skipResponses: skipResponses,
	}
	s.out.Request = s.req
	if err := builder.Apply(c.log, "request", r.ID, s, toV2RequestUnits); err != nil {
		return nil, err
	}
	return s.out, nil
}

// Response converts a standalone saved response. A request given only by id
// cannot be resolved and is left out.
func (c *ToV2) Response(r *v1.Response) (*v2.Response, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: no response", builder.ErrMalformed)
	}
	return c.response(r, nil)
}

func (c *ToV2) response(r *v1.Response, resolve resolver) (*v2.Response, error) {
	s := &toV2Response{c: c, in: r, out: &v2.Response{}, resolve: resolve}
	if err := builder.Apply(c.log, "response", r.ID, s, toV2ResponseUnits); err != nil {
		return nil, err
	}
	return s.out, nil
}

type toV2Collection struct {
	c   *ToV2
	in  *v1.Collection
	out *v2.Collection

	folders  map[string]*v1.Folder
	requests map[string]*v1.Request
	placed   map[any]bool
}

var toV2CollectionUnits = []builder.Unit[*toV2Collection]{
	{Name: "info", Apply: func(s *toV2Collection) error {
		s.out.Info = v2.Info{
			PostmanID:   s.c.opts.NewID(s.in.ID),
			Name:        s.in.Name,
			Description: schema.NewDescription(s.in.Description),
			Schema:      s.c.schemaURL,
		}
		return nil
	}},
	{Name: "auth", Apply: func(s *toV2Collection) error {
		a, err := s.c.norm.Auth(s.c.norm.ClassifyAuth(&s.in.Behavior))
		s.out.Auth = s.c.form(a)
		return err
	}},
	{Name: "event", Apply: func(s *toV2Collection) error {
		events, err := s.c.norm.Events(s.c.norm.ClassifyEvents(&s.in.Behavior))
		s.out.Event = events
		return err
	}},
	{Name: "variable", Apply: func(s *toV2Collection) error {
		s.out.Variable = s.c.norm.Variables(s.in.Variables, s.c.opts.Env)
		return nil
	}},
	{Name: "item", Apply: func(s *toV2Collection) error {
		return s.tree()
	}},
}

// Collection converts a whole document. The item tree is rebuilt from the
// order lists; folders and requests no list reaches are appended at the
// root, and a folder is never placed twice, so cycles end where they close.
func (c *ToV2) Collection(in *v1.Collection) (*v2.Collection, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: no collection", builder.ErrMalformed)
	}
	s := &toV2Collection{
		c:        c,
		in:       in,
		out:      &v2.Collection{Item: []*v2.Item{}},
		folders:  make(map[string]*v1.Folder),
		requests: make(map[string]*v1.Request),
		placed:   make(map[any]bool),
	}
	if err := builder.Apply(c.log, "collection", in.ID, s, toV2CollectionUnits); err != nil {
		return nil, err
	}
	return s.out, nil
}

func (s *toV2Collection) tree() error {
	nested := make(map[string]bool)
	for _, f := range s.in.Folders {
		if f == nil {
			continue
		}
		if _, ok := s.folders[f.ID]; !ok {
			s.folders[f.ID] = f
		}
		for _, id := range f.FoldersOrder {
			nested[id] = true
		}
	}
	for _, r := range s.in.Requests {
		if r == nil {
			continue
		}
		if _, ok := s.requests[r.ID]; !ok {
			s.requests[r.ID] = r
		}
	}

	items, err := s.children(s.in.FoldersOrder, s.in.Order)
	if err != nil {
		return err
	}
	s.out.Item = append(s.out.Item, items...)

	// Unreached top-level folders first, then whatever a cycle left over.
	for _, pass := range []bool{false, true} {
		for _, f := range s.in.Folders {
			if f == nil || s.placed[f] || (!pass && nested[f.ID]) {
				continue
			}
			item, err := s.folder(f)
			if err != nil {
				return err
			}
			s.out.Item = append(s.out.Item, item)
		}
	}
	for _, r := range s.in.Requests {
		if r == nil || s.placed[r] {
			continue
		}
		item, err := s.request(r)
		if err != nil {
			return err
		}
		s.out.Item = append(s.out.Item, item)
	}
	return nil
}

func (s *toV2Collection) children(folderIDs, requestIDs []string) ([]*v2.Item, error) {
	items := []*v2.Item{}
	for _, id := range folderIDs {
		f, ok := s.folders[id]
		if !ok || s.placed[f] {
			continue
		}
		item, err := s.folder(f)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	for _, id := range requestIDs {
		r, ok := s.requests[id]
		if !ok || s.placed[r] {
			continue
		}
		item, err := s.request(r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *toV2Collection) folder(f *v1.Folder) (*v2.Item, error) {
	s.placed[f] = true

	wrap := func(unit string, err error) error {
		return &builder.UnitError{Node: "folder", ID: f.ID, Unit: unit, Err: err}
	}
	a, err := s.c.norm.Auth(s.c.norm.ClassifyAuth(&f.Behavior))
	if err != nil {
		return nil, wrap("auth", err)
	}
	events, err := s.c.norm.Events(s.c.norm.ClassifyEvents(&f.Behavior))
	if err != nil {
		return nil, wrap("event", err)
	}

	item := &v2.Item{
		ID:          s.c.opts.NewID(f.ID),
		Name:        f.Name,
		Description: descriptionOf(f.Description),
		Auth:        s.c.form(a),
		Event:       events,
		Variable:    s.c.norm.Variables(f.Variables, nil),
	}
	item.Item, err = s.children(f.FoldersOrder, f.Order)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *toV2Collection) request(r *v1.Request) (*v2.Item, error) {
	s.placed[r] = true
	return s.c.request(r, s.resolve, false)
}

func (s *toV2Collection) resolve(id string) *v1.Request {
	return s.requests[id]
}
