package converter

import (
	"fmt"
	"log/slog"

	"github.com/blackcoderx/transformer/pkg/auth"
	"github.com/blackcoderx/transformer/pkg/builder"
	"github.com/blackcoderx/transformer/pkg/ident"
	"github.com/blackcoderx/transformer/pkg/normalizer"
	"github.com/blackcoderx/transformer/pkg/schema"
	v1 "github.com/blackcoderx/transformer/pkg/schema/v1"
	v2 "github.com/blackcoderx/transformer/pkg/schema/v2"
	"github.com/blackcoderx/transformer/pkg/vars"
)

const defaultMethod = "GET"

// authFunc turns the auth block of a v2 document into array form.
type authFunc func(a *schema.Auth, opts auth.Options) *schema.Auth

func authFromV20(a *schema.Auth, opts auth.Options) *schema.Auth {
	return auth.Sanitize(auth.MapToArray(a), opts)
}

func authFromV21(a *schema.Auth, opts auth.Options) *schema.Auth {
	return auth.Sanitize(a, opts)
}

// ToV1 converts v2 documents of one generation to v1. The 2.0.0 and 2.1.0
// converters share every unit except the auth one.
type ToV1 struct {
	opts builder.Options
	log  *slog.Logger
	norm *normalizer.Builders
	auth authFunc
}

// NewToV1 returns a converter from the given v2 generation to v1.
func NewToV1(from string, opts builder.Options) (*ToV1, error) {
	c := &ToV1{opts: opts, log: opts.Log(), norm: normalizer.NewBuilders(opts)}
	switch from {
	case v2.Version20:
		c.auth = authFromV20
	case v2.Version21:
		c.auth = authFromV21
	default:
		return nil, fmt.Errorf("%w: %q to %s", ErrUnsupportedVersion, from, v1.Version)
	}
	return c, nil
}

type toV1Request struct {
	c    *ToV1
	item *v2.Item
	req  *v2.Request
	out  *v1.Request

	// assigned is set when item already carries its final id.
	assigned      bool
	skipResponses bool
}

type toV1Response struct {
	c   *ToV1
	in  *v2.Response
	out *v1.Response
}

var (
	toV1RequestUnits  []builder.Unit[*toV1Request]
	toV1ResponseUnits []builder.Unit[*toV1Response]
)

func init() {
	toV1RequestUnits = []builder.Unit[*toV1Request]{
		{Name: "id", Apply: func(s *toV1Request) error {
			if s.assigned {
				s.out.ID = s.item.ID
			} else {
				s.out.ID = s.c.opts.NewID(s.item.ID)
			}
			return nil
		}},
		{Name: "name", Apply: func(s *toV1Request) error {
			s.out.Name = s.item.Name
			return nil
		}},
		{Name: "description", Apply: func(s *toV1Request) error {
			d := s.item.Description
			if d.Empty() {
				d = s.req.Description
			}
			s.out.Description = descriptionText(d)
			return nil
		}},
		{Name: "method", Apply: func(s *toV1Request) error {
			s.out.Method = s.req.Method
			if s.out.Method == "" {
				s.out.Method = defaultMethod
			}
			return nil
		}},
		{Name: "url", Apply: func(s *toV1Request) error {
			s.out.URL = s.req.URL.String()
			return nil
		}},
		{Name: "queryParams", Apply: func(s *toV1Request) error {
			if s.req.URL != nil {
				s.out.QueryParams = paramsToV1(s.req.URL.Query)
			}
			return nil
		}},
		{Name: "pathVariableData", Apply: func(s *toV1Request) error {
			if s.req.URL == nil {
				return nil
			}
			s.out.PathVariableData = vars.Resolve(s.req.URL.Variable, nil)
			if len(s.out.PathVariableData) > 0 {
				s.out.PathVariables = make(map[string]any, len(s.out.PathVariableData))
				for _, v := range s.out.PathVariableData {
					s.out.PathVariables[v.Key] = v.Value
				}
			}
			return nil
		}},
		{Name: "headers", Apply: func(s *toV1Request) error {
			s.out.HeaderData = paramsToV1(s.req.Header)
			if len(s.req.Header) > 0 {
				s.out.Headers = rawHeaders(s.req.Header)
			}
			return nil
		}},
		{Name: "body", Apply: func(s *toV1Request) error {
			bodyToV1(s.req.Body, s.out)
			return nil
		}},
		{Name: "auth", Apply: func(s *toV1Request) error {
			a := s.req.Auth
			if a == nil {
				a = s.item.Auth
			}
			s.out.Auth = s.c.auth(a, s.c.opts.AuthOptions())
			helper, attrs := s.c.norm.LegacyAuth(s.out.Auth)
			s.out.CurrentHelper = helper
			if len(attrs) > 0 {
				s.out.HelperAttributes = attrs
			}
			return nil
		}},
		{Name: "events", Apply: func(s *toV1Request) error {
			events, err := s.c.norm.Events(schema.StructuredEvents{Events: s.item.Event})
			if err != nil {
				return err
			}
			s.out.Events = events
			s.out.PreRequestScript, s.out.Tests, err = normalizer.LegacyScripts(events)
			return err
		}},
		{Name: "variables", Apply: func(s *toV1Request) error {
			s.out.Variables = vars.Resolve(s.item.Variable, nil)
			return nil
		}},
		{Name: "responses", Apply: func(s *toV1Request) error {
			if s.skipResponses {
				return nil
			}
			for _, resp := range s.item.Response {
				if resp == nil {
					continue
				}
				r, err := s.c.Response(resp)
				if err != nil {
					return err
				}
				s.out.Responses = append(s.out.Responses, r)
			}
			return nil
		}},
	}

	toV1ResponseUnits = []builder.Unit[*toV1Response]{
		{Name: "id", Apply: func(s *toV1Response) error {
			s.out.ID = s.c.opts.NewID(s.in.ID)
			return nil
		}},
		{Name: "name", Apply: func(s *toV1Response) error {
			s.out.Name = s.in.Name
			return nil
		}},
		{Name: "status", Apply: func(s *toV1Response) error {
			s.out.Status = s.in.Status
			if s.in.Code != 0 {
				s.out.ResponseCode = &v1.ResponseCode{Code: s.in.Code, Name: s.in.Status}
			}
			return nil
		}},
		{Name: "time", Apply: func(s *toV1Response) error {
			s.out.Time = s.in.ResponseTime
			return nil
		}},
		{Name: "headers", Apply: func(s *toV1Response) error {
			s.out.Headers = paramsToV1(s.in.Header)
			return nil
		}},
		{Name: "cookies", Apply: func(s *toV1Response) error {
			if len(s.in.Cookie) > 0 {
				s.out.Cookies = s.in.Cookie
			}
			return nil
		}},
		{Name: "text", Apply: func(s *toV1Response) error {
			s.out.Text = s.in.Body
			s.out.Language = s.in.PreviewLanguage
			return nil
		}},
		{Name: "request", Apply: func(s *toV1Response) error {
			if s.in.OriginalRequest == nil {
				return nil
			}
			r, err := s.c.request(&v2.Item{Request: s.in.OriginalRequest}, false, true)
			if err != nil {
				return err
			}
			s.out.Request = &v1.RequestRef{Request: r}
			return nil
		}},
	}
}

// Request converts a request item.
func (c *ToV1) Request(item *v2.Item) (*v1.Request, error) {
	if item == nil {
		return nil, fmt.Errorf("%w: no item", builder.ErrMalformed)
	}
	return c.request(item, false, false)
}

func (c *ToV1) request(item *v2.Item, assigned, skipResponses bool) (*v1.Request, error) {
	s := &toV1Request{
		c:             c,
		item:          item,
		req:           item.Request,
		out:           &v1.Request{},
		assigned:      assigned,
		skipResponses: skipResponses,
	}
	if s.req == nil {
		s.req = &v2.Request{}
	}
	if err := builder.Apply(c.log, "request", item.ID, s, toV1RequestUnits); err != nil {
		return nil, err
	}
	return s.out, nil
}

// Response converts a saved response.
func (c *ToV1) Response(r *v2.Response) (*v1.Response, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: no response", builder.ErrMalformed)
	}
	s := &toV1Response{c: c, in: r, out: &v1.Response{}}
	if err := builder.Apply(c.log, "response", r.ID, s, toV1ResponseUnits); err != nil {
		return nil, err
	}
	return s.out, nil
}

type toV1Collection struct {
	c   *ToV1
	in  *v2.Collection
	out *v1.Collection
}

var toV1CollectionUnits = []builder.Unit[*toV1Collection]{
	{Name: "ids", Apply: func(s *toV1Collection) error {
		gen := s.c.opts.Generator()
		// The collection keeps its identity; only its children are renamed.
		ident.PopulateIDs(s.in, gen)
		if !s.c.opts.RetainIDs {
			ident.ReassignChildren(s.in, gen)
		}
		return nil
	}},
	{Name: "info", Apply: func(s *toV1Collection) error {
		s.out.ID = s.in.Info.ID
		s.out.Name = s.in.Info.Name
		s.out.Description = s.in.Info.Description.Text()
		return nil
	}},
	{Name: "auth", Apply: func(s *toV1Collection) error {
		s.out.Auth = s.c.auth(s.in.Auth, auth.Options{ExcludeNoauth: true})
		return nil
	}},
	{Name: "events", Apply: func(s *toV1Collection) error {
		events, err := s.c.norm.Events(schema.StructuredEvents{Events: s.in.Event})
		s.out.Events = events
		return err
	}},
	{Name: "variables", Apply: func(s *toV1Collection) error {
		s.out.Variables = vars.Resolve(s.in.Variable, s.c.opts.Env)
		return nil
	}},
	{Name: "order", Apply: func(s *toV1Collection) error {
		s.out.Order = childIDs(s.in.Item, false)
		return nil
	}},
	{Name: "folders_order", Apply: func(s *toV1Collection) error {
		s.out.FoldersOrder = childIDs(s.in.Item, true)
		return nil
	}},
	{Name: "folders", Apply: func(s *toV1Collection) error {
		return s.folders(s.in.Item)
	}},
	{Name: "requests", Apply: func(s *toV1Collection) error {
		return s.requests(s.in.Item, "")
	}},
}

// Collection converts a whole document. Folders and requests of the item
// tree are flattened depth-first into the v1 lists.
func (c *ToV1) Collection(in *v2.Collection) (*v1.Collection, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: no collection", builder.ErrMalformed)
	}
	s := &toV1Collection{c: c, in: in, out: &v1.Collection{}}
	if err := builder.Apply(c.log, "collection", in.Info.Identity(), s, toV1CollectionUnits); err != nil {
		return nil, err
	}
	return s.out, nil
}

func (s *toV1Collection) folders(items []*v2.Item) error {
	for _, it := range items {
		if it == nil || !it.IsFolder() {
			continue
		}

		events, err := s.c.norm.Events(schema.StructuredEvents{Events: it.Event})
		if err != nil {
			return &builder.UnitError{Node: "folder", ID: it.ID, Unit: "events", Err: err}
		}
		children := it.Children()
		s.out.Folders = append(s.out.Folders, &v1.Folder{
			ID:           it.ID,
			Name:         it.Name,
			Description:  descriptionText(it.Description),
			Order:        childIDs(children, false),
			FoldersOrder: childIDs(children, true),
			CollectionID: s.out.ID,
			Behavior: schema.Behavior{
				Auth:      s.c.auth(it.Auth, s.c.opts.AuthOptions()),
				Events:    events,
				Variables: vars.Resolve(it.Variable, nil),
			},
		})
		if err := s.folders(children); err != nil {
			return err
		}
	}
	return nil
}

func (s *toV1Collection) requests(items []*v2.Item, folder string) error {
	for _, it := range items {
		if it == nil {
			continue
		}
		if it.IsFolder() {
			if err := s.requests(it.Children(), it.ID); err != nil {
				return err
			}
			continue
		}

		r, err := s.c.request(it, true, false)
		if err != nil {
			return err
		}
		r.CollectionID = s.out.ID
		r.Folder = folder
		s.out.Requests = append(s.out.Requests, r)
	}
	return nil
}

// childIDs returns the ids of the folder (or request) items in items.
func childIDs(items []*v2.Item, folders bool) []string {
	var ids []string
	for _, it := range items {
		if it != nil && it.IsFolder() == folders {
			ids = append(ids, it.ID)
		}
	}
	return ids
}
