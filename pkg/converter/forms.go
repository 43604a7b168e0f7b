package converter

import (
	"fmt"
	"log/slog"

	"github.com/blackcoderx/transformer/pkg/auth"
	"github.com/blackcoderx/transformer/pkg/builder"
	"github.com/blackcoderx/transformer/pkg/ident"
	v2 "github.com/blackcoderx/transformer/pkg/schema/v2"
)

// Forms converts between the two v2 generations. Only the auth layout and
// the schema URL change; the document is converted in place.
type Forms struct {
	opts      builder.Options
	log       *slog.Logger
	schemaURL string
	form      formFunc
}

// NewForms returns a converter to the given v2 generation.
func NewForms(to string, opts builder.Options) (*Forms, error) {
	c := &Forms{opts: opts, log: opts.Log()}
	switch to {
	case v2.Version20:
		c.schemaURL, c.form = v2.SchemaURL20, auth.ToMapForm
	case v2.Version21:
		c.schemaURL, c.form = v2.SchemaURL21, arrayForm
	default:
		return nil, fmt.Errorf("%w: v2 to %q", ErrUnsupportedVersion, to)
	}
	return c, nil
}

type formsState struct {
	c  *Forms
	in *v2.Collection
}

var formsUnits = []builder.Unit[*formsState]{
	{Name: "ids", Apply: func(s *formsState) error {
		gen := s.c.opts.Generator()
		info := s.in.Info
		ident.PopulateIDs(s.in, gen)
		if !s.c.opts.RetainIDs {
			ident.ReassignChildren(s.in, gen)
		}
		if info.Identity() != "" {
			s.in.Info.ID, s.in.Info.PostmanID = info.ID, info.PostmanID
		}
		return nil
	}},
	{Name: "info", Apply: func(s *formsState) error {
		s.in.Info.Schema = s.c.schemaURL
		return nil
	}},
	{Name: "auth", Apply: func(s *formsState) error {
		s.in.Auth = s.c.form(s.in.Auth)
		return nil
	}},
	{Name: "item", Apply: func(s *formsState) error {
		s.c.items(s.in.Item)
		return nil
	}},
}

// Collection converts c in place and returns it.
func (c *Forms) Collection(in *v2.Collection) (*v2.Collection, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: no collection", builder.ErrMalformed)
	}
	if err := builder.Apply(c.log, "collection", in.Info.Identity(), &formsState{c: c, in: in}, formsUnits); err != nil {
		return nil, err
	}
	return in, nil
}

// Request converts a request item in place and returns it.
func (c *Forms) Request(item *v2.Item) (*v2.Item, error) {
	if item == nil {
		return nil, fmt.Errorf("%w: no item", builder.ErrMalformed)
	}
	c.items([]*v2.Item{item})
	return item, nil
}

// Response converts a saved response in place and returns it.
func (c *Forms) Response(r *v2.Response) (*v2.Response, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: no response", builder.ErrMalformed)
	}
	c.request(r.OriginalRequest)
	return r, nil
}

func (c *Forms) items(items []*v2.Item) {
	for _, it := range items {
		if it == nil {
			continue
		}
		it.Auth = c.form(it.Auth)
		c.request(it.Request)
		for _, r := range it.Response {
			if r != nil {
				c.request(r.OriginalRequest)
			}
		}
		c.items(it.Children())
	}
}

func (c *Forms) request(r *v2.Request) {
	if r != nil {
		r.Auth = c.form(r.Auth)
	}
}
