package normalizer

import (
	"github.com/blackcoderx/transformer/pkg/builder"
	"github.com/blackcoderx/transformer/pkg/schema"
	v1 "github.com/blackcoderx/transformer/pkg/schema/v1"
)

const (
	defaultLanguage    = "Text"
	defaultPreviewType = "html"
)

type requestState struct {
	b   *Builders
	req *v1.Request

	collectionID  string
	skipResponses bool

	authSrc  schema.AuthSource
	eventSrc schema.EventSource
}

type responseState struct {
	b    *Builders
	resp *v1.Response
}

var (
	requestUnits  []builder.Unit[*requestState]
	responseUnits []builder.Unit[*responseState]
)

// The tables are filled in init because request and response units refer to
// each other.
func init() {
	requestUnits = []builder.Unit[*requestState]{
		{Name: "id", Apply: func(s *requestState) error {
			s.req.ID = s.b.opts.NewID(s.req.ID)
			return nil
		}},
		{Name: "description", Apply: func(s *requestState) error {
			s.req.Description = description(s.req.Description)
			return nil
		}},
		{Name: "queryParams", Apply: func(s *requestState) error {
			s.req.QueryParams = s.b.QueryParams(s.req)
			return nil
		}},
		{Name: "pathVariableData", Apply: func(s *requestState) error {
			s.req.PathVariableData = s.b.PathVariableData(s.req)
			return nil
		}},
		{Name: "headerData", Apply: func(s *requestState) error {
			s.req.HeaderData = s.b.HeaderData(s.req)
			return nil
		}},
		{Name: "data", Apply: func(s *requestState) error {
			s.req.Data = s.b.Data(s.req)
			return nil
		}},
		{Name: "responses", Apply: func(s *requestState) error {
			if s.skipResponses {
				return nil
			}
			return s.b.responses(s.req)
		}},
		{Name: "collectionId", Apply: func(s *requestState) error {
			if s.collectionID != "" {
				s.req.CollectionID = s.collectionID
			}
			return nil
		}},
		{Name: "currentHelper", Apply: func(s *requestState) error {
			if s.req.CurrentHelper == "" {
				s.req.HelperAttributes = nil
			}
			return nil
		}},
		{Name: "auth", Apply: func(s *requestState) error {
			s.authSrc = s.b.ClassifyAuth(&s.req.Behavior)
			a, err := s.b.Auth(s.authSrc)
			s.req.Auth = a
			return err
		}},
		{Name: "events", Apply: func(s *requestState) error {
			s.eventSrc = s.b.ClassifyEvents(&s.req.Behavior)
			events, err := s.b.Events(s.eventSrc)
			s.req.Events = events
			return err
		}},
		{Name: "variables", Apply: func(s *requestState) error {
			s.req.Variables = s.b.Variables(s.req.Variables, nil)
			return nil
		}},
		{Name: "legacyAuth", Apply: func(s *requestState) error {
			if _, ok := s.authSrc.(schema.StructuredAuth); !ok || s.req.Auth == nil {
				return nil
			}
			s.req.CurrentHelper, s.req.HelperAttributes = s.b.LegacyAuth(s.req.Auth)
			return nil
		}},
		{Name: "helperAttributes", Apply: func(s *requestState) error {
			if len(s.req.HelperAttributes) == 0 {
				s.req.HelperAttributes = nil
			}
			return nil
		}},
		{Name: "legacyScripts", Apply: func(s *requestState) error {
			if _, ok := s.eventSrc.(schema.StructuredEvents); !ok || s.req.Events == nil {
				return nil
			}
			pre, tests, err := LegacyScripts(s.req.Events)
			if err != nil {
				return err
			}
			s.req.PreRequestScript, s.req.Tests = pre, tests
			return nil
		}},
	}

	responseUnits = []builder.Unit[*responseState]{
		{Name: "id", Apply: func(s *responseState) error {
			s.resp.ID = s.b.opts.NewID(s.resp.ID)
			return nil
		}},
		{Name: "request", Apply: func(s *responseState) error {
			if s.resp.Request == nil || s.resp.Request.Request == nil {
				return nil
			}
			return s.b.Request(s.resp.Request.Request, "", true)
		}},
		{Name: "language", Apply: func(s *responseState) error {
			if s.resp.Language == "" {
				s.resp.Language = defaultLanguage
			}
			return nil
		}},
		{Name: "previewType", Apply: func(s *responseState) error {
			if s.resp.PreviewType == "" {
				s.resp.PreviewType = defaultPreviewType
			}
			return nil
		}},
		{Name: "cookies", Apply: func(s *responseState) error {
			if len(s.resp.Cookies) == 0 {
				s.resp.Cookies = nil
			}
			return nil
		}},
	}
}

// Request normalizes r in place. collectionID, when set, becomes the
// request's collectionId. With skipResponses the saved responses of r are
// left untouched, which is how requests embedded in responses are handled.
func (b *Builders) Request(r *v1.Request, collectionID string, skipResponses bool) error {
	if r == nil {
		return nil
	}
	s := &requestState{b: b, req: r, collectionID: collectionID, skipResponses: skipResponses}
	return builder.Apply(b.log, "request", r.ID, s, requestUnits)
}

// Response normalizes r in place.
func (b *Builders) Response(r *v1.Response) error {
	if r == nil {
		return nil
	}
	return builder.Apply(b.log, "response", r.ID, &responseState{b: b, resp: r}, responseUnits)
}

func (b *Builders) responses(r *v1.Request) error {
	if len(r.Responses) == 0 {
		r.Responses = nil
		return nil
	}
	for _, resp := range r.Responses {
		if err := b.Response(resp); err != nil {
			return err
		}
	}
	return nil
}
