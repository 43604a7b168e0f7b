package normalizer

import (
	"fmt"

	"github.com/blackcoderx/transformer/pkg/builder"
	v1 "github.com/blackcoderx/transformer/pkg/schema/v1"
)

type folderState struct {
	b      *Builders
	folder *v1.Folder
}

var folderUnits = []builder.Unit[*folderState]{
	{Name: "id", Apply: func(s *folderState) error {
		s.folder.ID = s.b.opts.NewID(s.folder.ID)
		return nil
	}},
	{Name: "description", Apply: func(s *folderState) error {
		s.folder.Description = description(s.folder.Description)
		return nil
	}},
	{Name: "order", Apply: func(s *folderState) error {
		s.folder.Order = nonEmpty(s.folder.Order)
		return nil
	}},
	{Name: "folders_order", Apply: func(s *folderState) error {
		s.folder.FoldersOrder = nonEmpty(s.folder.FoldersOrder)
		return nil
	}},
	{Name: "auth", Apply: func(s *folderState) error {
		a, err := s.b.Auth(s.b.ClassifyAuth(&s.folder.Behavior))
		s.folder.Auth = a
		return err
	}},
	{Name: "events", Apply: func(s *folderState) error {
		events, err := s.b.Events(s.b.ClassifyEvents(&s.folder.Behavior))
		s.folder.Events = events
		return err
	}},
	{Name: "variables", Apply: func(s *folderState) error {
		s.folder.Variables = s.b.Variables(s.folder.Variables, nil)
		return nil
	}},
}

// Folder normalizes f in place.
func (b *Builders) Folder(f *v1.Folder) error {
	if f == nil {
		return nil
	}
	return builder.Apply(b.log, "folder", f.ID, &folderState{b: b, folder: f}, folderUnits)
}

type collectionState struct {
	b   *Builders
	in  *v1.Collection
	out *v1.Collection

	// ids maps the previous id of each folder and request to its new one.
	ids map[string]string
}

var collectionUnits = []builder.Unit[*collectionState]{
	{Name: "id", Apply: func(s *collectionState) error {
		s.out.ID = s.b.opts.NewID(s.in.ID)
		return nil
	}},
	{Name: "auth", Apply: func(s *collectionState) error {
		a, err := s.b.Auth(s.b.ClassifyAuth(&s.in.Behavior))
		s.out.Auth = a
		return err
	}},
	{Name: "events", Apply: func(s *collectionState) error {
		events, err := s.b.Events(s.b.ClassifyEvents(&s.in.Behavior))
		s.out.Events = events
		return err
	}},
	{Name: "variables", Apply: func(s *collectionState) error {
		s.out.Variables = s.b.Variables(s.in.Variables, s.b.opts.Env)
		return nil
	}},
	{Name: "order", Apply: func(s *collectionState) error {
		s.out.Order = nonEmpty(s.in.Order)
		return nil
	}},
	{Name: "folders_order", Apply: func(s *collectionState) error {
		s.out.FoldersOrder = nonEmpty(s.in.FoldersOrder)
		return nil
	}},
	{Name: "folders", Apply: func(s *collectionState) error {
		for _, f := range s.in.Folders {
			if f == nil {
				continue
			}
			prev := f.ID
			if err := s.b.Folder(f); err != nil {
				return err
			}
			s.track(prev, f.ID)
			if f.CollectionID != "" {
				f.CollectionID = s.out.ID
			}
		}
		if len(s.in.Folders) > 0 {
			s.out.Folders = s.in.Folders
		}
		return nil
	}},
	{Name: "requests", Apply: func(s *collectionState) error {
		for _, r := range s.in.Requests {
			if r == nil {
				continue
			}
			prev := r.ID
			if err := s.b.Request(r, s.out.ID, false); err != nil {
				return err
			}
			s.track(prev, r.ID)
		}
		if len(s.in.Requests) > 0 {
			s.out.Requests = s.in.Requests
		}
		return nil
	}},
	{Name: "references", Apply: func(s *collectionState) error {
		if len(s.ids) == 0 {
			return nil
		}
		s.remap(s.out.Order)
		s.remap(s.out.FoldersOrder)
		for _, f := range s.out.Folders {
			if f == nil {
				continue
			}
			s.remap(f.Order)
			s.remap(f.FoldersOrder)
		}
		for _, r := range s.out.Requests {
			if r == nil {
				continue
			}
			if id, ok := s.ids[r.Folder]; ok {
				r.Folder = id
			}
			for _, resp := range r.Responses {
				if resp == nil || resp.Request == nil || resp.Request.ID == "" {
					continue
				}
				if id, ok := s.ids[resp.Request.ID]; ok {
					resp.Request.ID = id
				}
			}
		}
		return nil
	}},
}

func (s *collectionState) track(prev, next string) {
	if prev != "" && prev != next {
		s.ids[prev] = next
	}
}

func (s *collectionState) remap(ids []string) {
	for i, id := range ids {
		if next, ok := s.ids[id]; ok {
			ids[i] = next
		}
	}
}

// Collection returns the normalized form of c. The result is a new
// collection document; folders and requests are normalized in place and
// shared with c.
func (b *Builders) Collection(c *v1.Collection) (*v1.Collection, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: no collection", builder.ErrMalformed)
	}

	s := &collectionState{
		b:   b,
		in:  c,
		out: &v1.Collection{Name: c.Name, Description: c.Description},
		ids: make(map[string]string),
	}
	if err := builder.Apply(b.log, "collection", c.ID, s, collectionUnits); err != nil {
		return nil, err
	}
	return s.out, nil
}
