// Package converter translates collection documents between schema
// generations: v2.0.0 and v2.1.0 to v1.0.0, v1.0.0 to either v2
// generation, and between the two v2 generations.
//
// Every entry point takes options and an optional callback. Without a
// callback the result and error are returned; with one they are delivered
// to it and the function returns the zero value and a nil error.
package converter

import (
	"errors"

	"github.com/blackcoderx/transformer/pkg/builder"
	v1 "github.com/blackcoderx/transformer/pkg/schema/v1"
	v2 "github.com/blackcoderx/transformer/pkg/schema/v2"
)

// ErrUnsupportedVersion is returned for a generation no converter handles.
var ErrUnsupportedVersion = errors.New("unsupported schema version")

// Convert converts a v2 collection of generation from to v1.
func Convert(c *v2.Collection, from string, opts builder.Options, cb builder.Callback[*v1.Collection]) (*v1.Collection, error) {
	return builder.Run(c, opts, cb, func(c *v2.Collection) (*v1.Collection, error) {
		conv, err := NewToV1(from, opts)
		if err != nil {
			return nil, err
		}
		return conv.Collection(c)
	})
}

// ConvertV2ToV1 converts a v2.0.0 collection to v1.
func ConvertV2ToV1(c *v2.Collection, opts builder.Options, cb builder.Callback[*v1.Collection]) (*v1.Collection, error) {
	return Convert(c, v2.Version20, opts, cb)
}

// ConvertV21ToV1 converts a v2.1.0 collection to v1.
func ConvertV21ToV1(c *v2.Collection, opts builder.Options, cb builder.Callback[*v1.Collection]) (*v1.Collection, error) {
	return Convert(c, v2.Version21, opts, cb)
}

// ConvertSingle converts one v2 request item of generation from to a v1
// request.
func ConvertSingle(item *v2.Item, from string, opts builder.Options, cb builder.Callback[*v1.Request]) (*v1.Request, error) {
	return builder.Run(item, opts, cb, func(item *v2.Item) (*v1.Request, error) {
		conv, err := NewToV1(from, opts)
		if err != nil {
			return nil, err
		}
		return conv.Request(item)
	})
}

// ConvertResponse converts one v2 response of generation from to v1.
func ConvertResponse(r *v2.Response, from string, opts builder.Options, cb builder.Callback[*v1.Response]) (*v1.Response, error) {
	return builder.Run(r, opts, cb, func(r *v2.Response) (*v1.Response, error) {
		conv, err := NewToV1(from, opts)
		if err != nil {
			return nil, err
		}
		return conv.Response(r)
	})
}

// ConvertToV2 converts a v1 collection to the v2 generation to.
func ConvertToV2(c *v1.Collection, to string, opts builder.Options, cb builder.Callback[*v2.Collection]) (*v2.Collection, error) {
	return builder.Run(c, opts, cb, func(c *v1.Collection) (*v2.Collection, error) {
		conv, err := NewToV2(to, opts)
		if err != nil {
			return nil, err
		}
		return conv.Collection(c)
	})
}

// ConvertV1ToV2 converts a v1 collection to v2.0.0.
func ConvertV1ToV2(c *v1.Collection, opts builder.Options, cb builder.Callback[*v2.Collection]) (*v2.Collection, error) {
	return ConvertToV2(c, v2.Version20, opts, cb)
}

// ConvertV1ToV21 converts a v1 collection to v2.1.0.
func ConvertV1ToV21(c *v1.Collection, opts builder.Options, cb builder.Callback[*v2.Collection]) (*v2.Collection, error) {
	return ConvertToV2(c, v2.Version21, opts, cb)
}

// ConvertSingleToV2 converts one v1 request to a request item of the v2
// generation to.
func ConvertSingleToV2(r *v1.Request, to string, opts builder.Options, cb builder.Callback[*v2.Item]) (*v2.Item, error) {
	return builder.Run(r, opts, cb, func(r *v1.Request) (*v2.Item, error) {
		conv, err := NewToV2(to, opts)
		if err != nil {
			return nil, err
		}
		return conv.Request(r)
	})
}

// ConvertResponseToV2 converts one v1 response to the v2 generation to.
func ConvertResponseToV2(r *v1.Response, to string, opts builder.Options, cb builder.Callback[*v2.Response]) (*v2.Response, error) {
	return builder.Run(r, opts, cb, func(r *v1.Response) (*v2.Response, error) {
		conv, err := NewToV2(to, opts)
		if err != nil {
			return nil, err
		}
		return conv.Response(r)
	})
}

// ConvertForms converts a v2 collection to the v2 generation to.
func ConvertForms(c *v2.Collection, to string, opts builder.Options, cb builder.Callback[*v2.Collection]) (*v2.Collection, error) {
	return builder.Run(c, opts, cb, func(c *v2.Collection) (*v2.Collection, error) {
		conv, err := NewForms(to, opts)
		if err != nil {
			return nil, err
		}
		return conv.Collection(c)
	})
}

// ConvertV2ToV21 converts a v2.0.0 collection to v2.1.0.
func ConvertV2ToV21(c *v2.Collection, opts builder.Options, cb builder.Callback[*v2.Collection]) (*v2.Collection, error) {
	return ConvertForms(c, v2.Version21, opts, cb)
}

// ConvertV21ToV2 converts a v2.1.0 collection to v2.0.0.
func ConvertV21ToV2(c *v2.Collection, opts builder.Options, cb builder.Callback[*v2.Collection]) (*v2.Collection, error) {
	return ConvertForms(c, v2.Version20, opts, cb)
}

// ConvertSingleForms converts one v2 request item to the v2 generation to.
func ConvertSingleForms(item *v2.Item, to string, opts builder.Options, cb builder.Callback[*v2.Item]) (*v2.Item, error) {
	return builder.Run(item, opts, cb, func(item *v2.Item) (*v2.Item, error) {
		conv, err := NewForms(to, opts)
		if err != nil {
			return nil, err
		}
		return conv.Request(item)
	})
}

// ConvertResponseForms converts one v2 response to the v2 generation to.
func ConvertResponseForms(r *v2.Response, to string, opts builder.Options, cb builder.Callback[*v2.Response]) (*v2.Response, error) {
	return builder.Run(r, opts, cb, func(r *v2.Response) (*v2.Response, error) {
		conv, err := NewForms(to, opts)
		if err != nil {
			return nil, err
		}
		return conv.Response(r)
	})
}
