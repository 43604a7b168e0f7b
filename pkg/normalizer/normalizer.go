// Package normalizer brings v1.0.0 collection documents into canonical form.
//
// Legacy and structured representations of auth and scripts are reconciled
// into one source of truth, empty placeholders are dropped, defaults are
// filled in and identities are regenerated unless retained. Normalizing an
// already normalized document returns the same document.
package normalizer

import (
	"fmt"

	"github.com/blackcoderx/transformer/pkg/builder"
	v1 "github.com/blackcoderx/transformer/pkg/schema/v1"
)

// Normalize returns the canonical form of a v1 collection.
func Normalize(c *v1.Collection, opts builder.Options, cb builder.Callback[*v1.Collection]) (*v1.Collection, error) {
	return builder.Run(c, opts, cb, func(c *v1.Collection) (*v1.Collection, error) {
		return NewBuilders(opts).Collection(c)
	})
}

// NormalizeSingle returns the canonical form of a standalone v1 request.
func NormalizeSingle(r *v1.Request, opts builder.Options, cb builder.Callback[*v1.Request]) (*v1.Request, error) {
	return builder.Run(r, opts, cb, func(r *v1.Request) (*v1.Request, error) {
		if r == nil {
			return nil, fmt.Errorf("%w: no request", builder.ErrMalformed)
		}
		if err := NewBuilders(opts).Request(r, "", false); err != nil {
			return nil, err
		}
		return r, nil
	})
}

// NormalizeResponse returns the canonical form of a standalone v1 response.
func NormalizeResponse(r *v1.Response, opts builder.Options, cb builder.Callback[*v1.Response]) (*v1.Response, error) {
	return builder.Run(r, opts, cb, func(r *v1.Response) (*v1.Response, error) {
		if r == nil {
			return nil, fmt.Errorf("%w: no response", builder.ErrMalformed)
		}
		if err := NewBuilders(opts).Response(r); err != nil {
			return nil, err
		}
		return r, nil
	})
}
