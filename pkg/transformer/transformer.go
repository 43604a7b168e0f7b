// Package transformer is the JSON entry point of the module. It picks the
// normalizer or converter for the schema generations involved and works on
// encoded documents.
package transformer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/blang/semver"

	"github.com/blackcoderx/transformer/pkg/builder"
	"github.com/blackcoderx/transformer/pkg/converter"
	"github.com/blackcoderx/transformer/pkg/normalizer"
	v1 "github.com/blackcoderx/transformer/pkg/schema/v1"
	v2 "github.com/blackcoderx/transformer/pkg/schema/v2"
)

var (
	// ErrUnsupportedVersion is returned for a version that names no known
	// schema generation.
	ErrUnsupportedVersion = converter.ErrUnsupportedVersion
	// ErrUnsupportedConversion is returned when input and output name the
	// same generation.
	ErrUnsupportedConversion = errors.New("unsupported conversion")
)

// Options configures the JSON entry points.
type Options struct {
	builder.Options

	// InputVersion is the generation of the input. Detected when empty.
	InputVersion string
	// OutputVersion is the generation to convert to.
	OutputVersion string
	// Indent, when set, indents the output with it.
	Indent string
}

// Generation returns the canonical generation named by a version string.
// Versions are parsed tolerantly, so "2.1", "v1" and "2.1.0" all work.
func Generation(version string) (string, error) {
	sv, err := semver.ParseTolerant(version)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrUnsupportedVersion, version, err)
	}

	switch {
	case sv.Major == 1:
		return v1.Version, nil
	case sv.Major == 2 && sv.Minor == 0:
		return v2.Version20, nil
	case sv.Major == 2 && sv.Minor == 1:
		return v2.Version21, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedVersion, version)
}

// DetectVersion returns the generation of an encoded collection. v2
// documents name it in info.schema; a document without an info block is v1.
func DetectVersion(data []byte) (string, error) {
	var probe struct {
		Info *struct {
			Schema string `json:"schema"`
		} `json:"info"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", fmt.Errorf("%w: %v", builder.ErrMalformed, err)
	}

	if probe.Info == nil {
		return v1.Version, nil
	}
	for _, part := range strings.Split(probe.Info.Schema, "/") {
		if !strings.HasPrefix(part, "v") {
			continue
		}
		if gen, err := Generation(part); err == nil {
			return gen, nil
		}
	}
	return "", fmt.Errorf("%w: schema %q", ErrUnsupportedVersion, probe.Info.Schema)
}

// versions resolves the input and output generations of opts.
func (o Options) versions(data []byte) (from, to string, err error) {
	if o.InputVersion == "" {
		from, err = DetectVersion(data)
	} else {
		from, err = Generation(o.InputVersion)
	}
	if err != nil {
		return "", "", err
	}
	if to, err = Generation(o.OutputVersion); err != nil {
		return "", "", err
	}
	if from == to {
		return "", "", fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, from, to)
	}
	return from, to, nil
}

// owned returns the builder options used on a freshly decoded value, which
// the entry points own and may mutate.
func (o Options) owned() builder.Options {
	opts := o.Options
	opts.Mutate = true
	return opts
}

func (o Options) encode(v any) ([]byte, error) {
	if o.Indent != "" {
		return json.MarshalIndent(v, "", o.Indent)
	}
	return json.Marshal(v)
}

// step decodes data into In, transforms it and encodes the result.
func step[In, Out any](data []byte, o Options, fn func(In) (Out, error)) ([]byte, error) {
	var in In
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", builder.ErrMalformed, err)
	}
	out, err := fn(in)
	if err != nil {
		return nil, err
	}
	return o.encode(out)
}

// Convert converts an encoded collection to opts.OutputVersion.
func Convert(data []byte, opts Options, cb builder.Callback[[]byte]) ([]byte, error) {
	out, err := convert(data, opts)
	return builder.Finish(out, err, cb)
}

func convert(data []byte, o Options) ([]byte, error) {
	from, to, err := o.versions(data)
	if err != nil {
		return nil, err
	}

	switch {
	case from == v1.Version:
		return step(data, o, func(c *v1.Collection) (*v2.Collection, error) {
			return converter.ConvertToV2(c, to, o.owned(), nil)
		})
	case to == v1.Version:
		return step(data, o, func(c *v2.Collection) (*v1.Collection, error) {
			return converter.Convert(c, from, o.owned(), nil)
		})
	default:
		return step(data, o, func(c *v2.Collection) (*v2.Collection, error) {
			return converter.ConvertForms(c, to, o.owned(), nil)
		})
	}
}

// ConvertSingle converts one encoded request. opts.InputVersion is required.
func ConvertSingle(data []byte, opts Options, cb builder.Callback[[]byte]) ([]byte, error) {
	out, err := convertSingle(data, opts)
	return builder.Finish(out, err, cb)
}

func convertSingle(data []byte, o Options) ([]byte, error) {
	from, to, err := o.singleVersions()
	if err != nil {
		return nil, err
	}

	switch {
	case from == v1.Version:
		return step(data, o, func(r *v1.Request) (*v2.Item, error) {
			return converter.ConvertSingleToV2(r, to, o.owned(), nil)
		})
	case to == v1.Version:
		return step(data, o, func(it *v2.Item) (*v1.Request, error) {
			return converter.ConvertSingle(it, from, o.owned(), nil)
		})
	default:
		return step(data, o, func(it *v2.Item) (*v2.Item, error) {
			return converter.ConvertSingleForms(it, to, o.owned(), nil)
		})
	}
}

// ConvertResponse converts one encoded response. opts.InputVersion is
// required.
func ConvertResponse(data []byte, opts Options, cb builder.Callback[[]byte]) ([]byte, error) {
	out, err := convertResponse(data, opts)
	return builder.Finish(out, err, cb)
}

func convertResponse(data []byte, o Options) ([]byte, error) {
	from, to, err := o.singleVersions()
	if err != nil {
		return nil, err
	}

	switch {
	case from == v1.Version:
		return step(data, o, func(r *v1.Response) (*v2.Response, error) {
			return converter.ConvertResponseToV2(r, to, o.owned(), nil)
		})
	case to == v1.Version:
		return step(data, o, func(r *v2.Response) (*v1.Response, error) {
			return converter.ConvertResponse(r, from, o.owned(), nil)
		})
	default:
		return step(data, o, func(r *v2.Response) (*v2.Response, error) {
			return converter.ConvertResponseForms(r, to, o.owned(), nil)
		})
	}
}

// singleVersions is versions for documents that carry no schema marker.
func (o Options) singleVersions() (from, to string, err error) {
	if o.InputVersion == "" {
		return "", "", fmt.Errorf("%w: input version required", ErrUnsupportedVersion)
	}
	return o.versions(nil)
}

// Normalize normalizes an encoded collection of generation
// opts.InputVersion, detected when empty.
func Normalize(data []byte, opts Options, cb builder.Callback[[]byte]) ([]byte, error) {
	out, err := normalize(data, opts)
	return builder.Finish(out, err, cb)
}

func normalize(data []byte, o Options) ([]byte, error) {
	gen, err := o.generation(data)
	if err != nil {
		return nil, err
	}

	if gen == v1.Version {
		return step(data, o, func(c *v1.Collection) (*v1.Collection, error) {
			return normalizer.Normalize(c, o.owned(), nil)
		})
	}
	return step(data, o, func(c *v2.Collection) (*v2.Collection, error) {
		return converter.ConvertForms(c, gen, o.owned(), nil)
	})
}

// NormalizeSingle normalizes one encoded request.
func NormalizeSingle(data []byte, opts Options, cb builder.Callback[[]byte]) ([]byte, error) {
	out, err := normalizeSingle(data, opts)
	return builder.Finish(out, err, cb)
}

func normalizeSingle(data []byte, o Options) ([]byte, error) {
	gen, err := o.generation(nil)
	if err != nil {
		return nil, err
	}

	if gen == v1.Version {
		return step(data, o, func(r *v1.Request) (*v1.Request, error) {
			return normalizer.NormalizeSingle(r, o.owned(), nil)
		})
	}
	return step(data, o, func(it *v2.Item) (*v2.Item, error) {
		return converter.ConvertSingleForms(it, gen, o.owned(), nil)
	})
}

// NormalizeResponse normalizes one encoded response.
func NormalizeResponse(data []byte, opts Options, cb builder.Callback[[]byte]) ([]byte, error) {
	out, err := normalizeResponse(data, opts)
	return builder.Finish(out, err, cb)
}

func normalizeResponse(data []byte, o Options) ([]byte, error) {
	gen, err := o.generation(nil)
	if err != nil {
		return nil, err
	}

	if gen == v1.Version {
		return step(data, o, func(r *v1.Response) (*v1.Response, error) {
			return normalizer.NormalizeResponse(r, o.owned(), nil)
		})
	}
	return step(data, o, func(r *v2.Response) (*v2.Response, error) {
		return converter.ConvertResponseForms(r, gen, o.owned(), nil)
	})
}

// generation resolves the generation to normalize. Requests and responses
// carry no schema marker and default to v1.
func (o Options) generation(data []byte) (string, error) {
	switch {
	case o.InputVersion != "":
		return Generation(o.InputVersion)
	case data != nil:
		return DetectVersion(data)
	}
	return v1.Version, nil
}
