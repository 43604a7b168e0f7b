// Package builder holds the machinery shared by the normalizer and the
// converters: options, the result callback, and ordered unit tables.
package builder

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/blackcoderx/transformer/pkg/auth"
	"github.com/blackcoderx/transformer/pkg/ident"
	"github.com/blackcoderx/transformer/pkg/logging"
	"github.com/blackcoderx/transformer/pkg/schema"
)

var (
	// ErrUnknownAuthHelper is returned when a legacy currentHelper names no
	// known auth kind.
	ErrUnknownAuthHelper = errors.New("unknown auth helper")
	// ErrMalformed is returned when a document is structurally invalid.
	ErrMalformed = errors.New("malformed document")
)

// Options configures a transformation.
type Options struct {
	// RetainIDs keeps existing identities. Nodes without one still get a
	// generated id.
	RetainIDs bool
	// Mutate transforms the input in place instead of a deep copy.
	Mutate bool
	// IncludeNoauth keeps "noauth" blocks where they would be dropped.
	IncludeNoauth bool
	// ExcludeNoauth drops "noauth" blocks. It wins over IncludeNoauth.
	ExcludeNoauth bool
	// Env provides collection variables when the collection has none.
	Env *schema.Environment
	// IDs generates identities. Defaults to random UUIDs.
	IDs ident.Generator
	// Mappers holds the legacy auth helper mappers.
	Mappers *auth.Registry
	// Logger receives per-unit debug records. Defaults to a discarding logger.
	Logger *slog.Logger
}

// Generator returns the configured id generator or the default one.
func (o Options) Generator() ident.Generator {
	if o.IDs == nil {
		return ident.Default
	}
	return o.IDs
}

// Registry returns the configured mapper registry or the default one.
func (o Options) Registry() *auth.Registry {
	if o.Mappers == nil {
		return auth.DefaultRegistry
	}
	return o.Mappers
}

// Log returns the configured logger or a discarding one.
func (o Options) Log() *slog.Logger {
	if o.Logger == nil {
		return logging.NewNopLogger()
	}
	return o.Logger
}

// AuthOptions returns the noauth handling flags.
func (o Options) AuthOptions() auth.Options {
	return auth.Options{IncludeNoauth: o.IncludeNoauth, ExcludeNoauth: o.ExcludeNoauth}
}

// NewID returns existing when ids are retained and existing is set, and a
// fresh id otherwise.
func (o Options) NewID(existing string) string {
	if o.RetainIDs && existing != "" {
		return existing
	}
	return o.Generator().NewID()
}

// Callback receives the outcome of a transformation.
type Callback[T any] func(err error, result T)

// Finish delivers result and err. With a callback the outcome goes to cb
// only and Finish returns the zero value and a nil error. A failed
// transformation never exposes a partial result.
func Finish[T any](result T, err error, cb Callback[T]) (T, error) {
	var zero T
	if err != nil {
		result = zero
	}
	if cb != nil {
		cb(err, result)
		return zero, nil
	}
	return result, err
}

// UnitError reports the unit that failed while assembling a node.
type UnitError struct {
	Node string
	ID   string
	Unit string
	Err  error
}

func (e *UnitError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s: %v", e.Node, e.Unit, e.Err)
	}
	return fmt.Sprintf("%s %q: %s: %v", e.Node, e.ID, e.Unit, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// Unit is one named step of an assembler. N is the assembly state the step
// reads and writes.
type Unit[N any] struct {
	Name  string
	Apply func(N) error
}

// Apply runs units over state in table order and stops at the first
// failure, which is returned as a *UnitError.
func Apply[N any](log *slog.Logger, node, id string, state N, units []Unit[N]) error {
	for _, u := range units {
		log.Debug("applying unit", "node", node, "id", id, "unit", u.Name)
		if err := run(u, state); err != nil {
			return &UnitError{Node: node, ID: id, Unit: u.Name, Err: err}
		}
	}
	return nil
}

func run[N any](u Unit[N], state N) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()
	return u.Apply(state)
}

// Guard runs fn and turns a panic into an ErrMalformed error.
func Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()
	return fn()
}

// Run is the common body of every entry point. Unless opts.Mutate is set,
// fn receives a deep copy of in, so the caller keeps ownership of its value.
// The outcome is delivered through Finish.
func Run[In, Out any](in In, opts Options, cb Callback[Out], fn func(In) (Out, error)) (Out, error) {
	var out Out
	err := Guard(func() error {
		src := in
		if !opts.Mutate {
			cloned, err := schema.Clone(in)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			src = cloned
		}

		var err error
		out, err = fn(src)
		return err
	})
	return Finish(out, err, cb)
}
