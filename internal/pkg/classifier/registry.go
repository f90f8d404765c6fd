package classifier

import (
	"errors"

	"github.com/shandysiswandi/gatekeep/internal/pkg/goerror"
)

// ErrMissingCatchAll is returned when no handler is registered for goerror.Any.
var ErrMissingCatchAll = errors.New("classifier: no catch-all handler registered for goerror.Any")

// RegistryOption registers handlers on a Registry.
type RegistryOption func(map[*goerror.Tag]Handler)

// WithHandler registers h for tag and, unless overridden, its specializations.
func WithHandler(tag *goerror.Tag, h Handler) RegistryOption {
	return func(m map[*goerror.Tag]Handler) {
		m[tag] = h
	}
}

// Registry maps tags to handlers. It is immutable once built.
type Registry struct {
	handlers map[*goerror.Tag]Handler
}

// NewRegistry builds a registry from opts. It fails without a catch-all.
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	handlers := make(map[*goerror.Tag]Handler)
	for _, opt := range opts {
		opt(handlers)
	}

	if h, ok := handlers[goerror.Any]; !ok || h == nil {
		return nil, ErrMissingCatchAll
	}

	return &Registry{handlers: handlers}, nil
}

// DefaultRegistry registers the stock handlers for every base tag and the
// catch-all, then applies opts.
func DefaultRegistry(opts ...RegistryOption) (*Registry, error) {
	stock := []RegistryOption{
		WithHandler(goerror.Any, CatchAllHandler),
		WithHandler(goerror.ValidationFailed, ValidationHandler),
		WithHandler(goerror.NotFound, GenericHandler),
		WithHandler(goerror.Conflict, GenericHandler),
		WithHandler(goerror.Unauthorized, GenericHandler),
		WithHandler(goerror.Forbidden, GenericHandler),
		WithHandler(goerror.BadInput, GenericHandler),
		WithHandler(goerror.Internal, InternalHandler),
	}
	return NewRegistry(append(stock, opts...)...)
}

// Lookup returns the most specific registered tag for tag and its handler:
// the tag itself, else its nearest registered ancestor, else goerror.Any.
func (r *Registry) Lookup(tag *goerror.Tag) (*goerror.Tag, Handler) {
	for cur := tag; cur != nil; cur = cur.Parent() {
		if h, ok := r.handlers[cur]; ok && h != nil {
			return cur, h
		}
	}
	return goerror.Any, r.handlers[goerror.Any]
}
