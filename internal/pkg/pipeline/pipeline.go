// Package pipeline runs one request through validation, the business step
// and error classification, against a single configuration snapshot.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/gatekeep/internal/pkg/classifier"
	"github.com/shandysiswandi/gatekeep/internal/pkg/config"
	"github.com/shandysiswandi/gatekeep/internal/pkg/goerror"
	"github.com/shandysiswandi/gatekeep/internal/pkg/stacktrace"
	"github.com/shandysiswandi/gatekeep/internal/pkg/validator"
)

// Next is the business step run after successful validation.
type Next func(ctx context.Context, obj any) (any, error)

// Result holds either the value of a successful call or the failure response.
type Result struct {
	Value   any
	Failure *classifier.ErrorResponse
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Failure == nil
}

// Unpack returns the value, or the failure as a *Failure error.
func (r Result) Unpack() (any, error) {
	if r.Failure != nil {
		return nil, &Failure{Response: *r.Failure}
	}
	return r.Value, nil
}

// Failure is an error that has already been classified. Transports write its
// Response as is.
type Failure struct {
	Response classifier.ErrorResponse
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return f.Response.ErrorCode + ": " + f.Response.Message
}

// Respond returns the response for err: the carried response of a *Failure,
// otherwise a fresh classification.
func (p *Pipeline) Respond(ctx context.Context, err error) classifier.ErrorResponse {
	var f *Failure
	if errors.As(err, &f) {
		return f.Response
	}
	return p.Fail(ctx, err)
}

// Snapshotter returns the configuration snapshot to use for one call.
type Snapshotter interface {
	Current() *config.Snapshot
}

// Pipeline is safe for concurrent use.
type Pipeline struct {
	validator  validator.Validator
	classifier *classifier.Classifier
	config     Snapshotter
}

// New returns a Pipeline. A nil store uses an empty configuration.
func New(v validator.Validator, c *classifier.Classifier, store Snapshotter) *Pipeline {
	if store == nil {
		store = config.NewStaticStore(nil)
	}
	return &Pipeline{validator: v, classifier: c, config: store}
}

// Process validates obj for groups and, when valid, runs next. Any violation
// or error ends in exactly one classified failure. The configuration snapshot
// is captured once, so a concurrent refresh does not affect the call.
func (p *Pipeline) Process(ctx context.Context, obj any, groups validator.GroupSet, next Next) Result {
	cfg := p.config.Current()

	if vs := p.validator.Evaluate(obj, groups, cfg); len(vs) > 0 {
		return p.fail(ctx, goerror.NewValidationFailed(vs), cfg)
	}

	if next == nil {
		return Result{Value: obj}
	}

	value, err := run(ctx, next, obj)
	if err != nil {
		return p.fail(ctx, err, cfg)
	}

	return Result{Value: value}
}

// Fail classifies err with the current configuration snapshot.
func (p *Pipeline) Fail(ctx context.Context, err error) classifier.ErrorResponse {
	return p.classifier.Classify(ctx, err, p.config.Current())
}

func (p *Pipeline) fail(ctx context.Context, err error, cfg config.Config) Result {
	resp := p.classifier.Classify(ctx, err, cfg)
	return Result{Failure: &resp}
}

func run(ctx context.Context, next Next, obj any) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(ctx, "pipeline: business step panicked",
				"panic", rec, "stack", stacktrace.Internal())
			value, err = nil, goerror.NewInternal(fmt.Errorf("panic: %v", rec))
		}
	}()

	return next(ctx, obj)
}

// Run is Process for a typed business step. On failure the returned error is
// a *Failure.
func Run[T any](ctx context.Context, p *Pipeline, obj any, groups validator.GroupSet, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	res := p.Process(ctx, obj, groups, func(ctx context.Context, _ any) (any, error) {
		return fn(ctx)
	})
	value, err := res.Unpack()
	if err != nil {
		return zero, err
	}

	out, _ := value.(T)
	return out, nil
}
