package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/gatekeep/internal/pkg/clock"
	"github.com/shandysiswandi/gatekeep/internal/pkg/config"
	"github.com/shandysiswandi/gatekeep/internal/pkg/goerror"
	"github.com/spf13/cast"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
)

// KeyIncludeDetails controls whether diagnostic details of non-validation
// responses reach clients. Defaults to true.
const KeyIncludeDetails = "errors.include-details"

// Option customizes a Classifier.
type Option func(*Classifier)

// WithClock sets the clock used to stamp responses.
func WithClock(clk clock.Clocker) Option {
	return func(c *Classifier) {
		c.clock = clk
	}
}

// WithMeter sets the meter used for the classification counter.
func WithMeter(m metric.Meter) Option {
	return func(c *Classifier) {
		c.meter = m
	}
}

// Classifier is the single point where an error becomes an ErrorResponse.
// It is safe for concurrent use.
type Classifier struct {
	registry *Registry
	clock    clock.Clocker
	meter    metric.Meter
	counter  metric.Int64Counter
}

// New returns a Classifier dispatching through registry.
func New(registry *Registry, opts ...Option) (*Classifier, error) {
	if registry == nil {
		return nil, ErrMissingCatchAll
	}

	c := &Classifier{
		registry: registry,
		clock:    clock.New(),
		meter:    metricnoop.NewMeterProvider().Meter("classifier"),
	}
	for _, opt := range opts {
		opt(c)
	}

	counter, err := c.meter.Int64Counter("errors.classified",
		metric.WithDescription("Error responses produced, by error code and status code."),
	)
	if err != nil {
		return nil, err
	}
	c.counter = counter

	return c, nil
}

// Classify returns exactly one response for err. It never panics.
func (c *Classifier) Classify(ctx context.Context, err error, cfg config.Config) ErrorResponse {
	if cfg == nil {
		cfg = config.Empty()
	}

	cond := goerror.From(err)
	if cond == nil {
		cond = goerror.From(goerror.NewInternal(errors.New("classifier: nil error")))
	}

	resp := c.dispatch(ctx, cond, cfg)
	resp.Timestamp = c.clock.Now().UTC()

	if !includeDetails(cfg) && !cond.Tag().IsA(goerror.ValidationFailed) {
		resp.Details = Details{}
	}

	c.record(ctx, cond, resp)

	return resp
}

func (c *Classifier) dispatch(ctx context.Context, cond *goerror.Error, cfg config.Config) ErrorResponse {
	tag, h := c.registry.Lookup(cond.Tag())

	resp, rec := call(ctx, h, cond, cfg)
	if rec == nil {
		return fill(resp, tag)
	}

	slog.ErrorContext(ctx, "classifier: handler panicked", "tag", tag.String(), "panic", rec)

	internal := goerror.From(goerror.NewInternal(fmt.Errorf("handler for %s panicked: %v", tag, rec)))
	_, catchAll := c.registry.Lookup(goerror.Any)

	resp, rec = call(ctx, catchAll, internal, cfg)
	if rec == nil {
		return fill(resp, goerror.Any)
	}

	slog.ErrorContext(ctx, "classifier: catch-all handler panicked", "panic", rec)

	return ErrorResponse{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  goerror.Any.Code(),
		Message:    goerror.Any.Message(),
	}
}

func call(ctx context.Context, h Handler, cond *goerror.Error, cfg config.Config) (resp ErrorResponse, rec any) {
	defer func() {
		rec = recover()
	}()

	return h(ctx, cond, cfg), nil
}

func fill(resp ErrorResponse, tag *goerror.Tag) ErrorResponse {
	if resp.StatusCode == 0 {
		resp.StatusCode = tag.Status()
	}
	if resp.ErrorCode == "" {
		resp.ErrorCode = tag.Code()
	}
	return resp
}

func (c *Classifier) record(ctx context.Context, cond *goerror.Error, resp ErrorResponse) {
	c.counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("error_code", resp.ErrorCode),
		attribute.Int("status_code", resp.StatusCode),
	))

	level := slog.LevelWarn
	if resp.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}

	slog.Log(ctx, level, "request failed",
		"status_code", resp.StatusCode,
		"error_code", resp.ErrorCode,
		"tag", cond.Tag().String(),
		"error", cond.Error(),
	)
}

func includeDetails(cfg config.Config) bool {
	v, ok := cfg.Lookup(KeyIncludeDetails)
	if !ok {
		return true
	}
	include, err := cast.ToBoolE(v)
	return err != nil || include
}
