// Package idempotency guards side effects behind a client supplied key, so a
// retried request runs its effect at most once.
package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gatekeep/internal/pkg/goerror"
)

// Sentinel causes wrapped by the errors Exec returns.
var (
	ErrAlreadyInProgress = errors.New("operation already in progress")
	ErrAlreadyCompleted  = errors.New("operation already completed")
	ErrInvalidState      = errors.New("invalid state")
)

// Error tags of rejected calls. Both answer 409.
var (
	InProgress = goerror.Conflict.Specialize("RequestInProgress",
		goerror.WithDefaultMessage("A request with this idempotency key is in progress"))
	Replayed = goerror.Conflict.Specialize("RequestReplayed",
		goerror.WithDefaultMessage("A request with this idempotency key was already processed"))
)

// MaxKeyLength bounds client supplied keys.
const MaxKeyLength = 255

// State of one key.
type State string

const (
	StateNone       State = "none"        // operation can proceed
	StateInProgress State = "in_progress" // operation already in progress
	StateCompleted  State = "completed"   // operation already completed
	StateError      State = "error"       // the store could not be read
)

func (s State) String() string {
	return string(s)
}

// Idempotency runs fn at most once per key.
type Idempotency interface {
	Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error
}

const (
	defaultLockDuration = time.Minute
	defaultStateTTL     = time.Minute
)

// Option tunes one Exec call.
type Option func(*execOptions)

type execOptions struct {
	lockDuration time.Duration
	stateTTL     time.Duration
}

// WithLockDuration bounds how long an in-progress key blocks retries.
func WithLockDuration(lockDuration time.Duration) Option {
	return func(o *execOptions) {
		o.lockDuration = lockDuration
	}
}

// WithStateTTL sets how long a completed key is remembered.
func WithStateTTL(stateTTL time.Duration) Option {
	return func(o *execOptions) {
		o.stateTTL = stateTTL
	}
}

type client interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// StateTracker keeps key states in redis.
type StateTracker struct {
	client client
	prefix string
}

var _ Idempotency = (*StateTracker)(nil)

// New returns a redis backed tracker. *redis.Client satisfies client.
func New(c client) *StateTracker {
	return &StateTracker{
		client: c,
		prefix: "gatekeep:idempotency:",
	}
}

// Acquire tries to start an operation. StateNone means the caller owns key.
func (s *StateTracker) Acquire(ctx context.Context, key string, lockDuration time.Duration) (State, error) {
	fk := s.prefix + key

	acquired, err := s.client.SetNX(ctx, fk, StateInProgress.String(), lockDuration).Result()
	if err != nil {
		return StateError, err
	}
	if acquired {
		return StateNone, nil
	}

	result, err := s.client.Get(ctx, fk).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		acquired, err = s.client.SetNX(ctx, fk, StateInProgress.String(), lockDuration).Result()
		if err != nil {
			return StateError, err
		}
		if acquired {
			return StateNone, nil
		}
		return StateError, ErrInvalidState
	}
	if err != nil {
		return StateError, err
	}

	switch result {
	case StateInProgress.String():
		return StateInProgress, nil
	case StateCompleted.String():
		return StateCompleted, nil
	default:
		return StateError, ErrInvalidState
	}
}

// MarkCompleted records a finished operation for ttl.
func (s *StateTracker) MarkCompleted(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, StateCompleted.String(), ttl).Err()
}

// Release forgets key, so a failed operation may be retried.
func (s *StateTracker) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Exec runs fn when key is free. An empty key runs fn unguarded. When fn
// fails the key is released and fn's error returned.
func (s *StateTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, opts ...Option) error {
	if key == "" {
		return fn(ctx)
	}
	if len(key) > MaxKeyLength {
		return goerror.NewBadInput("Idempotency key is too long")
	}

	execOpt := &execOptions{
		lockDuration: defaultLockDuration,
		stateTTL:     defaultStateTTL,
	}
	for _, opt := range opts {
		opt(execOpt)
	}
	if execOpt.lockDuration <= 0 {
		execOpt.lockDuration = defaultLockDuration
	}
	if execOpt.stateTTL <= 0 {
		execOpt.stateTTL = defaultStateTTL
	}

	state, err := s.Acquire(ctx, key, execOpt.lockDuration)
	if err != nil {
		return goerror.NewInternal(err)
	}

	switch state {
	case StateInProgress:
		return goerror.Wrap(InProgress, ErrAlreadyInProgress, "")
	case StateCompleted:
		return goerror.Wrap(Replayed, ErrAlreadyCompleted, "")
	}

	if err := fn(ctx); err != nil {
		if relErr := s.Release(ctx, key); relErr != nil {
			return errors.Join(err, relErr)
		}
		return err
	}

	if err := s.MarkCompleted(ctx, key, execOpt.stateTTL); err != nil {
		return goerror.NewInternal(err)
	}

	return nil
}

// Noop runs every call unguarded. It is used when no redis is configured.
type Noop struct{}

// Exec runs fn.
func (Noop) Exec(ctx context.Context, _ string, fn func(context.Context) error, _ ...Option) error {
	return fn(ctx)
}
