package config

import (
	"log/slog"
	"sync"

	"go.uber.org/atomic"
)

// Source materializes the layers of one resolution cycle.
type Source func() ([]Layer, error)

// Store owns the current Snapshot and replaces it wholesale on refresh.
//
// Current is lock-free; callers should capture the snapshot once per request
// and keep using it, so a concurrent refresh never produces a torn read.
type Store struct {
	current *atomic.Pointer[Snapshot]
	source  Source
	opts    []ResolveOption

	mu        sync.Mutex
	listeners []func(prev, next *Snapshot)
}

// NewStore runs the first resolution cycle. Any error is fatal for startup.
func NewStore(source Source, opts ...ResolveOption) (*Store, error) {
	s := &Store{source: source, opts: opts}

	snap, err := s.resolve()
	if err != nil {
		return nil, err
	}
	s.current = atomic.NewPointer(snap)

	return s, nil
}

// NewStaticStore wraps an already resolved snapshot. Refresh keeps it.
func NewStaticStore(snap *Snapshot) *Store {
	if snap == nil {
		snap = Empty()
	}
	return &Store{current: atomic.NewPointer(snap)}
}

// Current returns the active snapshot.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Refresh re-resolves every layer and swaps the snapshot.
//
// On failure the previous snapshot stays active and the error is returned.
func (s *Store) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return nil
	}

	next, err := s.resolve()
	if err != nil {
		slog.Error("config refresh failed, keeping previous snapshot", "error", err)
		return err
	}

	prev := s.current.Swap(next)
	slog.Info("config refreshed", "profiles", next.Profiles(), "keys", len(next.values))

	for _, fn := range s.listeners {
		fn(prev, next)
	}

	return nil
}

// OnChange registers fn to run after every successful refresh.
func (s *Store) OnChange(fn func(prev, next *Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}

func (s *Store) resolve() (*Snapshot, error) {
	layers, err := s.source()
	if err != nil {
		return nil, err
	}
	return Resolve(layers, s.opts...)
}
