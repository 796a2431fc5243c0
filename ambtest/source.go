package ambtest

import (
	"sync"
	"sync/atomic"

	"github.com/baxromumarov/amb"
)

// Source is a manually driven [amb.Source]. Each call to Subscribe
// replaces the current observer.
//
// Signals pushed through Next, Error and Complete go to the observer
// even after the subscription was disposed; the code under test is
// expected to drop them.
type Source[T any] struct {
	lazy bool

	mu       sync.Mutex
	observer amb.Observer[T]
	handles  []*Handle

	subscribes atomic.Int32
}

// NewSource returns a source that calls OnSubscribe as soon as it is
// subscribed.
func NewSource[T any]() *Source[T] {
	return &Source[T]{}
}

// NewLazySource returns a source that records its observer on Subscribe
// but only calls OnSubscribe when [Source.SendSubscribe] is invoked.
func NewLazySource[T any]() *Source[T] {
	return &Source[T]{lazy: true}
}

func (s *Source[T]) Subscribe(o amb.Observer[T]) {
	s.mu.Lock()
	s.observer = o
	s.mu.Unlock()
	s.subscribes.Add(1)

	if !s.lazy {
		s.SendSubscribe()
	}
}

// SendSubscribe hands a fresh [Handle] to the current observer and
// returns it. Calling it twice simulates a source that violates the
// protocol by subscribing twice.
func (s *Source[T]) SendSubscribe() *Handle {
	h := &Handle{}
	s.mu.Lock()
	s.handles = append(s.handles, h)
	o := s.observer
	s.mu.Unlock()

	if o != nil {
		o.OnSubscribe(h)
	}
	return h
}

// Next delivers v to the current observer.
func (s *Source[T]) Next(v T) {
	if o := s.current(); o != nil {
		o.OnNext(v)
	}
}

// Error delivers err to the current observer.
func (s *Source[T]) Error(err error) {
	if o := s.current(); o != nil {
		o.OnError(err)
	}
}

// Complete signals completion to the current observer.
func (s *Source[T]) Complete() {
	if o := s.current(); o != nil {
		o.OnComplete()
	}
}

func (s *Source[T]) current() amb.Observer[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observer
}

// Subscribed reports whether Subscribe was called at least once.
func (s *Source[T]) Subscribed() bool {
	return s.subscribes.Load() > 0
}

// Subscribes returns how many times Subscribe was called.
func (s *Source[T]) Subscribes() int {
	return int(s.subscribes.Load())
}

// Handles returns every handle given out by SendSubscribe.
func (s *Source[T]) Handles() []*Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Handle, len(s.handles))
	copy(out, s.handles)
	return out
}

// Disposed reports whether the most recent handle was disposed.
func (s *Source[T]) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.handles) == 0 {
		return false
	}
	return s.handles[len(s.handles)-1].IsDisposed()
}

// Handle is an [amb.Disposable] that counts how often it is disposed.
type Handle struct {
	calls atomic.Int32
}

func (h *Handle) Dispose() {
	h.calls.Add(1)
}

func (h *Handle) IsDisposed() bool {
	return h.calls.Load() > 0
}

// DisposeCalls returns how many times Dispose was called.
func (h *Handle) DisposeCalls() int {
	return int(h.calls.Load())
}
