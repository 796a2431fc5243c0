package ambtest

import (
	"sync"
	"time"

	"github.com/baxromumarov/amb"
)

// Kind identifies a recorded signal.
type Kind int

const (
	KindSubscribe Kind = iota
	KindNext
	KindError
	KindComplete
)

func (k Kind) String() string {
	switch k {
	case KindSubscribe:
		return "subscribe"
	case KindNext:
		return "next"
	case KindError:
		return "error"
	case KindComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Signal is one recorded call on an [Observer].
type Signal[T any] struct {
	Kind  Kind
	Value T
	Err   error
}

// Observer records the signals it receives. It is safe for concurrent
// use, so it also catches overlapping calls from a broken combinator.
type Observer[T any] struct {
	mu        sync.Mutex
	handle    amb.Disposable
	signals   []Signal[T]
	terminals int
	done      chan struct{}
}

// NewObserver returns an empty recording observer.
func NewObserver[T any]() *Observer[T] {
	return &Observer[T]{done: make(chan struct{})}
}

func (o *Observer[T]) OnSubscribe(d amb.Disposable) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.handle == nil {
		o.handle = d
	}
	o.signals = append(o.signals, Signal[T]{Kind: KindSubscribe})
}

func (o *Observer[T]) OnNext(v T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.signals = append(o.signals, Signal[T]{Kind: KindNext, Value: v})
}

func (o *Observer[T]) OnError(err error) {
	o.terminate(Signal[T]{Kind: KindError, Err: err})
}

func (o *Observer[T]) OnComplete() {
	o.terminate(Signal[T]{Kind: KindComplete})
}

func (o *Observer[T]) terminate(s Signal[T]) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.signals = append(o.signals, s)
	o.terminals++
	if o.terminals == 1 {
		close(o.done)
	}
}

// Dispose disposes the handle received in OnSubscribe, if any.
func (o *Observer[T]) Dispose() {
	o.mu.Lock()
	h := o.handle
	o.mu.Unlock()
	if h != nil {
		h.Dispose()
	}
}

// Handle returns the first handle passed to OnSubscribe, or nil.
func (o *Observer[T]) Handle() amb.Disposable {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.handle
}

// Done is closed when the first terminal signal arrives.
func (o *Observer[T]) Done() <-chan struct{} {
	return o.done
}

// Await blocks until a terminal signal arrives or timeout elapses and
// reports whether the observer terminated.
func (o *Observer[T]) Await(timeout time.Duration) bool {
	select {
	case <-o.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Signals returns a copy of every recorded signal in arrival order.
func (o *Observer[T]) Signals() []Signal[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Signal[T], len(o.signals))
	copy(out, o.signals)
	return out
}

// Values returns the values received through OnNext, in order.
func (o *Observer[T]) Values() []T {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []T
	for _, s := range o.signals {
		if s.Kind == KindNext {
			out = append(out, s.Value)
		}
	}
	return out
}

// Err returns the error of the first terminal signal, or nil.
func (o *Observer[T]) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, s := range o.signals {
		if s.Kind == KindError {
			return s.Err
		}
	}
	return nil
}

// Completed reports whether OnComplete was called.
func (o *Observer[T]) Completed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, s := range o.signals {
		if s.Kind == KindComplete {
			return true
		}
	}
	return false
}

// Subscriptions returns how many times OnSubscribe was called.
func (o *Observer[T]) Subscriptions() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, s := range o.signals {
		if s.Kind == KindSubscribe {
			n++
		}
	}
	return n
}

// Terminals returns how many terminal signals were received. A well
// behaved source delivers at most one.
func (o *Observer[T]) Terminals() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.terminals
}
