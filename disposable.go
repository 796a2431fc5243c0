package amb

import "sync/atomic"

// Disposable is a cancelable resource handle. Dispose is idempotent and
// safe to call from any goroutine.
type Disposable interface {
	Dispose()
	IsDisposed() bool
}

// NewDisposable returns a Disposable that runs fn exactly once, on the
// first call to Dispose. A nil fn yields a handle that only tracks its
// disposed state.
func NewDisposable(fn func()) Disposable {
	return &actionDisposable{fn: fn}
}

type actionDisposable struct {
	fn   func()
	done atomic.Bool
}

func (d *actionDisposable) Dispose() {
	if d.done.CompareAndSwap(false, true) && d.fn != nil {
		d.fn()
	}
}

func (d *actionDisposable) IsDisposed() bool {
	return d.done.Load()
}

// Disposed returns a handle that is already disposed. Sources that
// terminate synchronously inside Subscribe hand it to their observer.
func Disposed() Disposable {
	return disposedHandle{}
}

type disposedHandle struct{}

func (disposedHandle) Dispose()         {}
func (disposedHandle) IsDisposed() bool { return true }

// handleBox lets an interface value live behind an atomic.Pointer.
type handleBox struct {
	d Disposable
}

// disposedBox is the sentinel stored in a handleSlot once it is disposed.
var disposedBox = &handleBox{d: disposedHandle{}}

// handleSlot is a single-assignment holder for an upstream handle.
// The zero value is empty and ready to use.
type handleSlot struct {
	p atomic.Pointer[handleBox]
}

// setOnce stores d if the slot is empty. If the slot was already
// disposed, or already holds another handle, d is disposed instead and
// setOnce reports false.
func (s *handleSlot) setOnce(d Disposable) bool {
	if d == nil {
		d = NewDisposable(nil)
	}
	if s.p.CompareAndSwap(nil, &handleBox{d: d}) {
		return true
	}
	d.Dispose()
	return false
}

// dispose disposes the stored handle, or marks the empty slot so that a
// handle arriving later is disposed on arrival.
func (s *handleSlot) dispose() {
	if s.p.Load() == disposedBox {
		return
	}
	if prev := s.p.Swap(disposedBox); prev != nil && prev != disposedBox {
		prev.d.Dispose()
	}
}

// release marks the slot disposed without disposing the stored handle.
// Used after the upstream has terminated on its own.
func (s *handleSlot) release() {
	s.p.Store(disposedBox)
}

func (s *handleSlot) isDisposed() bool {
	return s.p.Load() == disposedBox
}
