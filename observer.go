package amb

import "sync/atomic"

// Observer receives the signals of a [Source]: OnSubscribe first, then
// any number of OnNext calls, then exactly one of OnError or OnComplete.
//
// A single source never calls the methods of one observer concurrently,
// but different sources may call into their observers from different
// goroutines at the same time.
type Observer[T any] interface {
	OnSubscribe(d Disposable)
	OnNext(v T)
	OnError(err error)
	OnComplete()
}

// Source is a push-based producer of values.
type Source[T any] interface {
	Subscribe(o Observer[T])
}

// SourceFunc adapts a plain function to the [Source] interface.
type SourceFunc[T any] func(o Observer[T])

// Subscribe calls f(o).
func (f SourceFunc[T]) Subscribe(o Observer[T]) {
	f(o)
}

// Subscribe attaches callbacks to src and returns a handle that cancels
// the subscription. Any callback may be nil. An error that reaches a nil
// onError is reported through [ReportUndeliverable].
func Subscribe[T any](
	src Source[T],
	onNext func(T),
	onError func(error),
	onComplete func(),
) Disposable {
	o := &callbackObserver[T]{
		onNext:     onNext,
		onError:    onError,
		onComplete: onComplete,
	}
	src.Subscribe(o)
	return o
}

type callbackObserver[T any] struct {
	upstream handleSlot
	done     atomic.Bool

	onNext     func(T)
	onError    func(error)
	onComplete func()
}

func (o *callbackObserver[T]) OnSubscribe(d Disposable) {
	o.upstream.setOnce(d)
}

func (o *callbackObserver[T]) OnNext(v T) {
	if o.done.Load() || o.upstream.isDisposed() {
		return
	}
	if o.onNext != nil {
		o.onNext(v)
	}
}

func (o *callbackObserver[T]) OnError(err error) {
	if o.upstream.isDisposed() || !o.done.CompareAndSwap(false, true) {
		ReportUndeliverable(err)
		return
	}
	o.upstream.release()
	if o.onError == nil {
		ReportUndeliverable(err)
		return
	}
	o.onError(err)
}

func (o *callbackObserver[T]) OnComplete() {
	if o.upstream.isDisposed() || !o.done.CompareAndSwap(false, true) {
		return
	}
	o.upstream.release()
	if o.onComplete != nil {
		o.onComplete()
	}
}

func (o *callbackObserver[T]) Dispose() {
	o.upstream.dispose()
}

func (o *callbackObserver[T]) IsDisposed() bool {
	return o.upstream.isDisposed()
}
