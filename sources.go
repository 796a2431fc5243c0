package amb

import "context"

// Empty returns a [Source] that completes immediately without emitting.
func Empty[T any]() Source[T] {
	return SourceFunc[T](func(o Observer[T]) {
		o.OnSubscribe(Disposed())
		o.OnComplete()
	})
}

// Never returns a [Source] that never signals.
func Never[T any]() Source[T] {
	return SourceFunc[T](func(o Observer[T]) {
		o.OnSubscribe(NewDisposable(nil))
	})
}

// Fail returns a [Source] that terminates immediately with err.
func Fail[T any](err error) Source[T] {
	return SourceFunc[T](func(o Observer[T]) {
		o.OnSubscribe(Disposed())
		o.OnError(err)
	})
}

// Just returns a [Source] that emits items synchronously, on the
// subscribing goroutine, then completes. Emission stops as soon as the
// subscription is disposed.
func Just[T any](items ...T) Source[T] {
	return SourceFunc[T](func(o Observer[T]) {
		d := NewDisposable(nil)
		o.OnSubscribe(d)
		for _, v := range items {
			if d.IsDisposed() {
				return
			}
			o.OnNext(v)
		}
		if !d.IsDisposed() {
			o.OnComplete()
		}
	})
}

// FromChan returns a [Source] that forwards values received from ch on a
// dedicated goroutine and completes when ch is closed. Disposing the
// subscription stops the goroutine; values already in ch stay there.
func FromChan[T any](ch <-chan T) Source[T] {
	return SourceFunc[T](func(o Observer[T]) {
		stop := make(chan struct{})
		d := NewDisposable(func() { close(stop) })
		o.OnSubscribe(d)

		go func() {
			for {
				select {
				case <-stop:
					return
				case v, ok := <-ch:
					if !ok {
						if !d.IsDisposed() {
							o.OnComplete()
						}
						return
					}
					if d.IsDisposed() {
						return
					}
					o.OnNext(v)
				}
			}
		}()
	})
}

// ProducerFunc produces values by calling emit. It must call emit only
// from its own goroutine and should return once ctx is done.
type ProducerFunc[T any] func(ctx context.Context, emit func(T)) error

// FromFunc returns a [Source] that runs fn on a new goroutine for every
// subscription. Values passed to emit are forwarded; when fn returns,
// its error (or completion, for a nil error) terminates the sequence.
//
// Disposing the subscription cancels the context given to fn, and
// nothing fn does afterwards reaches the observer. A panic inside fn is
// delivered as a [*PanicError].
func FromFunc[T any](fn ProducerFunc[T]) Source[T] {
	return fromFunc(context.Background(), fn)
}

func fromFunc[T any](parent context.Context, fn ProducerFunc[T]) Source[T] {
	if fn == nil {
		panic("amb: producer must not be nil")
	}
	return SourceFunc[T](func(o Observer[T]) {
		ctx, cancel := context.WithCancel(parent)
		d := NewDisposable(cancel)
		o.OnSubscribe(d)

		go func() {
			err := runProducer(ctx, fn, func(v T) {
				if !d.IsDisposed() {
					o.OnNext(v)
				}
			})
			if d.IsDisposed() {
				return
			}
			// Release the context; the handle stays usable but is now a no-op.
			defer d.Dispose()
			if err != nil {
				o.OnError(err)
				return
			}
			o.OnComplete()
		}()
	})
}

func runProducer[T any](ctx context.Context, fn ProducerFunc[T], emit func(T)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r, producerName(fn))
		}
	}()
	return fn(ctx, emit)
}
