package amb

import (
	"fmt"
	"iter"
)

// initialCapacity is the size of the buffer a lazily produced source
// sequence is first copied into.
const initialCapacity = 8

// Amb returns a [Source] that mirrors whichever of sources signals first.
//
// On subscription every source is subscribed in order. The first source
// to emit anything (a value, an error or completion) wins: its whole
// signal sequence is forwarded unchanged and every other source is
// disposed. Errors from sources that lose are reported through the
// undeliverable-error handler (see [SetErrorHandler]).
//
// With no sources the result completes immediately. With one source the
// observer is subscribed to it directly.
//
// Amb panics if any element of sources is nil.
func Amb[T any](sources ...Source[T]) Source[T] {
	return AmbSlice(sources)
}

// AmbSlice is like [Amb] but accepts options. The slice is used as-is,
// not copied; it must not be modified while subscriptions are running.
func AmbSlice[T any](sources []Source[T], opts ...Option) Source[T] {
	for i, src := range sources {
		if src == nil {
			panic(fmt.Sprintf("amb: source[%d] must not be nil", i))
		}
	}
	return &ambSource[T]{
		sources: sources,
		cfg:     newConfig(opts),
	}
}

// AmbSeq is like [AmbSlice] but takes a lazily produced sequence of
// sources. The sequence is iterated once per subscription, in full,
// before any source is subscribed. If it yields a nil source the
// observer receives an error wrapping [ErrNilSource].
//
// AmbSeq panics if seq is nil.
func AmbSeq[T any](seq iter.Seq[Source[T]], opts ...Option) Source[T] {
	if seq == nil {
		panic("amb: source sequence must not be nil")
	}
	return &ambSource[T]{
		seq:  seq,
		lazy: true,
		cfg:  newConfig(opts),
	}
}

type ambSource[T any] struct {
	sources []Source[T]
	seq     iter.Seq[Source[T]]
	lazy    bool
	cfg     config
}

func (a *ambSource[T]) Subscribe(o Observer[T]) {
	sources := a.sources
	if a.lazy {
		var err error
		sources, err = materialize(a.seq)
		if err != nil {
			o.OnSubscribe(Disposed())
			o.OnError(err)
			return
		}
	}

	switch len(sources) {
	case 0:
		o.OnSubscribe(Disposed())
		o.OnComplete()
	case 1:
		sources[0].Subscribe(o)
	default:
		newCoordinator(o, len(sources), &a.cfg).subscribe(sources)
	}
}

// materialize copies seq into a buffer that starts at initialCapacity
// and grows by a quarter whenever it fills up.
func materialize[T any](seq iter.Seq[Source[T]]) ([]Source[T], error) {
	buf := make([]Source[T], initialCapacity)
	n := 0
	for src := range seq {
		if src == nil {
			return nil, fmt.Errorf("%w at position %d", ErrNilSource, n)
		}
		if n == len(buf) {
			grown := make([]Source[T], n+n>>2)
			copy(grown, buf)
			buf = grown
		}
		buf[n] = src
		n++
	}
	return buf[:n], nil
}
