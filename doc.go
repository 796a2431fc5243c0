// Package amb races push-based sources against each other.
//
// A [Source] delivers values to an [Observer] through OnNext and ends
// with exactly one OnError or OnComplete. [Amb] subscribes to several
// sources at once and mirrors whichever one signals first, whether that
// signal is a value, an error or completion. Every other source is
// disposed the moment the race is decided:
//
//	race := amb.Amb(primary, replica, cache)
//	values, err := amb.Collect(ctx, race)
//
// The race is decided lock-free by a single compare-and-swap, so sources
// may emit from any number of goroutines at the same instant; exactly one
// of them wins and its full sequence reaches the observer unchanged and
// in order. The combinator starts no goroutines of its own.
//
// # Building a Race
//
//   - [Amb]: variadic form.
//   - [AmbSlice]: takes a slice and [Option] values.
//   - [AmbSeq]: takes an [iter.Seq]. The sequence is iterated exactly
//     once per subscription, before any source is subscribed.
//
// With no sources the race completes immediately; with one source the
// observer is subscribed to it directly.
//
// # Cancellation
//
// The observer of a race receives a [Disposable] in OnSubscribe.
// Disposing it disposes every source; any signal that arrives afterwards
// from a source that had not already won is dropped. A handle that a
// source delivers after it was cancelled is disposed on arrival.
//
// # Losing Errors
//
// An error from a source that lost has no observer left to receive it.
// It is wrapped in an [*UndeliverableError] and passed to the
// process-wide handler installed with [SetErrorHandler]. The default
// handler logs it through [log/slog] (see [SetLogger]). Use
// [WithErrorHandler] to route one race's losing errors elsewhere, or to
// drop them.
//
// # Observability
//
// [WithOnEvent] registers a hook that receives an [Event] when the race
// is subscribed, won, disposed, and whenever a signal from a losing
// source is rejected or its error is routed to the undeliverable
// handler. Events carry a per-subscription UUID.
//
// # Sources and Consumers
//
// [Empty], [Never], [Just], [Fail], [FromChan] and [FromFunc] build
// sources; [Subscribe] attaches callbacks. [Collect] and [Race] block
// until a result is available, honouring [context.Context]
// cancellation.
//
// The [github.com/baxromumarov/amb/ambtest] subpackage provides a
// recording observer and a manually driven source for tests.
package amb
