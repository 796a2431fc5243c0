// Package ambtest provides test doubles for code built on
// [github.com/baxromumarov/amb].
//
//   - [Observer]: records every signal it receives and exposes them for
//     assertions, including protocol violations such as a second
//     terminal signal.
//   - [Source]: a manually driven source. Tests push values, errors and
//     completion through it from any goroutine and inspect how often the
//     subscription was disposed. It keeps delivering after disposal, so
//     it can stand in for a slow or misbehaving producer.
package ambtest
