package amb

import (
	"fmt"
	"reflect"
	"runtime"
)

// maxStackSize caps the stack trace captured for a panicking producer.
const maxStackSize = 64 << 10

// PanicError reports a panic raised inside a [FromFunc] producer. It is
// delivered to the observer through OnError, so a panicking source loses
// or wins a race like any other failing source.
type PanicError struct {
	// Producer is the fully qualified name of the producer function,
	// or empty if it could not be resolved.
	Producer string

	// Value is the original value passed to panic().
	Value any

	// Stack is the producer goroutine's stack at the point of panic.
	Stack string
}

func (e *PanicError) Error() string {
	if e.Producer == "" {
		return fmt.Sprintf("amb: producer panicked: %v\n\n%s", e.Value, e.Stack)
	}
	return fmt.Sprintf("amb: producer %s panicked: %v\n\n%s", e.Producer, e.Value, e.Stack)
}

// Unwrap returns the panic value when it is an error, so errors.Is can
// see through panics raised with an error value.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func newPanicError(v any, producer string) *PanicError {
	return &PanicError{
		Producer: producer,
		Value:    v,
		Stack:    captureStack(),
	}
}

// captureStack returns the current goroutine's stack, doubling the
// buffer until the trace fits or maxStackSize is reached.
func captureStack() string {
	buf := make([]byte, 4096)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) || len(buf) >= maxStackSize {
			return string(buf[:n])
		}
		buf = make([]byte, 2*len(buf))
	}
}

func producerName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return ""
}
