package amb

import (
	"log/slog"
	"sync/atomic"
)

var (
	errorHandler atomic.Pointer[func(error)]
	logger       atomic.Pointer[slog.Logger]
)

// SetErrorHandler installs the process-wide handler for errors that have
// no live observer, such as the error of a source that lost a race.
// Passing nil restores the default, which logs the error at warn level.
//
// The handler may be called concurrently from any source goroutine.
func SetErrorHandler(fn func(error)) {
	if fn == nil {
		errorHandler.Store(nil)
		return
	}
	errorHandler.Store(&fn)
}

// ErrorHandler returns the handler installed with [SetErrorHandler], or
// nil if the default is in effect.
func ErrorHandler() func(error) {
	if p := errorHandler.Load(); p != nil {
		return *p
	}
	return nil
}

// SetLogger replaces the logger used by the default undeliverable-error
// handler. Passing nil reverts to [slog.Default].
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

func currentLogger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// ReportUndeliverable hands err to the process-wide undeliverable-error
// handler. It never panics, even if the handler does.
func ReportUndeliverable(err error) {
	deliverUndeliverable(ErrorHandler(), err)
}

func deliverUndeliverable(fn func(error), err error) {
	if err == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			currentLogger().Error("amb: undeliverable error handler panicked",
				slog.Any("panic", r),
				slog.Any("error", err),
			)
		}
	}()

	if fn != nil {
		fn(err)
		return
	}

	attrs := []any{slog.Any("error", CauseOf(err))}
	if idx, ok := SourceOf(err); ok {
		attrs = append(attrs, slog.Int("source", idx))
	}
	currentLogger().Warn("amb: undeliverable error", attrs...)
}
