package goroutine

import (
	"github.com/x-xyz/auction/base/log"
	"github.com/x-xyz/auction/base/utils"
)

type PanicEvent struct {
	Panic interface{}
	Stack []byte
}

type RecoverableGoOptions struct {
	logger         log.Logger
	beforeStart    *func()
	afterEnded     *func()
	afterRecovered *func(panic interface{}, stack []byte)
}

type RecoverableGoOptionsFunc = func(*RecoverableGoOptions) error

func getRecoverableGoOptions(fns ...RecoverableGoOptionsFunc) RecoverableGoOptions {
	opts := RecoverableGoOptions{logger: log.Log()}
	for _, fn := range fns {
		fn(&opts)
	}
	return opts
}

// WithLogger reports a recovered panic on l instead of the process logger,
// so request scoped fields survive into the log line.
func WithLogger(l log.Logger) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.logger = l
		return nil
	}
}

func WithBeforeStart(f func()) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.beforeStart = &f
		return nil
	}
}

func WithAfterEnded(f func()) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.afterEnded = &f
		return nil
	}
}

func WithAfterRecovered(f func(panic interface{}, stack []byte)) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.afterRecovered = &f
		return nil
	}
}

// RecoverableGo runs f on a new goroutine. The returned channel receives the
// panic if f panics and is closed otherwise.
func RecoverableGo(f func(), fns ...RecoverableGoOptionsFunc) chan *PanicEvent {
	panicChan := make(chan *PanicEvent, 1)
	go func() {
		if p := Recoverable(f, fns...); p != nil {
			panicChan <- p
			return
		}
		close(panicChan)
	}()
	return panicChan
}

// Recoverable runs f on the calling goroutine and turns a panic into a
// PanicEvent. Worker pools use it to keep one bad task from killing a worker.
func Recoverable(f func(), fns ...RecoverableGoOptionsFunc) (event *PanicEvent) {
	opts := getRecoverableGoOptions(fns...)

	defer func() {
		if opts.afterEnded != nil {
			(*opts.afterEnded)()
		}

		if p := recover(); p != nil {
			stack := utils.Stack(3)

			opts.logger.WithFields(log.Fields{
				"err":   p,
				"stack": string(stack),
			}).Error("panic")

			if opts.afterRecovered != nil {
				(*opts.afterRecovered)(p, stack)
			}

			event = &PanicEvent{p, stack}
		}
	}()

	if opts.beforeStart != nil {
		(*opts.beforeStart)()
	}

	f()
	return nil
}
