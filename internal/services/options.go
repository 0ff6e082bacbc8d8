package services

import (
	"io"
	"time"

	"github.com/diewo77/go-stock/internal/events"
	"github.com/sirupsen/logrus"
)

// Option customises a service.
type Option func(*options)

type options struct {
	log        logrus.FieldLogger
	dispatcher events.Dispatcher
	now        func() time.Time
}

func newOptions(opts []Option) options {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	o := options{log: discard, dispatcher: events.Nop{}, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger for state-change and dispatch-failure logs.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

// WithDispatcher sets where domain events are sent.
func WithDispatcher(d events.Dispatcher) Option {
	return func(o *options) { o.dispatcher = d }
}

// WithClock overrides the time source used for order timestamps and
// cash-flow dates.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// dispatch sends e after a committed write; failures are only logged.
func (o options) dispatch(e events.Event) {
	if err := o.dispatcher.Dispatch(e); err != nil {
		o.log.WithError(err).WithField("event", e.Type()).Warn("event dispatch failed")
	}
}
