package record

import (
	"github.com/sirupsen/logrus"

	"github.com/reoring/pathstore/subscription"
)

// Option configures a Wrapper.
type Option func(*options)

type options struct {
	subs *subscription.Manager
	log  logrus.FieldLogger
}

// WithManager makes the wrapper publish its changes through m instead of a
// private manager.
func WithManager(m *subscription.Manager) Option {
	return func(o *options) { o.subs = m }
}

// WithLogger sets the logger for mutation traces.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.log == nil {
		o.log = logrus.StandardLogger()
	}
	if o.subs == nil {
		o.subs = subscription.New(subscription.WithLogger(o.log))
	}
	return o
}
