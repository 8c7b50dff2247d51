package usecase

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type runOptions struct {
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures RunProtocol and PlanManifest.
type Option func(*runOptions)

func WithLogger(l *slog.Logger) Option {
	return func(o *runOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock is useful for tests.
func WithClock(now func() time.Time) Option {
	return func(o *runOptions) { o.now = now }
}

// WithIDGenerator overrides the run ID source (uuid by default).
func WithIDGenerator(fn func() string) Option {
	return func(o *runOptions) { o.newID = fn }
}

func buildOptions(opts []Option) runOptions {
	o := runOptions{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
