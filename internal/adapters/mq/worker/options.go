package worker

import (
	"errors"

	"github.com/okian/seedline/pkg/logger"
)

// ErrWaitAborted is returned when Wait gives up before the workers exit.
var ErrWaitAborted = errors.New("worker pool wait aborted")

type settings struct {
	name   string
	logger logger.Logger
}

// Option applies a configuration option to the Pool.
type Option func(*settings)

// WithName sets the pool name used for worker names and logging.
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
