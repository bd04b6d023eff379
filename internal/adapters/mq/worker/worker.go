// Package worker runs a bounded pool of goroutines over a queue.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/okian/seedline/pkg/logger"
)

// Queue defines how workers receive items.
type Queue[T any] interface {
	Dequeue(ctx context.Context) <-chan T
}

// Handler processes one item. A panicking handler is recovered and logged.
type Handler[T any] func(ctx context.Context, item T)

// Pool manages a fixed set of workers draining one queue.
type Pool[T any] struct {
	size    int
	name    string
	queue   Queue[T]
	handler Handler[T]
	logger  logger.Logger

	wg      sync.WaitGroup
	started bool
	mu      sync.Mutex
}

// NewPool creates a pool of size workers. A size below one uses NumCPU.
func NewPool[T any](size int, q Queue[T], h Handler[T], opts ...Option) *Pool[T] {
	if size < 1 {
		size = runtime.NumCPU()
	}
	o := settings{name: "worker-pool"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named(o.name)
	}
	return &Pool[T]{
		size:    size,
		name:    o.name,
		queue:   q,
		handler: h,
		logger:  o.logger,
	}
}

// Size is the number of workers.
func (p *Pool[T]) Size() int { return p.size }

// Start launches the workers. They exit when the queue is closed and
// drained or ctx is cancelled. Start is a no-op after the first call.
func (p *Pool[T]) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, p.name+"-"+strconv.Itoa(i))
	}
}

func (p *Pool[T]) run(ctx context.Context, name string) {
	defer p.wg.Done()
	items := p.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-items:
			if !ok {
				return
			}
			p.process(ctx, name, item)
		}
	}
}

func (p *Pool[T]) process(ctx context.Context, name string, item T) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error(ctx, "worker handler panicked",
				logger.String("worker", name),
				logger.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	p.handler(ctx, item)
}

// Wait blocks until every worker has exited or ctx is done.
func (p *Pool[T]) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "worker pool wait timed out", logger.Int("workers", p.size))
		return fmt.Errorf("%w: %w", ErrWaitAborted, ctx.Err())
	}
}

// Drain blocks until every worker has exited. Workers stop on a closed,
// empty queue or on the ctx given to Start, so callers that own both need
// no deadline of their own.
func (p *Pool[T]) Drain() {
	p.wg.Wait()
}
