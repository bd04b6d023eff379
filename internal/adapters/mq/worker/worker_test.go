package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/seedline/internal/adapters/mq/queue"
	"github.com/okian/seedline/internal/adapters/mq/worker"
	logging "github.com/okian/seedline/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logging.Init()
}

func TestPool(t *testing.T) {
	convey.Convey("Given a closed queue of jobs", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue[int](queue.WithCapacity(16))
		for i := 1; i <= 10; i++ {
			q.Enqueue(ctx, i)
		}
		_ = q.Close()

		convey.Convey("When a pool drains it", func() {
			var mu sync.Mutex
			seen := map[int]bool{}
			var sum atomic.Int64
			pool := worker.NewPool[int](3, q, func(_ context.Context, n int) {
				mu.Lock()
				seen[n] = true
				mu.Unlock()
				sum.Add(int64(n))
			}, worker.WithName("test-pool"))
			pool.Start(ctx)
			pool.Drain()
			err := pool.Wait(ctx)

			convey.Convey("Then every job runs exactly once", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(seen), convey.ShouldEqual, 10)
				convey.So(sum.Load(), convey.ShouldEqual, 55)
				convey.So(pool.Size(), convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When a handler panics", func() {
			var handled atomic.Int32
			pool := worker.NewPool[int](2, q, func(_ context.Context, n int) {
				if n == 5 {
					panic("bad job")
				}
				handled.Add(1)
			})
			pool.Start(ctx)
			err := pool.Wait(ctx)

			convey.Convey("Then the rest of the jobs still run", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(handled.Load(), convey.ShouldEqual, 9)
			})
		})
	})

	convey.Convey("Given a queue that is never closed", t, func() {
		q := queue.NewInMemoryQueue[int]()
		block := make(chan struct{})
		defer close(block)

		q.Enqueue(context.Background(), 1)
		pool := worker.NewPool[int](1, q, func(ctx context.Context, _ int) {
			select {
			case <-block:
			case <-ctx.Done():
			}
		})

		convey.Convey("When the wait deadline passes", func() {
			runCtx, cancelRun := context.WithCancel(context.Background())
			defer cancelRun()
			pool.Start(runCtx)

			waitCtx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			err := pool.Wait(waitCtx)

			convey.Convey("Then Wait reports the abort", func() {
				convey.So(errors.Is(err, worker.ErrWaitAborted), convey.ShouldBeTrue)
			})

			convey.Convey("Then cancelling the run context stops the workers", func() {
				cancelRun()
				convey.So(pool.Wait(context.Background()), convey.ShouldBeNil)
			})
		})

		convey.Convey("When draining after the run context ends", func() {
			runCtx, cancelRun := context.WithCancel(context.Background())
			pool.Start(runCtx)
			cancelRun()

			drained := make(chan struct{})
			go func() {
				pool.Drain()
				close(drained)
			}()

			convey.Convey("Then Drain returns once the workers exit", func() {
				select {
				case <-drained:
				case <-time.After(2 * time.Second):
					convey.So("drain did not return", convey.ShouldBeEmpty)
				}
			})
		})
	})

	convey.Convey("Given a pool with no explicit size", t, func() {
		pool := worker.NewPool[int](0, queue.NewInMemoryQueue[int](), func(context.Context, int) {})
		convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
	})
}
