package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/seedline/internal/adapters/cache"
	"github.com/okian/seedline/internal/adapters/repository"
	"github.com/okian/seedline/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func unreachable() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRedisCache(t *testing.T) {
	Convey("Given a cache with defaults", t, func() {
		c := cache.NewRedisCache(unreachable())
		defer func() { _ = c.Close() }()

		Convey("Then keys are namespaced per mode", func() {
			So(c.Key(model.ModeFair), ShouldEqual, "seedline:bracket:fair")
			So(c.Key(model.ModeDirect), ShouldEqual, "seedline:bracket:direct")
		})

		Convey("Then writing nothing is a no-op", func() {
			So(c.Write(context.Background()), ShouldBeNil)
		})
	})

	Convey("Given a custom prefix", t, func() {
		c := cache.NewRedisCache(unreachable(), cache.WithPrefix("staging"), cache.WithTTL(time.Minute))
		defer func() { _ = c.Close() }()
		So(c.Key(model.ModeFair), ShouldEqual, "staging:bracket:fair")
	})

	Convey("Given an unreachable Redis", t, func() {
		c := cache.NewRedisCache(unreachable())
		defer func() { _ = c.Close() }()
		ctx := context.Background()

		Convey("When reading", func() {
			_, err := c.Read(ctx, model.ModeFair)

			Convey("Then the cache reports itself unavailable, not a miss", func() {
				So(errors.Is(err, cache.ErrCacheUnavailable), ShouldBeTrue)
				So(errors.Is(err, cache.ErrMiss), ShouldBeFalse)
			})
		})

		Convey("When writing", func() {
			err := c.Write(ctx, repository.Snapshot{CycleID: "c1", Mode: model.ModeFair})

			Convey("Then the error is wrapped", func() {
				So(errors.Is(err, cache.ErrCacheUnavailable), ShouldBeTrue)
			})
		})

		Convey("Then ping fails", func() {
			So(c.Ping(ctx), ShouldNotBeNil)
		})
	})
}
