package histcache_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/prepdeck/pkg/client"
	"github.com/papercomputeco/prepdeck/pkg/histcache"
)

var _ = Describe("Cache", func() {
	var (
		cache *histcache.Cache
		ctx   context.Context
	)

	session := func(id int64, topic string, started time.Time) client.Session {
		return client.Session{
			ID:            id,
			Topic:         topic,
			Position:      "Backend Engineer",
			StartedAt:     started,
			QuestionCount: 5,
			Score:         7.5,
		}
	}

	BeforeEach(func() {
		var err error
		cache, err = histcache.Open(":memory:")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(cache.Close)

		ctx = context.Background()
	})

	It("round-trips a session", func() {
		started := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
		Expect(cache.Put(ctx, session(1, "Goroutines", started))).To(Succeed())

		got, err := cache.Get(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Topic).To(Equal("Goroutines"))
		Expect(got.Position).To(Equal("Backend Engineer"))
		Expect(got.StartedAt.UTC()).To(Equal(started))
		Expect(got.QuestionCount).To(Equal(5))
		Expect(got.Score).To(Equal(7.5))
	})

	It("replaces an existing session on Put", func() {
		started := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
		Expect(cache.Put(ctx, session(1, "Goroutines", started))).To(Succeed())

		updated := session(1, "Channels", started)
		updated.Score = 9
		Expect(cache.Put(ctx, updated)).To(Succeed())

		got, err := cache.Get(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Topic).To(Equal("Channels"))
		Expect(got.Score).To(Equal(9.0))
	})

	It("returns ErrNotFound for an unknown id", func() {
		_, err := cache.Get(ctx, 42)
		Expect(err).To(MatchError(histcache.ErrNotFound{ID: 42}))
	})

	It("lists sessions most recent first", func() {
		base := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
		Expect(cache.Put(ctx, session(1, "oldest", base))).To(Succeed())
		Expect(cache.Put(ctx, session(2, "newest", base.Add(48*time.Hour)))).To(Succeed())
		Expect(cache.Put(ctx, session(3, "middle", base.Add(24*time.Hour)))).To(Succeed())

		sessions, err := cache.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(sessions).To(HaveLen(3))
		Expect(sessions[0].Topic).To(Equal("newest"))
		Expect(sessions[1].Topic).To(Equal("middle"))
		Expect(sessions[2].Topic).To(Equal("oldest"))
	})

	It("drops stale entries on Replace", func() {
		base := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
		Expect(cache.Put(ctx, session(1, "stale", base))).To(Succeed())

		fresh := []client.Session{
			session(2, "fresh-a", base.Add(time.Hour)),
			session(3, "fresh-b", base.Add(2*time.Hour)),
		}
		Expect(cache.Replace(ctx, fresh)).To(Succeed())

		sessions, err := cache.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(sessions).To(HaveLen(2))

		_, err = cache.Get(ctx, 1)
		Expect(err).To(MatchError(histcache.ErrNotFound{ID: 1}))
	})

	It("treats deleting an absent session as a no-op", func() {
		Expect(cache.Delete(ctx, 99)).To(Succeed())
	})

	It("deletes a cached session", func() {
		started := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
		Expect(cache.Put(ctx, session(1, "Goroutines", started))).To(Succeed())
		Expect(cache.Delete(ctx, 1)).To(Succeed())

		_, err := cache.Get(ctx, 1)
		Expect(err).To(MatchError(histcache.ErrNotFound{ID: 1}))
	})
})
