package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/prepdeck/pkg/logger"
)

var _ = Describe("Logger", func() {
	Describe("New", func() {
		It("creates a default text logger", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf))
			l.Info("hello", "key", "value")

			output := buf.String()
			Expect(output).To(ContainSubstring("hello"))
			Expect(output).To(ContainSubstring("key"))
			Expect(output).To(ContainSubstring("value"))
		})

		It("respects debug level", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithDebug(true))
			l.Debug("debug msg")

			Expect(buf.String()).To(ContainSubstring("debug msg"))
		})

		It("filters debug when not enabled", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithDebug(false))
			l.Debug("hidden")

			Expect(buf.String()).To(BeEmpty())
		})

		It("creates a JSON logger", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true))
			l.Info("structured", "count", 42)

			var record map[string]any
			Expect(json.Unmarshal(buf.Bytes(), &record)).To(Succeed())
			Expect(record["msg"]).To(Equal("structured"))
			Expect(record["count"]).To(Equal(float64(42)))
		})

		It("creates a pretty logger", func() {
			var buf bytes.Buffer
			l := logger.New(logger.WithWriter(&buf), logger.WithPretty(true))
			l.Info("colorful")

			Expect(buf.String()).To(ContainSubstring("colorful"))
		})

		It("writes to multiple writers", func() {
			var first, second bytes.Buffer
			l := logger.New(logger.WithWriters(&first, &second))
			l.Info("fan out")

			Expect(first.String()).To(ContainSubstring("fan out"))
			Expect(second.String()).To(ContainSubstring("fan out"))
		})
	})

	Describe("Multi", func() {
		It("dispatches every record to all loggers", func() {
			var pretty, structured bytes.Buffer
			l := logger.Multi(
				logger.New(logger.WithWriter(&pretty)),
				logger.New(logger.WithWriter(&structured), logger.WithJSON(true)),
			)
			l.Info("both")

			Expect(pretty.String()).To(ContainSubstring("both"))
			Expect(structured.String()).To(ContainSubstring("both"))
		})

		It("respects each handler's level independently", func() {
			var debugBuf, infoBuf bytes.Buffer
			l := logger.Multi(
				logger.New(logger.WithWriter(&debugBuf), logger.WithDebug(true)),
				logger.New(logger.WithWriter(&infoBuf)),
			)
			l.Debug("quiet")

			Expect(debugBuf.String()).To(ContainSubstring("quiet"))
			Expect(infoBuf.String()).To(BeEmpty())
		})

		It("reports enabled when any handler is enabled", func() {
			l := logger.Multi(
				logger.New(logger.WithDebug(true)),
				logger.New(),
			)
			Expect(l.Handler().Enabled(context.Background(), slog.LevelDebug)).To(BeTrue())
		})

		It("propagates attrs to all handlers", func() {
			var first, second bytes.Buffer
			l := logger.Multi(
				logger.New(logger.WithWriter(&first)),
				logger.New(logger.WithWriter(&second)),
			).With("component", "stub")
			l.Info("tagged")

			for _, out := range []string{first.String(), second.String()} {
				Expect(out).To(ContainSubstring("component"))
				Expect(strings.Count(out, "tagged")).To(Equal(1))
			}
		})
	})
})
