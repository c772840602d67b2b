package dotdir_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/prepdeck/pkg/dotdir"
)

var _ = Describe("Manager", func() {
	var tmpDir string
	var m *dotdir.Manager

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dotdir-test-*")
		Expect(err).NotTo(HaveOccurred())

		// Resolve symlinks so paths match filepath.Abs results
		// (e.g. on macOS /var -> /private/var).
		tmpDir, err = filepath.EvalSymlinks(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		m = dotdir.NewManager()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("Target", func() {
		It("creates the override directory if it doesn't exist", func() {
			dir := filepath.Join(tmpDir, "newdir")
			result, err := m.Target(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(dir))

			info, err := os.Stat(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		})

		It("returns an existing override directory without error", func() {
			result, err := m.Target(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(tmpDir))
		})

		It("prefers the override dir even when a local .prepdeck dir exists", func() {
			localDir := filepath.Join(tmpDir, ".prepdeck")
			Expect(os.Mkdir(localDir, 0o755)).To(Succeed())

			origDir, err := os.Getwd()
			Expect(err).NotTo(HaveOccurred())
			Expect(os.Chdir(tmpDir)).To(Succeed())
			DeferCleanup(func() { _ = os.Chdir(origDir) })

			overrideDir := filepath.Join(tmpDir, "override")
			result, err := m.Target(overrideDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(overrideDir))
		})

		It("returns the local .prepdeck dir when it exists and no override is provided", func() {
			localDir := filepath.Join(tmpDir, ".prepdeck")
			Expect(os.Mkdir(localDir, 0o755)).To(Succeed())

			origDir, err := os.Getwd()
			Expect(err).NotTo(HaveOccurred())
			Expect(os.Chdir(tmpDir)).To(Succeed())
			DeferCleanup(func() { _ = os.Chdir(origDir) })

			result, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(localDir))
		})
	})

	Describe("query state", func() {
		It("returns nil when no state exists", func() {
			state, err := m.LoadQueryState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(BeNil())
		})

		It("round-trips the last-query state", func() {
			saved := &dotdir.QueryState{
				KnowledgeBaseIDs: []int64{3, 7},
				Question:         "explain the GMP scheduler",
				AskedAt:          time.Date(2026, 8, 14, 9, 0, 0, 0, time.UTC),
			}
			Expect(m.SaveQueryState(saved, tmpDir)).To(Succeed())

			loaded, err := m.LoadQueryState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(saved))
		})

		It("rejects saving nil state", func() {
			Expect(m.SaveQueryState(nil, tmpDir)).NotTo(Succeed())
		})

		It("clears state idempotently", func() {
			saved := &dotdir.QueryState{KnowledgeBaseIDs: []int64{1}, Question: "q"}
			Expect(m.SaveQueryState(saved, tmpDir)).To(Succeed())

			Expect(m.ClearQueryState(tmpDir)).To(Succeed())
			Expect(m.ClearQueryState(tmpDir)).To(Succeed())

			state, err := m.LoadQueryState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(BeNil())
		})
	})
})
