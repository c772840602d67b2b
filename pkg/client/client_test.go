package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/prepdeck/pkg/client"
)

var _ = Describe("Client", func() {
	var (
		ctx context.Context
		now time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2026, 8, 14, 9, 30, 0, 0, time.UTC)
	})

	Describe("sessions", func() {
		It("lists sessions", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()

				Expect(r.Method).To(Equal(http.MethodGet))
				Expect(r.URL.Path).To(Equal("/api/sessions"))

				resp := client.SessionsResponse{Sessions: []client.Session{
					{ID: 2, Topic: "Concurrency", Position: "Backend Engineer", StartedAt: now, QuestionCount: 8, Score: 7.5},
					{ID: 1, Topic: "System design", Position: "Backend Engineer", StartedAt: now.Add(-24 * time.Hour), QuestionCount: 5, Score: 6.0},
				}}
				_ = json.NewEncoder(w).Encode(resp)
			}))
			defer server.Close()

			c := client.New(server.URL)
			sessions, err := c.ListSessions(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(sessions).To(HaveLen(2))
			Expect(sessions[0].Topic).To(Equal("Concurrency"))
			Expect(sessions[1].ID).To(Equal(int64(1)))
		})

		It("gets a session with its transcript", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()

				Expect(r.URL.Path).To(Equal("/api/sessions/7"))

				detail := client.SessionDetail{
					Session: client.Session{ID: 7, Topic: "Concurrency"},
					Turns: []client.Turn{
						{Role: "interviewer", Content: "Explain channels.", AskedAt: now},
						{Role: "candidate", Content: "Channels are typed conduits...", AskedAt: now.Add(time.Minute)},
					},
				}
				_ = json.NewEncoder(w).Encode(detail)
			}))
			defer server.Close()

			c := client.New(server.URL)
			detail, err := c.GetSession(ctx, 7)

			Expect(err).NotTo(HaveOccurred())
			Expect(detail.ID).To(Equal(int64(7)))
			Expect(detail.Turns).To(HaveLen(2))
			Expect(detail.Turns[0].Role).To(Equal("interviewer"))
		})

		It("deletes a session", func() {
			var gotMethod, gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			c := client.New(server.URL)
			Expect(c.DeleteSession(ctx, 3)).To(Succeed())
			Expect(gotMethod).To(Equal(http.MethodDelete))
			Expect(gotPath).To(Equal("/api/sessions/3"))
		})

		It("wraps a 404 into an APIError with the server message", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message":"session not found"}`))
			}))
			defer server.Close()

			c := client.New(server.URL)
			_, err := c.GetSession(ctx, 99)

			var apiErr *client.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.Status).To(Equal(http.StatusNotFound))
			Expect(apiErr.Message).To(Equal("session not found"))
		})

		It("fetches the stats series", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()

				Expect(r.URL.Path).To(Equal("/api/sessions/stats"))
				_ = json.NewEncoder(w).Encode(client.StatsResponse{Days: []client.StatsDay{
					{Date: "2026-08-13", Sessions: 2, AverageScore: 6.5},
					{Date: "2026-08-14", Sessions: 1, AverageScore: 8.0},
				}})
			}))
			defer server.Close()

			c := client.New(server.URL)
			days, err := c.SessionStats(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(days).To(HaveLen(2))
			Expect(days[1].AverageScore).To(Equal(8.0))
		})
	})

	Describe("knowledge bases", func() {
		It("creates a knowledge base", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()

				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(r.URL.Path).To(Equal("/api/knowledgebase"))

				var req client.CreateKnowledgeBaseRequest
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				Expect(req.Name).To(Equal("go-internals"))

				_ = json.NewEncoder(w).Encode(client.KnowledgeBase{ID: 11, Name: req.Name, Description: req.Description, CreatedAt: now})
			}))
			defer server.Close()

			c := client.New(server.URL)
			kb, err := c.CreateKnowledgeBase(ctx, "go-internals", "runtime notes")

			Expect(err).NotTo(HaveOccurred())
			Expect(kb.ID).To(Equal(int64(11)))
		})

		It("uploads a document as multipart form data", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()

				Expect(r.URL.Path).To(Equal("/api/knowledgebase/4/documents"))
				Expect(r.Header.Get("Content-Type")).To(HavePrefix("multipart/form-data"))

				file, header, err := r.FormFile("file")
				Expect(err).NotTo(HaveOccurred())
				defer file.Close()

				Expect(header.Filename).To(Equal("notes.md"))
				content, err := io.ReadAll(file)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(content)).To(Equal("# Scheduler notes\n"))

				_ = json.NewEncoder(w).Encode(client.UploadResponse{DocumentID: 42, Filename: header.Filename})
			}))
			defer server.Close()

			c := client.New(server.URL)
			uploaded, err := c.UploadDocument(ctx, 4, "notes.md", strings.NewReader("# Scheduler notes\n"))

			Expect(err).NotTo(HaveOccurred())
			Expect(uploaded.DocumentID).To(Equal(int64(42)))
		})

		It("runs a non-streaming query", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()

				Expect(r.URL.Path).To(Equal("/api/knowledgebase/query"))

				var req client.QueryRequest
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				Expect(req.KnowledgeBaseIDs).To(Equal([]int64{1, 3}))
				Expect(req.Question).To(Equal("what is the GMP model?"))

				_ = json.NewEncoder(w).Encode(client.QueryResponse{Answer: "G goroutines, M machine threads, P processors."})
			}))
			defer server.Close()

			c := client.New(server.URL)
			answer, err := c.Query(ctx, []int64{1, 3}, "what is the GMP model?")

			Expect(err).NotTo(HaveOccurred())
			Expect(answer).To(ContainSubstring("goroutines"))
		})
	})
})
