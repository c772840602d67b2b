package stub

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/prepdeck/pkg/client"
	"github.com/papercomputeco/prepdeck/pkg/sse"
)

var _ = Describe("Server", func() {
	var (
		server *Server
		store  *Store
	)

	logger := slog.New(slog.DiscardHandler)

	jsonRequest := func(method, path string, body any) *http.Request {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req, err := http.NewRequest(method, path, &buf)
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	decodeBody := func(resp *http.Response, out any) {
		GinkgoHelper()
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(body, out)).To(Succeed())
	}

	BeforeEach(func() {
		store = NewStore()
		server = NewServer(Config{ListenAddr: ":0"}, store, logger)
	})

	Describe("GET /ping", func() {
		It("returns pong", func() {
			req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
		})
	})

	Describe("GET /api/sessions", func() {
		It("lists sessions newest first", func() {
			base := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)
			store.AddSession(client.SessionDetail{Session: client.Session{Topic: "older", StartedAt: base}})
			store.AddSession(client.SessionDetail{Session: client.Session{Topic: "newer", StartedAt: base.Add(time.Hour)}})

			req, _ := http.NewRequest(http.MethodGet, "/api/sessions", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var listed client.SessionsResponse
			decodeBody(resp, &listed)
			Expect(listed.Sessions).To(HaveLen(2))
			Expect(listed.Sessions[0].Topic).To(Equal("newer"))
			Expect(listed.Sessions[1].Topic).To(Equal("older"))
		})
	})

	Describe("GET /api/sessions/stats", func() {
		It("aggregates sessions per day with average scores", func() {
			day := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
			store.AddSession(client.SessionDetail{Session: client.Session{StartedAt: day, Score: 6}})
			store.AddSession(client.SessionDetail{Session: client.Session{StartedAt: day.Add(2 * time.Hour), Score: 8}})
			store.AddSession(client.SessionDetail{Session: client.Session{StartedAt: day.AddDate(0, 0, 1), Score: 5}})

			req, _ := http.NewRequest(http.MethodGet, "/api/sessions/stats", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())

			var stats client.StatsResponse
			decodeBody(resp, &stats)
			Expect(stats.Days).To(HaveLen(2))
			Expect(stats.Days[0].Date).To(Equal("2026-08-27"))
			Expect(stats.Days[0].Sessions).To(Equal(2))
			Expect(stats.Days[0].AverageScore).To(Equal(7.0))
			Expect(stats.Days[1].Date).To(Equal("2026-08-28"))
		})
	})

	Describe("GET /api/sessions/:id", func() {
		It("returns a session with its transcript", func() {
			added := store.AddSession(client.SessionDetail{
				Session: client.Session{Topic: "Channels", StartedAt: time.Now().UTC()},
				Turns:   []client.Turn{{Role: "interviewer", Content: "Explain select."}},
			})

			req, _ := http.NewRequest(http.MethodGet, "/api/sessions/1", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var detail client.SessionDetail
			decodeBody(resp, &detail)
			Expect(detail.ID).To(Equal(added.ID))
			Expect(detail.Turns).To(HaveLen(1))
		})

		It("returns 404 with a message for an unknown session", func() {
			req, _ := http.NewRequest(http.MethodGet, "/api/sessions/99", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))

			var errResp ErrorResponse
			decodeBody(resp, &errResp)
			Expect(errResp.Message).To(ContainSubstring("session 99 not found"))
		})

		It("returns 400 for a non-numeric id", func() {
			req, _ := http.NewRequest(http.MethodGet, "/api/sessions/abc", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Describe("DELETE /api/sessions/:id", func() {
		It("deletes an existing session", func() {
			store.AddSession(client.SessionDetail{Session: client.Session{Topic: "gone"}})

			req, _ := http.NewRequest(http.MethodDelete, "/api/sessions/1", nil)
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNoContent))
			Expect(store.ListSessions()).To(BeEmpty())
		})
	})

	Describe("POST /api/knowledgebase", func() {
		It("creates a knowledge base", func() {
			req := jsonRequest(http.MethodPost, "/api/knowledgebase", client.CreateKnowledgeBaseRequest{
				Name:        "Go fundamentals",
				Description: "runtime notes",
			})
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))

			var kb client.KnowledgeBase
			decodeBody(resp, &kb)
			Expect(kb.ID).To(Equal(int64(1)))
			Expect(kb.Name).To(Equal("Go fundamentals"))
		})

		It("rejects a blank name", func() {
			req := jsonRequest(http.MethodPost, "/api/knowledgebase", client.CreateKnowledgeBaseRequest{Name: "  "})
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			var errResp ErrorResponse
			decodeBody(resp, &errResp)
			Expect(errResp.Message).To(Equal("name is required"))
		})
	})

	Describe("POST /api/knowledgebase/:id/documents", func() {
		It("accepts a multipart upload and bumps the document count", func() {
			kb := store.AddKnowledgeBase("uploads", "")

			var buf bytes.Buffer
			form := multipart.NewWriter(&buf)
			part, err := form.CreateFormFile("file", "notes.md")
			Expect(err).NotTo(HaveOccurred())
			_, err = part.Write([]byte("# Channels\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(form.Close()).To(Succeed())

			req, err := http.NewRequest(http.MethodPost, "/api/knowledgebase/1/documents", &buf)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Content-Type", form.FormDataContentType())

			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusCreated))

			var uploaded client.UploadResponse
			decodeBody(resp, &uploaded)
			Expect(uploaded.Filename).To(Equal("notes.md"))

			stored, ok := store.GetKnowledgeBase(kb.ID)
			Expect(ok).To(BeTrue())
			Expect(stored.DocumentCount).To(Equal(1))
		})

		It("rejects an upload without a file field", func() {
			store.AddKnowledgeBase("uploads", "")

			req := jsonRequest(http.MethodPost, "/api/knowledgebase/1/documents", map[string]string{"not": "a file"})
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Describe("POST /api/knowledgebase/query", func() {
		BeforeEach(func() {
			store.AddKnowledgeBase("Go fundamentals", "")
		})

		It("answers a question naming the knowledge base", func() {
			req := jsonRequest(http.MethodPost, "/api/knowledgebase/query", client.QueryRequest{
				KnowledgeBaseIDs: []int64{1},
				Question:         "what is a goroutine?",
			})
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var answer client.QueryResponse
			decodeBody(resp, &answer)
			Expect(answer.Answer).To(ContainSubstring("Go fundamentals"))
			Expect(answer.Answer).To(ContainSubstring("goroutine"))
		})

		It("rejects an empty question", func() {
			req := jsonRequest(http.MethodPost, "/api/knowledgebase/query", client.QueryRequest{
				KnowledgeBaseIDs: []int64{1},
			})
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("rejects a query without knowledge base ids", func() {
			req := jsonRequest(http.MethodPost, "/api/knowledgebase/query", client.QueryRequest{
				Question: "anything",
			})
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})

		It("returns 404 for an unknown knowledge base id", func() {
			req := jsonRequest(http.MethodPost, "/api/knowledgebase/query", client.QueryRequest{
				KnowledgeBaseIDs: []int64{42},
				Question:         "anything",
			})
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))

			var errResp ErrorResponse
			decodeBody(resp, &errResp)
			Expect(errResp.Message).To(Equal("knowledge base 42 not found"))
		})
	})

	Describe("POST /api/knowledgebase/query/stream", func() {
		BeforeEach(func() {
			store.AddKnowledgeBase("Go fundamentals", "")
		})

		It("streams the answer as data frames that reassemble to the full text", func() {
			req := jsonRequest(http.MethodPost, "/api/knowledgebase/query/stream", client.QueryRequest{
				KnowledgeBaseIDs: []int64{1},
				Question:         "what is a goroutine?",
			})
			resp, err := server.app.Test(req, 10000)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(HavePrefix("text/event-stream"))

			chunks, err := sse.NewDecoder(resp.Body).All()
			Expect(err).NotTo(HaveOccurred())
			Expect(chunks).NotTo(BeEmpty())
			Expect(chunks).To(ContainElement("goroutine?\""))

			var direct client.QueryResponse
			directReq := jsonRequest(http.MethodPost, "/api/knowledgebase/query", client.QueryRequest{
				KnowledgeBaseIDs: []int64{1},
				Question:         "what is a goroutine?",
			})
			directResp, err := server.app.Test(directReq)
			Expect(err).NotTo(HaveOccurred())
			decodeBody(directResp, &direct)

			var joined bytes.Buffer
			for i, chunk := range chunks {
				if i > 0 {
					joined.WriteString(" ")
				}
				joined.WriteString(chunk)
			}
			Expect(joined.String()).To(Equal(direct.Answer))
		})

		It("validates before opening the stream", func() {
			req := jsonRequest(http.MethodPost, "/api/knowledgebase/query/stream", client.QueryRequest{
				KnowledgeBaseIDs: []int64{1},
			})
			resp, err := server.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))

			var errResp ErrorResponse
			decodeBody(resp, &errResp)
			Expect(errResp.Message).To(Equal("question is required"))
		})
	})

	Describe("Seed", func() {
		It("populates sessions and knowledge bases", func() {
			seeded := NewStore()
			Seed(seeded)

			Expect(seeded.ListSessions()).NotTo(BeEmpty())
			kbs := seeded.ListKnowledgeBases()
			Expect(kbs).NotTo(BeEmpty())
			Expect(kbs[0].DocumentCount).To(BeNumerically(">", 0))
		})
	})
})
