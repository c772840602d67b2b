package stub

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/prepdeck/pkg/client"
)

// ErrorResponse is the JSON error body shape clients parse for messages.
type ErrorResponse struct {
	Message string `json:"message"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

func (s *Server) handleListSessions(c *fiber.Ctx) error {
	return c.JSON(client.SessionsResponse{Sessions: s.store.ListSessions()})
}

func (s *Server) handleSessionStats(c *fiber.Ctx) error {
	return c.JSON(client.StatsResponse{Days: s.store.Stats()})
}

func (s *Server) handleGetSession(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "invalid session id"})
	}

	detail, ok := s.store.GetSession(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Message: fmt.Sprintf("session %d not found", id)})
	}
	return c.JSON(detail)
}

func (s *Server) handleDeleteSession(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "invalid session id"})
	}

	if !s.store.DeleteSession(id) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Message: fmt.Sprintf("session %d not found", id)})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleListKnowledgeBases(c *fiber.Ctx) error {
	return c.JSON(client.KnowledgeBasesResponse{KnowledgeBases: s.store.ListKnowledgeBases()})
}

func (s *Server) handleCreateKnowledgeBase(c *fiber.Ctx) error {
	var req client.CreateKnowledgeBaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "invalid request body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "name is required"})
	}

	kb := s.store.AddKnowledgeBase(req.Name, req.Description)
	s.logger.Info("created knowledge base", "id", kb.ID, "name", kb.Name)
	return c.Status(fiber.StatusCreated).JSON(kb)
}

func (s *Server) handleDeleteKnowledgeBase(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "invalid knowledge base id"})
	}

	if !s.store.DeleteKnowledgeBase(id) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Message: fmt.Sprintf("knowledge base %d not found", id)})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleUploadDocument(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "invalid knowledge base id"})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "file field is required"})
	}

	docID, ok := s.store.AddDocument(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Message: fmt.Sprintf("knowledge base %d not found", id)})
	}

	s.logger.Info("uploaded document",
		"knowledgebase", id,
		"document", docID,
		"filename", file.Filename,
		"size", file.Size,
	)
	return c.Status(fiber.StatusCreated).JSON(client.UploadResponse{
		DocumentID: docID,
		Filename:   file.Filename,
	})
}

func (s *Server) handleQuery(c *fiber.Ctx) error {
	req, ok, err := s.parseQuery(c)
	if !ok {
		return err
	}
	return c.JSON(client.QueryResponse{Answer: s.synthesizeAnswer(req)})
}

// handleQueryStream streams the answer as server-sent events, one data
// frame per word.
func (s *Server) handleQueryStream(c *fiber.Ctx) error {
	req, ok, err := s.parseQuery(c)
	if !ok {
		return err
	}

	answer := s.synthesizeAnswer(req)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	// Use io.Pipe + SetBodyStream instead of SetBodyStreamWriter.
	// SetBodyStreamWriter uses an internal PipeConns with a buffered channel
	// (capacity 4) and two bufio.Writers, which means Flush() in the callback
	// only pushes data into the pipe — NOT to the TCP socket. With io.Pipe,
	// pw.Write blocks until the reader consumes the data, and the reader is
	// fasthttp's writeBodyChunked which flushes to TCP after every chunk.
	// That gives clients one event at a time instead of a buffered burst.
	pr, pw := io.Pipe()
	go streamAnswer(pw, answer)

	// Unknown size (-1) triggers chunked transfer encoding in fasthttp.
	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

func streamAnswer(pw *io.PipeWriter, answer string) {
	defer pw.Close()

	for _, word := range strings.Fields(answer) {
		if _, err := fmt.Fprintf(pw, "data: %s\n\n", word); err != nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// parseQuery validates a query request body. When validation fails it
// writes the error response itself and returns ok=false.
func (s *Server) parseQuery(c *fiber.Ctx) (client.QueryRequest, bool, error) {
	var req client.QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return req, false, c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "invalid request body"})
	}
	if strings.TrimSpace(req.Question) == "" {
		return req, false, c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "question is required"})
	}
	if len(req.KnowledgeBaseIDs) == 0 {
		return req, false, c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: "at least one knowledge base id is required"})
	}
	for _, id := range req.KnowledgeBaseIDs {
		if _, ok := s.store.GetKnowledgeBase(id); !ok {
			return req, false, c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Message: fmt.Sprintf("knowledge base %d not found", id)})
		}
	}
	return req, true, nil
}

// synthesizeAnswer produces a canned answer naming the consulted
// knowledge bases. Good enough for exercising clients end to end.
func (s *Server) synthesizeAnswer(req client.QueryRequest) string {
	names := make([]string, 0, len(req.KnowledgeBaseIDs))
	for _, id := range req.KnowledgeBaseIDs {
		if kb, ok := s.store.GetKnowledgeBase(id); ok {
			names = append(names, kb.Name)
		}
	}
	return fmt.Sprintf(
		"Based on %s: a strong answer to %q covers the fundamentals first, then a concrete example from your own experience, and closes with the trade-offs you would weigh in production.",
		strings.Join(names, ", "), req.Question,
	)
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
