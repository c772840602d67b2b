package stub

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Server is the stub Prep API server.
type Server struct {
	config Config
	store  *Store
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a new stub server.
// The store is injected to allow tests to pre-populate state.
func NewServer(config Config, store *Store, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		store:  store,
		logger: logger,
		app:    app,
	}

	app.Get("/ping", s.handlePing)

	app.Get("/api/sessions", s.handleListSessions)
	app.Get("/api/sessions/stats", s.handleSessionStats)
	app.Get("/api/sessions/:id", s.handleGetSession)
	app.Delete("/api/sessions/:id", s.handleDeleteSession)

	app.Get("/api/knowledgebase", s.handleListKnowledgeBases)
	app.Post("/api/knowledgebase", s.handleCreateKnowledgeBase)
	app.Delete("/api/knowledgebase/:id", s.handleDeleteKnowledgeBase)
	app.Post("/api/knowledgebase/:id/documents", s.handleUploadDocument)
	app.Post("/api/knowledgebase/query", s.handleQuery)
	app.Post("/api/knowledgebase/query/stream", s.handleQueryStream)

	if config.Seed {
		Seed(store)
	}

	return s
}

// Run starts the stub server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting stub server",
		"listen", s.config.ListenAddr,
		"seeded", s.config.Seed,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the stub server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
