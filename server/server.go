// Package server exposes the conversation store over a JSON HTTP API.
// It is a thin consumer of the store interface: every handler performs one
// store operation and returns.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/councilhq/council/configuration"
	"github.com/councilhq/council/store"
)

// NewServeCmd creates a new serve command
func NewServeCmd(config *configuration.Config, s *store.Store) *cobra.Command {
	var opts struct {
		Port string
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversations HTTP API",
		Long:  "Serve the conversations HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := &Server{
				store:       s,
				corsOrigins: config.CORSOrigins,
			}
			return server.Start(opts.Port)
		},
	}

	cmd.Flags().StringVarP(&opts.Port, "port", "p", config.Port, "Port to serve on")
	return cmd
}

// Server serves the conversations API.
type Server struct {
	store       *store.Store
	corsOrigins []string
}

// Start listens on the given port until the process exits.
func (s *Server) Start(port string) error {
	addr := ":" + port
	slog.Info("server listening", "addr", addr)
	return http.ListenAndServe(addr, s.Router())
}

// Router assembles the API routes. Exposed for tests.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors(s.corsOrigins))

	router.Get("/healthz", s.handleHealth)
	router.Route("/api/conversations", func(router chi.Router) {
		router.Get("/", s.handleListConversations)
		router.Post("/", s.handleCreateConversation)
		router.Get("/{id}", s.handleGetConversation)
		router.Post("/{id}/messages/user", s.handleAddUserMessage)
		router.Post("/{id}/messages/assistant", s.handleAddAssistantMessage)
		router.Put("/{id}/title", s.handleUpdateTitle)
	})
	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
