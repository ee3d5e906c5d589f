// Package api exposes the prensa service over HTTP with JSON bodies.
// Registration and login are open; everything else requires a bearer
// token issued by the login endpoint.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/prensa-cms/prensa/pkg/prensa"
)

// Server wires the service into an HTTP handler tree.
type Server struct {
	service prensa.Service
	secret  []byte
	logger  *slog.Logger
}

// NewServer creates a new HTTP server wrapper.
func NewServer(service prensa.Service, jwtSecret []byte, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{service: service, secret: jwtSecret, logger: logger}
}

// Routes sets up the HTTP routes
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(RequestID)
	r.Use(RequestLogger(s.logger))

	r.Get("/health", s.handleHealth)

	auth := NewAuthHandler(s.service, s.secret)
	sites := NewSiteHandler(s.service)
	posts := NewPostHandler(s.service)
	admin := NewAdminHandler(s.service)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", auth.Routes())

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(s.secret))

			r.Mount("/sites", sites.Routes())
			r.Mount("/posts", posts.Routes())
			r.Mount("/admin", admin.Routes())

			r.Delete("/media/{mediaID}", sites.DeleteMedia)
			r.Get("/languages", s.handleLanguages)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// LanguageResponse is one supported language
type LanguageResponse struct {
	Name    string   `json:"name"`
	Code    string   `json:"code"`
	Aliases []string `json:"aliases,omitempty"`
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	languages := s.service.Languages()
	resp := make([]LanguageResponse, 0, len(languages))
	for _, lang := range languages {
		resp = append(resp, LanguageResponse{
			Name:    lang.Name,
			Code:    lang.Code,
			Aliases: lang.Aliases,
		})
	}
	render.JSON(w, r, resp)
}
