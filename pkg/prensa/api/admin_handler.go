package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/prensa-cms/prensa/pkg/prensa"
)

// LogEntryResponse is one analytics entry in chronological order
type LogEntryResponse struct {
	ID        int64     `json:"id"`
	ActorID   int64     `json:"actor_id"`
	CreatedAt time.Time `json:"created_at"`
	Summary   string    `json:"summary"`
}

// AdminHandler exposes operations restricted to admin accounts
type AdminHandler struct {
	service prensa.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service prensa.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// Routes returns the admin routes
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(requireAdmin)
	r.Get("/logs", h.RecentLogs)
	r.Get("/users", h.ListUsers)

	return r
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserRoleFrom(r.Context()) != string(prensa.RoleAdmin) {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, ErrorResponse{Error: "admin role required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RecentLogs returns the newest analytics entries, oldest first
func (h *AdminHandler) RecentLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if param := r.URL.Query().Get("limit"); param != "" {
		parsed, err := strconv.Atoi(param)
		if err != nil {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := h.service.RecentLogs(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]LogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		meta := entry.Meta()
		resp = append(resp, LogEntryResponse{
			ID:        meta.ID,
			ActorID:   meta.ActorID,
			CreatedAt: meta.CreatedAt,
			Summary:   prensa.EntrySummary(entry),
		})
	}
	render.JSON(w, r, resp)
}

// ListUsers lists every registered account
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, toUserResponse(user))
	}
	render.JSON(w, r, resp)
}
