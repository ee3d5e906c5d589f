package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/prensa-cms/prensa/pkg/prensa"
)

// CreateSiteRequest is the request body for creating a site
type CreateSiteRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Template    string `json:"template,omitempty"`
}

// UpdateTemplateRequest is the request body for changing a site template
type UpdateTemplateRequest struct {
	Template string `json:"template"`
}

// GrantManagerRequest is the request body for granting site management
type GrantManagerRequest struct {
	UserID int64 `json:"user_id"`
}

// ImportMediaRequest is the request body for importing a media file
type ImportMediaRequest struct {
	Path string `json:"path"`
}

// SiteResponse is the response body for a site
type SiteResponse struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Template    string    `json:"template"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}

// MediaResponse is the response body for a media library entry
type MediaResponse struct {
	ID         int64     `json:"id"`
	SiteID     int64     `json:"site_id"`
	UploaderID int64     `json:"uploader_id"`
	Filename   string    `json:"filename"`
	StorageKey string    `json:"storage_key"`
	Kind       string    `json:"kind"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	CreatedAt  time.Time `json:"created_at"`
}

func toSiteResponse(site *prensa.Site) SiteResponse {
	return SiteResponse{
		ID:          site.ID,
		OwnerID:     site.OwnerID,
		Name:        site.Name,
		Description: site.Description,
		Template:    string(site.Template),
		URL:         site.URL(),
		CreatedAt:   site.CreatedAt,
	}
}

func toMediaResponse(media *prensa.Media) MediaResponse {
	return MediaResponse{
		ID:         media.ID,
		SiteID:     media.SiteID,
		UploaderID: media.UploaderID,
		Filename:   media.Filename,
		StorageKey: media.StorageKey,
		Kind:       string(media.Kind),
		Width:      media.Width,
		Height:     media.Height,
		CreatedAt:  media.CreatedAt,
	}
}

// SiteHandler handles HTTP requests for sites and their media
type SiteHandler struct {
	service prensa.Service
}

// NewSiteHandler creates a new site handler
func NewSiteHandler(service prensa.Service) *SiteHandler {
	return &SiteHandler{service: service}
}

// Routes returns the routes for sites
func (h *SiteHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateSite)
	r.Get("/", h.ListSites)
	r.Get("/{siteID}", h.GetSite)
	r.Put("/{siteID}/template", h.UpdateTemplate)
	r.Get("/{siteID}/stats", h.GetStats)

	r.Post("/{siteID}/managers", h.GrantManager)
	r.Get("/{siteID}/manager-candidates", h.ListManagerCandidates)

	r.Get("/{siteID}/posts", h.ListPosts)

	r.Post("/{siteID}/media", h.ImportMedia)
	r.Get("/{siteID}/media", h.ListMedia)

	return r
}

func urlID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// CreateSite creates a new site owned by the caller
func (h *SiteHandler) CreateSite(w http.ResponseWriter, r *http.Request) {
	var req CreateSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	site, err := h.service.CreateSite(r.Context(), prensa.CreateSiteRequest{
		OwnerID:     UserIDFrom(r.Context()),
		Name:        req.Name,
		Description: req.Description,
		Template:    prensa.SiteTemplate(req.Template),
	})
	if err != nil {
		slog.Error("Failed to create site", "error", err)
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toSiteResponse(site))
}

// ListSites lists every site
func (h *SiteHandler) ListSites(w http.ResponseWriter, r *http.Request) {
	var (
		sites []*prensa.Site
		err   error
	)
	if ownerParam := r.URL.Query().Get("owner_id"); ownerParam != "" {
		ownerID, perr := strconv.ParseInt(ownerParam, 10, 64)
		if perr != nil {
			http.Error(w, "Invalid owner ID", http.StatusBadRequest)
			return
		}
		sites, err = h.service.ListUserSites(r.Context(), ownerID)
	} else {
		sites, err = h.service.ListSites(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]SiteResponse, 0, len(sites))
	for _, site := range sites {
		resp = append(resp, toSiteResponse(site))
	}
	render.JSON(w, r, resp)
}

// GetSite retrieves a site, recording the visit
func (h *SiteHandler) GetSite(w http.ResponseWriter, r *http.Request) {
	siteID, err := urlID(r, "siteID")
	if err != nil {
		http.Error(w, "Invalid site ID", http.StatusBadRequest)
		return
	}

	site, err := h.service.AccessSite(r.Context(), UserIDFrom(r.Context()), siteID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, toSiteResponse(site))
}

// UpdateTemplate changes how the site arranges posts
func (h *SiteHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	siteID, err := urlID(r, "siteID")
	if err != nil {
		http.Error(w, "Invalid site ID", http.StatusBadRequest)
		return
	}

	var req UpdateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateSiteTemplate(r.Context(), siteID, prensa.SiteTemplate(req.Template)); err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// GetStats returns the site's analytics counters
func (h *SiteHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	siteID, err := urlID(r, "siteID")
	if err != nil {
		http.Error(w, "Invalid site ID", http.StatusBadRequest)
		return
	}

	stats, err := h.service.SiteStats(r.Context(), siteID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

// GrantManager lets the site owner grant management to another user
func (h *SiteHandler) GrantManager(w http.ResponseWriter, r *http.Request) {
	siteID, err := urlID(r, "siteID")
	if err != nil {
		http.Error(w, "Invalid site ID", http.StatusBadRequest)
		return
	}

	var req GrantManagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.GrantManager(r.Context(), prensa.GrantManagerRequest{
		SiteID:    siteID,
		GrantedBy: UserIDFrom(r.Context()),
		UserID:    req.UserID,
	}); err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// ListManagerCandidates lists users not yet managing the site
func (h *SiteHandler) ListManagerCandidates(w http.ResponseWriter, r *http.Request) {
	siteID, err := urlID(r, "siteID")
	if err != nil {
		http.Error(w, "Invalid site ID", http.StatusBadRequest)
		return
	}

	users, err := h.service.UsersWithoutPermission(r.Context(), siteID)
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

// ListPosts returns the site's visible posts arranged by its template
func (h *SiteHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	siteID, err := urlID(r, "siteID")
	if err != nil {
		http.Error(w, "Invalid site ID", http.StatusBadRequest)
		return
	}

	posts, err := h.service.ArrangePosts(r.Context(), siteID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		resp = append(resp, toPostResponse(post))
	}
	render.JSON(w, r, resp)
}

// ImportMedia registers a media file in the site library
func (h *SiteHandler) ImportMedia(w http.ResponseWriter, r *http.Request) {
	siteID, err := urlID(r, "siteID")
	if err != nil {
		http.Error(w, "Invalid site ID", http.StatusBadRequest)
		return
	}

	var req ImportMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	media, err := h.service.ImportMedia(r.Context(), prensa.ImportMediaRequest{
		SiteID:     siteID,
		UploaderID: UserIDFrom(r.Context()),
		Path:       req.Path,
	})
	if err != nil {
		slog.Error("Failed to import media", "site_id", siteID, "error", err)
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toMediaResponse(media))
}

// ListMedia lists the site's media library
func (h *SiteHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	siteID, err := urlID(r, "siteID")
	if err != nil {
		http.Error(w, "Invalid site ID", http.StatusBadRequest)
		return
	}

	media, err := h.service.ListSiteMedia(r.Context(), siteID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]MediaResponse, 0, len(media))
	for _, m := range media {
		resp = append(resp, toMediaResponse(m))
	}
	render.JSON(w, r, resp)
}

// DeleteMedia removes a media library entry. Deleting an id that no
// longer exists succeeds.
func (h *SiteHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	mediaID, err := urlID(r, "mediaID")
	if err != nil {
		http.Error(w, "Invalid media ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteMedia(r.Context(), UserIDFrom(r.Context()), mediaID); err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}
