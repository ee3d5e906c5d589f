package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/prensa-cms/prensa/pkg/prensa"
)

// BlockRequest is one content block in authoring order
type BlockRequest struct {
	Kind    string `json:"kind"`
	Text    string `json:"text,omitempty"`
	MediaID int64  `json:"media_id,omitempty"`
	Alt     string `json:"alt,omitempty"`
}

// CreatePostRequest is the request body for authoring a post
type CreatePostRequest struct {
	SiteID      int64          `json:"site_id"`
	Language    string         `json:"language"`
	Title       string         `json:"title"`
	Blocks      []BlockRequest `json:"blocks"`
	ScheduledTo *time.Time     `json:"scheduled_to,omitempty"`
}

// TranslatePostRequest is the request body for adding a translation
type TranslatePostRequest struct {
	Language  string                   `json:"language"`
	Title     string                   `json:"title"`
	Blocks    map[int]BlockTranslation `json:"blocks"`
	Overwrite bool                     `json:"overwrite,omitempty"`
}

// BlockTranslation carries the translated strings for one source block
type BlockTranslation struct {
	Text string `json:"text,omitempty"`
	Alt  string `json:"alt,omitempty"`
}

// AddCommentRequest is the request body for commenting on a post
type AddCommentRequest struct {
	Body string `json:"body"`
}

// SharePostRequest is the request body for sharing a post
type SharePostRequest struct {
	Language string   `json:"language,omitempty"`
	Networks []string `json:"networks"`
}

// PostResponse is the response body for a post
type PostResponse struct {
	ID              int64     `json:"id"`
	SiteID          int64     `json:"site_id"`
	PosterID        int64     `json:"poster_id"`
	Title           string    `json:"title"`
	DefaultLanguage string    `json:"default_language"`
	Languages       []string  `json:"languages"`
	ScheduledTo     time.Time `json:"scheduled_to"`
	CreatedAt       time.Time `json:"created_at"`
}

// RenderedPostResponse is the response body for a rendered post
type RenderedPostResponse struct {
	ID       int64  `json:"id"`
	Language string `json:"language"`
	Title    string `json:"title"`
	HTML     string `json:"html"`
}

// CommentResponse is the response body for a comment
type CommentResponse struct {
	ID          int64     `json:"id"`
	PostID      int64     `json:"post_id"`
	CommenterID int64     `json:"commenter_id"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// TranslationResponse reports a stored translation
type TranslationResponse struct {
	Language string `json:"language"`
	Skipped  []int  `json:"skipped,omitempty"`
}

// ShareResponse carries the suggested or shared message
type ShareResponse struct {
	Message string `json:"message"`
}

func toPostResponse(post *prensa.Post) PostResponse {
	languages := post.Languages()
	codes := make([]string, 0, len(languages))
	for _, lang := range languages {
		codes = append(codes, lang.Code)
	}
	return PostResponse{
		ID:              post.ID,
		SiteID:          post.SiteID,
		PosterID:        post.PosterID,
		Title:           post.DefaultTitle(),
		DefaultLanguage: post.DefaultLanguage.Code,
		Languages:       codes,
		ScheduledTo:     post.ScheduledTo,
		CreatedAt:       post.CreatedAt,
	}
}

// PostHandler handles HTTP requests for posts, comments and sharing
type PostHandler struct {
	service prensa.Service
}

// NewPostHandler creates a new post handler
func NewPostHandler(service prensa.Service) *PostHandler {
	return &PostHandler{service: service}
}

// Routes returns the routes for posts
func (h *PostHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreatePost)
	r.Get("/{postID}", h.ViewPost)
	r.Get("/{postID}/render", h.RenderPost)
	r.Get("/{postID}/stats", h.GetStats)

	r.Post("/{postID}/translations", h.TranslatePost)
	r.Get("/{postID}/missing-languages", h.MissingLanguages)

	r.Post("/{postID}/comments", h.AddComment)
	r.Get("/{postID}/comments", h.ListComments)

	r.Get("/{postID}/share", h.SuggestShare)
	r.Post("/{postID}/share", h.SharePost)

	return r
}

// CreatePost authors a new post in a single language
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	blocks := make([]prensa.BlockInput, 0, len(req.Blocks))
	for _, b := range req.Blocks {
		blocks = append(blocks, prensa.BlockInput{
			Kind:    prensa.BlockKind(b.Kind),
			Text:    b.Text,
			MediaID: b.MediaID,
			Alt:     b.Alt,
		})
	}

	post, err := h.service.CreatePost(r.Context(), prensa.CreatePostRequest{
		SiteID:       req.SiteID,
		PosterID:     UserIDFrom(r.Context()),
		LanguageCode: req.Language,
		Title:        req.Title,
		Blocks:       blocks,
		ScheduledTo:  req.ScheduledTo,
	})
	if err != nil {
		slog.Error("Failed to create post", "site_id", req.SiteID, "error", err)
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toPostResponse(post))
}

// ViewPost retrieves a post, recording the view
func (h *PostHandler) ViewPost(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r, "postID")
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	post, err := h.service.ViewPost(r.Context(), UserIDFrom(r.Context()), postID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, toPostResponse(post))
}

// RenderPost returns the post's markup in the requested language.
// Language codes resolve through the directory, so aliases work the
// same way they do for sharing. Rendering is a read, not a view; no
// entry is logged.
func (h *PostHandler) RenderPost(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r, "postID")
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	content, err := h.service.PostContent(r.Context(), postID, r.URL.Query().Get("lang"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, r, RenderedPostResponse{
		ID:       postID,
		Language: content.Language.Code,
		Title:    content.Title,
		HTML:     content.Render(),
	})
}

// GetStats returns the post's analytics counters
func (h *PostHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r, "postID")
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	stats, err := h.service.PostStats(r.Context(), UserIDFrom(r.Context()), postID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

// TranslatePost stores a translation of the post's default content
func (h *PostHandler) TranslatePost(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r, "postID")
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var req TranslatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	blocks := make(map[int]prensa.BlockTranslation, len(req.Blocks))
	for order, tr := range req.Blocks {
		blocks[order] = prensa.BlockTranslation{Text: tr.Text, Alt: tr.Alt}
	}

	result, err := h.service.TranslatePost(r.Context(), prensa.TranslatePostRequest{
		PostID:      postID,
		RequesterID: UserIDFrom(r.Context()),
		TargetCode:  req.Language,
		Title:       req.Title,
		Blocks:      blocks,
		Overwrite:   req.Overwrite,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, TranslationResponse{
		Language: result.Language.Code,
		Skipped:  result.Skipped,
	})
}

// MissingLanguages lists supported languages the post lacks
func (h *PostHandler) MissingLanguages(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r, "postID")
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	languages, err := h.service.MissingLanguages(r.Context(), postID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	codes := make([]string, 0, len(languages))
	for _, lang := range languages {
		codes = append(codes, lang.Code)
	}
	render.JSON(w, r, codes)
}

// AddComment comments on a post as the caller
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r, "postID")
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := h.service.AddComment(r.Context(), prensa.AddCommentRequest{
		PostID:      postID,
		CommenterID: UserIDFrom(r.Context()),
		Body:        req.Body,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CommentResponse{
		ID:          comment.ID,
		PostID:      comment.PostID,
		CommenterID: comment.CommenterID,
		Body:        comment.Body,
		CreatedAt:   comment.CreatedAt,
	})
}

// ListComments lists a post's comments oldest first
func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r, "postID")
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	comments, err := h.service.ListPostComments(r.Context(), postID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, CommentResponse{
			ID:          c.ID,
			PostID:      c.PostID,
			CommenterID: c.CommenterID,
			Body:        c.Body,
			CreatedAt:   c.CreatedAt,
		})
	}
	render.JSON(w, r, resp)
}

// SuggestShare previews the share message without recording anything
func (h *PostHandler) SuggestShare(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r, "postID")
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	message, err := h.service.SuggestShare(r.Context(), postID, r.URL.Query().Get("lang"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, ShareResponse{Message: message})
}

// SharePost records a share to the selected networks
func (h *PostHandler) SharePost(w http.ResponseWriter, r *http.Request) {
	postID, err := urlID(r, "postID")
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var req SharePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	networks := make([]prensa.SocialNetwork, 0, len(req.Networks))
	for _, n := range req.Networks {
		networks = append(networks, prensa.SocialNetwork(n))
	}

	message, err := h.service.SharePost(r.Context(), prensa.SharePostRequest{
		PostID:       postID,
		UserID:       UserIDFrom(r.Context()),
		LanguageCode: req.Language,
		Networks:     networks,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, ShareResponse{Message: message})
}
