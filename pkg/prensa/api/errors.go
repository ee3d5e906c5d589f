package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/prensa-cms/prensa/pkg/prensa"
)

// ErrorResponse is the body for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes. Wrapped errors
// are unwrapped, so service-level PostError/SiteError map by cause.
func statusFor(err error) int {
	switch {
	case errors.Is(err, prensa.ErrUserNotFound),
		errors.Is(err, prensa.ErrSiteNotFound),
		errors.Is(err, prensa.ErrPostNotFound),
		errors.Is(err, prensa.ErrCommentNotFound),
		errors.Is(err, prensa.ErrMediaNotFound),
		errors.Is(err, prensa.ErrLanguageNotFound):
		return http.StatusNotFound
	case errors.Is(err, prensa.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, prensa.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, prensa.ErrTranslationExists):
		return http.StatusConflict
	case errors.Is(err, prensa.ErrInvalidInput),
		errors.Is(err, prensa.ErrNoLanguage),
		errors.Is(err, prensa.ErrUnsupportedMediaType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := ErrorResponse{Error: err.Error()}
	if status == http.StatusInternalServerError {
		body.Error = "internal error"
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}
