package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prensa-cms/prensa/pkg/prensa"
	"github.com/prensa-cms/prensa/pkg/prensa/api"
	"github.com/prensa-cms/prensa/pkg/prensa/repo/memory"
)

const testSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, prensa.Service) {
	t.Helper()

	svc, err := prensa.New(
		prensa.WithRepository(memory.New()),
		prensa.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)

	server := api.NewServer(svc, []byte(testSecret), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(server.Routes())
	t.Cleanup(ts.Close)

	return ts, svc
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func registerAndLogin(t *testing.T, ts *httptest.Server, username string) (api.UserResponse, string) {
	t.Helper()

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/register", "", api.RegisterRequest{
		FirstName: "Test",
		LastName:  username,
		Username:  username,
		Password:  username + "-pass",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decode[api.UserResponse](t, resp)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/login", "", api.LoginRequest{
		Username: username,
		Password: username + "-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[api.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)

	return user, login.Token
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthFlow(t *testing.T) {
	ts, _ := setupTestServer(t)

	user, token := registerAndLogin(t, ts, "joana")
	assert.Equal(t, "joana", user.Username)
	assert.Equal(t, "user", user.Role)

	t.Run("wrong password", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/login", "", api.LoginRequest{
			Username: "joana",
			Password: "wrong",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("protected route rejects missing token", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/sites", "", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("protected route rejects garbage token", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/sites", "not-a-token", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("protected route accepts valid token", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/sites", token, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestSiteLifecycle(t *testing.T) {
	ts, _ := setupTestServer(t)
	_, token := registerAndLogin(t, ts, "owner")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/sites", token, api.CreateSiteRequest{
		Name:        "Meu blog",
		Description: "notes",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	site := decode[api.SiteResponse](t, resp)
	assert.Equal(t, "latest_posts", site.Template)
	assert.Equal(t, "www.prensa.meu-blog.com.br", site.URL)

	t.Run("get logs an access", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/sites/%d", ts.URL, site.ID), token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/sites/%d/stats", ts.URL, site.ID), token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		stats := decode[prensa.SiteStats](t, resp)
		assert.Equal(t, 1, stats.Accesses)
	})

	t.Run("unknown site is 404", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/sites/999", token, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid template is 400", func(t *testing.T) {
		resp := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/v1/sites/%d/template", ts.URL, site.ID), token,
			api.UpdateTemplateRequest{Template: "mosaic"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("template update", func(t *testing.T) {
		resp := doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/v1/sites/%d/template", ts.URL, site.ID), token,
			api.UpdateTemplateRequest{Template: "top_viewed"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestPostLifecycle(t *testing.T) {
	ts, _ := setupTestServer(t)
	_, ownerToken := registerAndLogin(t, ts, "owner")
	_, readerToken := registerAndLogin(t, ts, "reader")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/sites", ownerToken, api.CreateSiteRequest{Name: "Meu blog"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	site := decode[api.SiteResponse](t, resp)

	t.Run("non-manager cannot post", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/posts", readerToken, api.CreatePostRequest{
			SiteID:   site.ID,
			Language: "pt-br",
			Title:    "x",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/posts", ownerToken, api.CreatePostRequest{
		SiteID:   site.ID,
		Language: "pt-br",
		Title:    "Olá",
		Blocks: []api.BlockRequest{
			{Kind: "text", Text: "primeiro parágrafo"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	post := decode[api.PostResponse](t, resp)
	assert.Equal(t, "pt-br", post.DefaultLanguage)
	assert.Equal(t, []string{"pt-br"}, post.Languages)

	t.Run("render", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/posts/%d/render", ts.URL, post.ID), readerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		rendered := decode[api.RenderedPostResponse](t, resp)
		assert.Equal(t, "<p>primeiro parágrafo</p>", rendered.HTML)
	})

	t.Run("translate then render in the new language", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/posts/%d/translations", ts.URL, post.ID), ownerToken,
			api.TranslatePostRequest{
				Language: "en",
				Title:    "Hello",
				Blocks:   map[int]api.BlockTranslation{1: {Text: "first paragraph"}},
			})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		translation := decode[api.TranslationResponse](t, resp)
		assert.Equal(t, "en-us", translation.Language)

		resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/posts/%d/render?lang=en-us", ts.URL, post.ID), readerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		rendered := decode[api.RenderedPostResponse](t, resp)
		assert.Equal(t, "Hello", rendered.Title)
		assert.Equal(t, "<p>first paragraph</p>", rendered.HTML)
	})

	t.Run("render resolves language aliases", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/posts/%d/render?lang=en", ts.URL, post.ID), readerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		rendered := decode[api.RenderedPostResponse](t, resp)
		assert.Equal(t, "en-us", rendered.Language)
		assert.Equal(t, "Hello", rendered.Title)
	})

	t.Run("duplicate translation is 409", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/posts/%d/translations", ts.URL, post.ID), ownerToken,
			api.TranslatePostRequest{Language: "en-us", Title: "Hello"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("comments", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/posts/%d/comments", ts.URL, post.ID), readerToken,
			api.AddCommentRequest{Body: "Parabéns!"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()

		resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/posts/%d/comments", ts.URL, post.ID), readerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		comments := decode[[]api.CommentResponse](t, resp)
		require.Len(t, comments, 1)
		assert.Equal(t, "Parabéns!", comments[0].Body)
	})

	t.Run("share", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/posts/%d/share", ts.URL, post.ID), readerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		suggestion := decode[api.ShareResponse](t, resp)
		assert.Contains(t, suggestion.Message, "[pt-br] Olá")

		resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/posts/%d/share", ts.URL, post.ID), readerToken,
			api.SharePostRequest{Networks: []string{"Twitter"}})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/posts/%d/stats", ts.URL, post.ID), ownerToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		stats := decode[prensa.PostStats](t, resp)
		assert.Equal(t, 1, stats.Shares)
	})

	t.Run("stats are manager-only", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/v1/posts/%d/stats", ts.URL, post.ID), readerToken, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestMediaEndpoints(t *testing.T) {
	ts, _ := setupTestServer(t)
	_, token := registerAndLogin(t, ts, "owner")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/sites", token, api.CreateSiteRequest{Name: "Meu blog"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	site := decode[api.SiteResponse](t, resp)

	path := filepath.Join(t.TempDir(), "sunset.jpg")
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0o644))

	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/v1/sites/%d/media", ts.URL, site.ID), token,
		api.ImportMediaRequest{Path: path})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	media := decode[api.MediaResponse](t, resp)
	assert.Equal(t, "image", media.Kind)
	assert.Equal(t, "sunset.jpg", media.Filename)

	t.Run("delete twice succeeds", func(t *testing.T) {
		url := fmt.Sprintf("%s/api/v1/media/%d", ts.URL, media.ID)
		resp := doJSON(t, http.MethodDelete, url, token, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doJSON(t, http.MethodDelete, url, token, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestAdminEndpoints(t *testing.T) {
	ts, svc := setupTestServer(t)
	_, userToken := registerAndLogin(t, ts, "joana")

	// Admin accounts are provisioned outside the public API.
	_, err := svc.RegisterUser(context.Background(), prensa.RegisterUserRequest{
		Username: "root",
		Password: "root-pass",
		Role:     prensa.RoleAdmin,
	})
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/auth/login", "", api.LoginRequest{
		Username: "root",
		Password: "root-pass",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	adminToken := decode[api.LoginResponse](t, resp).Token

	t.Run("logs forbidden for plain users", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/admin/logs", userToken, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("logs allowed for admins", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/admin/logs", adminToken, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("user listing", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/admin/users", adminToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		users := decode[[]api.UserResponse](t, resp)
		assert.Len(t, users, 2)
	})
}

func TestLanguagesEndpoint(t *testing.T) {
	ts, _ := setupTestServer(t)
	_, token := registerAndLogin(t, ts, "joana")

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/languages", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	languages := decode[[]api.LanguageResponse](t, resp)
	require.Len(t, languages, 5)
	assert.Equal(t, "pt-br", languages[0].Code)
	assert.Contains(t, languages[0].Aliases, "br")
}
