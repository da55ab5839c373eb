package devserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moshehoffman37-prog/kids-hotline/internal/lib/jwt"
)

func newTestRouter(t *testing.T) (chi.Router, jwt.Maker) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	catalog, err := NewCatalog()
	require.NoError(t, err)

	jwtMaker := jwt.NewJWTMaker("test-secret", time.Hour)
	api := NewAPI(logger, catalog, jwtMaker)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, api, jwtMaker)
	return router, jwtMaker
}

func login(t *testing.T, router chi.Router) string {
	t.Helper()
	body := `{"email":"demo@kids-hotline.app","password":"hotline123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/mobile/login", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestLoginHandler(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "успешный вход",
			body:           `{"email":"demo@kids-hotline.app","password":"hotline123"}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `"token"`,
		},
		{
			name:           "неверный пароль",
			body:           `{"email":"demo@kids-hotline.app","password":"wrongpass"}`,
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"message":"invalid email or password"}`,
		},
		{
			name:           "некорректный JSON",
			body:           `{not json`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"message":"invalid request body"}`,
		},
		{
			name:           "ошибка валидации",
			body:           `{"email":"not-an-email","password":"hotline123"}`,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Email must be a valid email`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/mobile/login", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/api/mobile/me", "/api/videos", "/api/documents", "/api/video-categories"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "path %s", path)
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVideosListing(t *testing.T) {
	router, _ := newTestRouter(t)
	token := login(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []ContentEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.NotEmpty(t, entries)

	hasAudio, hasVideo := false, false
	for _, entry := range entries {
		switch entry.MediaType {
		case "audio":
			hasAudio = true
		case "video":
			hasVideo = true
		}
	}
	assert.True(t, hasAudio, "seed should contain audio entries")
	assert.True(t, hasVideo, "seed should contain video entries")
}

func TestMarkViewedReflectedInListing(t *testing.T) {
	router, _ := newTestRouter(t)
	token := login(t, router)

	listReq := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	listReq.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, listReq)

	var entries []ContentEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.NotEmpty(t, entries)
	target := entries[0]
	require.False(t, target.Viewed)

	markReq := httptest.NewRequest(http.MethodPost, "/api/videos/"+target.ID+"/mark-viewed", nil)
	markReq.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, markReq)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	listReq2 := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	listReq2.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, listReq2)

	var after []ContentEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &after))
	for _, entry := range after {
		if entry.ID == target.ID {
			assert.True(t, entry.Viewed)
		}
	}
}

func TestDocumentPageBounds(t *testing.T) {
	router, _ := newTestRouter(t)
	token := login(t, router)

	docsReq := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	docsReq.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, docsReq)

	var docs []DocumentEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	require.NotEmpty(t, docs)
	doc := docs[0]

	okReq := httptest.NewRequest(http.MethodGet, "/api/documents/"+doc.ID+"/page/1", nil)
	okReq.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, okReq)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	badReq := httptest.NewRequest(http.MethodGet, "/api/documents/"+doc.ID+"/page/99", nil)
	badReq.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, badReq)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRefreshTokenReissues(t *testing.T) {
	router, jwtMaker := newTestRouter(t)
	token := login(t, router)

	req := httptest.NewRequest(http.MethodPost, "/api/mobile/refresh-token", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	claims, err := jwtMaker.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "demo@kids-hotline.app", claims.Email)
}
