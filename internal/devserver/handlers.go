// Package devserver реализует минимальный бэкенд-заглушку для разработки
// мобильного клиента: полная REST-поверхность контентного API поверх
// каталога в памяти, с настоящей JWT-аутентификацией.
package devserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/moshehoffman37-prog/kids-hotline/internal/devserver/response"
	"github.com/moshehoffman37-prog/kids-hotline/internal/lib/jwt"
	"github.com/moshehoffman37-prog/kids-hotline/internal/lib/sl"
)

// placeholderPNG — однопиксельный PNG, отдаваемый вместо настоящих
// миниатюр и страниц документов.
var placeholderPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

// API — обработчики REST-поверхности dev-сервера.
type API struct {
	log      *slog.Logger
	catalog  *Catalog
	jwtMaker jwt.Maker
	validate *validator.Validate
}

// NewAPI создаёт набор обработчиков поверх каталога и JWT.
func NewAPI(log *slog.Logger, catalog *Catalog, jwtMaker jwt.Maker) *API {
	return &API{
		log:      log,
		catalog:  catalog,
		jwtMaker: jwtMaker,
		validate: validator.New(),
	}
}

// LoginRequest — структура входных данных для входа.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Login обрабатывает POST /api/mobile/login.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	const op = "devserver.Login"

	log := a.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := a.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := a.catalog.Authenticate(req.Email, req.Password)
	if err != nil {
		log.Error("authentication failed", sl.Err(err))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("invalid email or password"))
		return
	}

	token, err := a.jwtMaker.GenerateToken(user.ID, user.Email)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("user logged in", slog.String("user_id", user.ID))
	render.JSON(w, r, map[string]any{
		"token": token,
		"user":  user,
	})
}

// Me обрабатывает GET /api/mobile/me.
func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(UserID).(string)
	user, ok := a.catalog.UserByID(userID)
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}
	render.JSON(w, r, user)
}

// RefreshToken обрабатывает POST /api/mobile/refresh-token.
func (a *API) RefreshToken(w http.ResponseWriter, r *http.Request) {
	const op = "devserver.RefreshToken"

	userID, _ := r.Context().Value(UserID).(string)
	email, _ := r.Context().Value(Email).(string)

	token, err := a.jwtMaker.GenerateToken(userID, email)
	if err != nil {
		a.log.Error("failed to reissue token", slog.String("op", op), sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	render.JSON(w, r, map[string]string{"token": token})
}

// Subscription обрабатывает GET /api/mobile/subscription.
func (a *API) Subscription(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(UserID).(string)
	render.JSON(w, r, a.catalog.Entitlement(userID))
}

// Categories обрабатывает GET /api/video-categories.
func (a *API) Categories(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, a.catalog.Categories())
}

// Videos обрабатывает GET /api/videos.
func (a *API) Videos(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(UserID).(string)
	render.JSON(w, r, a.catalog.Entries(userID))
}

// Documents обрабатывает GET /api/documents.
func (a *API) Documents(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(UserID).(string)
	render.JSON(w, r, a.catalog.Documents(userID))
}

// Stream обрабатывает GET /api/videos/{id}/stream.
func (a *API) Stream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, ok := a.catalog.Stream(id)
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("stream not found"))
		return
	}
	render.JSON(w, r, d)
}

// LegacyAudioStream обрабатывает GET /api/audio-files/{id}/stream.
func (a *API) LegacyAudioStream(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	url, ok := a.catalog.LegacyAudioURL(id)
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("audio file not found"))
		return
	}
	render.JSON(w, r, map[string]string{"url": url})
}

// MarkViewed обрабатывает POST /api/videos/{id}/mark-viewed.
func (a *API) MarkViewed(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(UserID).(string)
	a.catalog.MarkViewed(userID, chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// Thumbnail обрабатывает GET /api/videos/{id}/thumbnail.
func (a *API) Thumbnail(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(placeholderPNG)
}

// DocumentPage обрабатывает GET /api/documents/{id}/page/{n}.
func (a *API) DocumentPage(w http.ResponseWriter, r *http.Request) {
	doc, ok := a.catalog.DocumentByID(chi.URLParam(r, "id"))
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("document not found"))
		return
	}
	page, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || page < 1 || page > doc.PageCount {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("page out of range"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(placeholderPNG)
}
