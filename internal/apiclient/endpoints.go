package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/moshehoffman37-prog/kids-hotline/internal/models"
)

// Category — элемент списка категорий, как его отдаёт сервер.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ContentEntry — элемент объединённого списка контента. Видео и аудио
// приходят одним списком и различаются полем mediaType.
type ContentEntry struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	MediaType     string     `json:"mediaType,omitempty"`
	DurationSec   int        `json:"durationSeconds,omitempty"`
	CategoryID    string     `json:"categoryId,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	Viewed        bool       `json:"viewed,omitempty"`
	ThumbnailPath string     `json:"thumbnailPath,omitempty"`
	ThumbnailURL  string     `json:"thumbnailUrl,omitempty"`
	StorageKey    string     `json:"storageKey,omitempty"`
}

// DocumentEntry — элемент списка документов.
type DocumentEntry struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	PageCount   int        `json:"pageCount"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	Viewed      bool       `json:"viewed,omitempty"`
}

// LoginResult — ответ сервера на успешный вход.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login выполняет вход по email и паролю. Вызов не требует токена.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/mobile/login", loginRequest{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Me возвращает профиль текущего пользователя.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/mobile/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RefreshToken запрашивает новый токен взамен текущего.
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	var res struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/mobile/refresh-token", nil, &res); err != nil {
		return "", err
	}
	return res.Token, nil
}

// Subscription возвращает статус подписки текущего пользователя.
func (c *Client) Subscription(ctx context.Context) (*models.Entitlement, error) {
	var ent models.Entitlement
	if err := c.do(ctx, http.MethodGet, "/api/mobile/subscription", nil, &ent); err != nil {
		return nil, err
	}
	return &ent, nil
}

// VideoCategories возвращает список категорий контента.
func (c *Client) VideoCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/api/video-categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Videos возвращает объединённый список видео и аудио.
func (c *Client) Videos(ctx context.Context) ([]ContentEntry, error) {
	var entries []ContentEntry
	if err := c.do(ctx, http.MethodGet, "/api/videos", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Documents возвращает список документов.
func (c *Client) Documents(ctx context.Context) ([]DocumentEntry, error) {
	var entries []DocumentEntry
	if err := c.do(ctx, http.MethodGet, "/api/documents", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Stream возвращает дескриптор потока для видео или аудио по id.
func (c *Client) Stream(ctx context.Context, id string) (*models.StreamDescriptor, error) {
	var d models.StreamDescriptor
	if err := c.do(ctx, http.MethodGet, "/api/videos/"+id+"/stream", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// AudioStreamLegacy запрашивает поток по устаревшей аудио-форме ответа.
// Оставлено для совместимости со старыми записями, у которых нет
// дескриптора в объединённой форме.
func (c *Client) AudioStreamLegacy(ctx context.Context, id string) (string, error) {
	var res struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/audio-files/"+id+"/stream", nil, &res); err != nil {
		return "", err
	}
	return res.URL, nil
}

// MarkViewed сообщает серверу об открытии элемента контента.
func (c *Client) MarkViewed(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/videos/"+id+"/mark-viewed", nil, nil)
}

// Thumbnail скачивает миниатюру видео; требует действующий токен.
func (c *Client) Thumbnail(ctx context.Context, id string) ([]byte, error) {
	return c.doBytes(ctx, "/api/videos/"+id+"/thumbnail")
}

// DocumentPage скачивает изображение страницы документа.
func (c *Client) DocumentPage(ctx context.Context, id string, page int) ([]byte, error) {
	return c.doBytes(ctx, fmt.Sprintf("/api/documents/%s/page/%d", id, page))
}

// DocumentPageURL строит абсолютный адрес страницы документа.
// Загрузка по этому адресу требует заголовок Authorization.
func (c *Client) DocumentPageURL(id string, page int) string {
	return c.baseURL + fmt.Sprintf("/api/documents/%s/page/%d", id, page)
}
