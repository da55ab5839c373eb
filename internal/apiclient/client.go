// Package apiclient реализует HTTP-клиент к контентному бэкенду:
// по одной функции на конечную точку REST-интерфейса плюс чистые
// вспомогательные функции (разрешение миниатюр, признак новизны,
// форматирование имён категорий).
//
// Все вызовы читают токен из локального хранилища и подставляют заголовок
// Authorization. Ответ 401 очищает сохранённую сессию и возвращает
// *AuthExpiredError; остальные не-2xx ответы — *RequestError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/moshehoffman37-prog/kids-hotline/internal/lib/sl"
	"github.com/moshehoffman37-prog/kids-hotline/internal/storage"
)

// Client — клиент контентного бэкенда.
type Client struct {
	baseURL    string
	cdnBaseURL string
	store      storage.Store
	httpClient *http.Client
	log        *slog.Logger
}

// New создаёт новый клиент бэкенда.
func New(baseURL, cdnBaseURL string, timeout time.Duration, store storage.Store, log *slog.Logger) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		cdnBaseURL: cdnBaseURL,
		store:      store,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.baseURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	if token, ok, err := c.store.Get(ctx, storage.KeyAuthToken); err == nil && ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do выполняет запрос и декодирует успешный JSON-ответ в out (если out != nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	const op = "apiclient.do"
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(ctx, resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// doBytes выполняет запрос и возвращает тело ответа как есть (изображения).
func (c *Client) doBytes(ctx context.Context, path string) ([]byte, error) {
	const op = "apiclient.doBytes"
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(ctx, resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

func (c *Client) checkStatus(ctx context.Context, resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		c.purgeCredentials(ctx)
		return &AuthExpiredError{}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &RequestError{StatusCode: resp.StatusCode, Message: errBody.Message}
	}
	return nil
}

// purgeCredentials удаляет сохранённые токен, пользователя и кэш подписки.
// Клиент не владеет состоянием сессии: только побочными эффектами хранилища.
func (c *Client) purgeCredentials(ctx context.Context) {
	for _, key := range []string{storage.KeyAuthToken, storage.KeyAuthUser, storage.KeyEntitlement} {
		if err := c.store.Remove(ctx, key); err != nil {
			c.log.Warn("failed to purge credential", slog.String("key", key), sl.Err(err))
		}
	}
}
