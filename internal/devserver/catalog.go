package devserver

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moshehoffman37-prog/kids-hotline/internal/lib/password"
	"github.com/moshehoffman37-prog/kids-hotline/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Category — категория контента в ответе сервера.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ContentEntry — элемент объединённого списка видео и аудио.
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

type seedUser struct {
	user         models.User
	passwordHash string
}

// Catalog — каталог контента dev-сервера в памяти. Зерно фиксированное,
// чтобы клиент разрабатывался без настоящего бэкенда; флаги просмотра
// живут до перезапуска процесса.
type Catalog struct {
	mu         sync.RWMutex
	users      map[string]seedUser // по email
	categories []Category
	entries    []ContentEntry
	documents  []DocumentEntry
	streams    map[string]models.StreamDescriptor
	viewed     map[string]map[string]bool // userID -> contentID
}

// NewCatalog создаёт каталог с фиксированным демонстрационным наполнением.
func NewCatalog() (*Catalog, error) {
	const op = "devserver.NewCatalog"

	hash, err := password.GetHash("hotline123")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	demo := models.User{
		ID:    uuid.NewString(),
		Email: "demo@kids-hotline.app",
		Name:  "Demo User",
	}

	now := time.Now()
	fresh := now.Add(-2 * time.Hour)
	stale := now.Add(-72 * time.Hour)

	videoDaf := uuid.NewString()
	videoParsha := uuid.NewString()
	videoBroken := uuid.NewString()
	audioDaf := uuid.NewString()
	audioStory := uuid.NewString()

	c := &Catalog{
		users: map[string]seedUser{
			demo.Email: {user: demo, passwordHash: hash},
		},
		categories: []Category{
			{ID: "one-daf-one-daf", Name: "One Daf One Daf"},
			{ID: "parsha", Name: "Parsha"},
			// У категории stories имени нет: клиент обязан уметь
			// форматировать идентификатор сам.
		},
		entries: []ContentEntry{
			{
				ID: videoDaf, Title: "Berachos Daf 2", MediaType: "video",
				DurationSec: 1800, CategoryID: "one-daf-one-daf", CreatedAt: &fresh,
				ThumbnailPath: "thumbs/berachos-2.jpg",
			},
			{
				ID: audioDaf, Title: "Berachos Daf 2 (audio)", MediaType: "audio",
				DurationSec: 1750, CategoryID: "one-daf-one-daf", CreatedAt: &fresh,
			},
			{
				ID: videoParsha, Title: "Parshas Noach", MediaType: "video",
				DurationSec: 1200, CategoryID: "parsha", CreatedAt: &stale,
				ThumbnailURL: "https://cdn.example.com/thumbs/noach.jpg",
			},
			{
				ID: audioStory, Title: "A Story Before Bed", MediaType: "audio",
				DurationSec: 600, CategoryID: "stories", CreatedAt: &stale,
			},
			{
				ID: videoBroken, Title: "Uncategorized Clip", MediaType: "video",
				DurationSec: 300, CreatedAt: &stale,
				StorageKey: "clips/uncategorized",
			},
		},
		documents: []DocumentEntry{
			{ID: uuid.NewString(), Title: "Weekly Coloring Pages", PageCount: 6, CreatedAt: &fresh},
			{ID: uuid.NewString(), Title: "Alef Beis Workbook", PageCount: 12, CreatedAt: &stale},
		},
		streams: map[string]models.StreamDescriptor{
			videoDaf:    {CDNURL: "https://cdn.example.com/hls/berachos-2/master.m3u8", MediaType: "hls"},
			videoParsha: {EmbedURL: "https://player.vimeo.com/video/90210", VimeoVideoID: "90210"},
			audioDaf:    {CDNURL: "https://cdn.example.com/audio/berachos-2.mp3", MediaType: "audio"},
			// audioStory отдаётся только устаревшей аудио-формой,
			// videoBroken не отдаётся вовсе: пригодного источника нет.
			audioStory: {},
		},
		viewed: make(map[string]map[string]bool),
	}
	return c, nil
}

// Authenticate проверяет пару email/пароль и возвращает пользователя.
func (c *Catalog) Authenticate(email, pass string) (*models.User, error) {
	c.mu.RLock()
	seed, ok := c.users[email]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(seed.passwordHash, pass); err != nil {
		return nil, ErrInvalidCredentials
	}
	user := seed.user
	return &user, nil
}

// UserByID возвращает пользователя по идентификатору.
func (c *Catalog) UserByID(id string) (*models.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, seed := range c.users {
		if seed.user.ID == id {
			user := seed.user
			return &user, true
		}
	}
	return nil, false
}

// Categories возвращает список категорий.
func (c *Catalog) Categories() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Category(nil), c.categories...)
}

// Entries возвращает объединённый список контента с флагами просмотра
// для указанного пользователя.
func (c *Catalog) Entries(userID string) []ContentEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := c.viewed[userID]
	out := make([]ContentEntry, len(c.entries))
	for i, entry := range c.entries {
		entry.Viewed = seen[entry.ID]
		out[i] = entry
	}
	return out
}

// Documents возвращает список документов с флагами просмотра.
func (c *Catalog) Documents(userID string) []DocumentEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := c.viewed[userID]
	out := make([]DocumentEntry, len(c.documents))
	for i, doc := range c.documents {
		doc.Viewed = seen[doc.ID]
		out[i] = doc
	}
	return out
}

// DocumentByID возвращает документ по идентификатору.
func (c *Catalog) DocumentByID(id string) (*DocumentEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, doc := range c.documents {
		if doc.ID == id {
			d := doc
			return &d, true
		}
	}
	return nil, false
}

// Stream возвращает дескриптор потока по id контента.
func (c *Catalog) Stream(id string) (models.StreamDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.streams[id]
	return d, ok
}

// LegacyAudioURL возвращает адрес потока для устаревшей аудио-формы.
func (c *Catalog) LegacyAudioURL(id string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, entry := range c.entries {
		if entry.ID == id && entry.MediaType == "audio" {
			return "https://cdn.example.com/audio/legacy/" + id + ".mp3", true
		}
	}
	return "", false
}

// MarkViewed помечает элемент просмотренным для пользователя.
func (c *Catalog) MarkViewed(userID, contentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.viewed[userID] == nil {
		c.viewed[userID] = make(map[string]bool)
	}
	c.viewed[userID][contentID] = true
}

// Entitlement возвращает статус подписки пользователя dev-сервера.
// В зерне все пользователи активны и внесены в белый список.
func (c *Catalog) Entitlement(_ string) models.Entitlement {
	trial := 14
	return models.Entitlement{
		SubscriptionStatus: "trial",
		Active:             true,
		IsWhitelisted:      true,
		TrialDaysRemaining: &trial,
	}
}
