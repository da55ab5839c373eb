// Package aggregator собирает список секций каталога для экрана просмотра.
//
// Коллекции контента запрашиваются параллельно, и каждая ветка
// самостоятельно гасит свою ошибку, подставляя пустой результат: частичный
// отказ бэкенда сужает каталог, но никогда не роняет агрегацию целиком.
package aggregator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/moshehoffman37-prog/kids-hotline/internal/apiclient"
	"github.com/moshehoffman37-prog/kids-hotline/internal/lib/sl"
	"github.com/moshehoffman37-prog/kids-hotline/internal/models"
	"github.com/moshehoffman37-prog/kids-hotline/internal/storage"
)

// uncategorizedID — корзина по умолчанию для контента без категории.
const uncategorizedID = "uncategorized"

// documentsSectionID — идентификатор единственной секции документов.
const documentsSectionID = "documents"

// ContentAPI описывает часть клиента API, нужную агрегатору.
type ContentAPI interface {
	// VideoCategories возвращает карту имён категорий.
	VideoCategories(ctx context.Context) ([]apiclient.Category, error)
	// Videos возвращает объединённый список видео и аудио.
	Videos(ctx context.Context) ([]apiclient.ContentEntry, error)
	// Documents возвращает список документов.
	Documents(ctx context.Context) ([]apiclient.DocumentEntry, error)
	// MarkViewed сообщает серверу об открытии элемента.
	MarkViewed(ctx context.Context, id string) error
	// ResolveThumbnail выбирает адрес миниатюры элемента.
	ResolveThumbnail(entry apiclient.ContentEntry) *apiclient.Thumbnail
}

// Service реализует конвейер fetch-merge-group-sort каталога.
type Service struct {
	api   ContentAPI
	store storage.Store
	log   *slog.Logger
	now   func() time.Time
}

// New создаёт агрегатор поверх клиента API и локального хранилища.
func New(api ContentAPI, store storage.Store, log *slog.Logger) *Service {
	return &Service{api: api, store: store, log: log, now: time.Now}
}

// Sections строит список секций каталога.
//
// Порядок секций следует порядку первого появления категории в исходном
// списке, а не алфавиту. Секция "Documents" добавляется последней и только
// когда документы есть.
func (s *Service) Sections(ctx context.Context) ([]models.CategorySection, error) {
	var (
		wg         sync.WaitGroup
		categories []apiclient.Category
		entries    []apiclient.ContentEntry
		documents  []apiclient.DocumentEntry
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		res, err := s.api.VideoCategories(ctx)
		if err != nil {
			s.log.Warn("category fetch failed, falling back to formatted ids", sl.Err(err))
			return
		}
		categories = res
	}()
	go func() {
		defer wg.Done()
		res, err := s.api.Videos(ctx)
		if err != nil {
			s.log.Warn("content fetch failed, sections will be empty", sl.Err(err))
			return
		}
		entries = res
	}()
	go func() {
		defer wg.Done()
		res, err := s.api.Documents(ctx)
		if err != nil {
			s.log.Warn("document fetch failed, skipping documents section", sl.Err(err))
			return
		}
		documents = res
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	viewed := s.viewedSet(ctx)
	names := make(map[string]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}

	now := s.now()
	buckets := make(map[string][]models.ContentItem)
	var order []string

	for _, entry := range entries {
		categoryID := entry.CategoryID
		if categoryID == "" {
			categoryID = uncategorizedID
		}
		if _, seen := buckets[categoryID]; !seen {
			order = append(order, categoryID)
		}
		buckets[categoryID] = append(buckets[categoryID], s.contentItem(entry, viewed, now))
	}

	sections := make([]models.CategorySection, 0, len(order)+1)
	for _, categoryID := range order {
		name, ok := names[categoryID]
		if !ok {
			name = apiclient.FormatCategoryName(categoryID)
		}
		items := buckets[categoryID]
		sections = append(sections, models.CategorySection{
			ID:    categoryID,
			Name:  name,
			Kind:  sectionKind(items),
			Items: items,
		})
	}

	if len(documents) > 0 {
		items := make([]models.ContentItem, 0, len(documents))
		for _, doc := range documents {
			items = append(items, models.ContentItem{
				ID:          doc.ID,
				Type:        models.MediaTypeDocument,
				Title:       doc.Title,
				Description: doc.Description,
				PageCount:   doc.PageCount,
				CreatedAt:   doc.CreatedAt,
				IsNew:       apiclient.IsNew(doc.CreatedAt, doc.Viewed || viewed[doc.ID], now),
			})
		}
		sections = append(sections, models.CategorySection{
			ID:    documentsSectionID,
			Name:  "Documents",
			Kind:  models.MediaTypeDocument,
			Items: items,
		})
	}

	return sections, nil
}

// MarkOpened фиксирует открытие элемента: добавляет id в локальный набор
// просмотренного и лучшими усилиями уведомляет сервер. Ошибки обеих
// операций логируются и не возвращаются.
func (s *Service) MarkOpened(ctx context.Context, id string) {
	viewed := s.viewedSet(ctx)
	if !viewed[id] {
		ids := make([]string, 0, len(viewed)+1)
		for v := range viewed {
			ids = append(ids, v)
		}
		ids = append(ids, id)
		if err := storage.SetJSON(ctx, s.store, storage.KeyViewedIDs, ids); err != nil {
			s.log.Warn("failed to persist viewed set", sl.Err(err))
		}
	}

	if err := s.api.MarkViewed(ctx, id); err != nil {
		s.log.Warn("mark-viewed call failed", slog.String("id", id), sl.Err(err))
	}
}

func (s *Service) contentItem(entry apiclient.ContentEntry, viewed map[string]bool, now time.Time) models.ContentItem {
	mediaType := models.MediaTypeVideo
	if entry.MediaType == "audio" {
		mediaType = models.MediaTypeAudio
	}

	item := models.ContentItem{
		ID:          entry.ID,
		Type:        mediaType,
		Title:       entry.Title,
		Description: entry.Description,
		DurationSec: entry.DurationSec,
		CategoryID:  entry.CategoryID,
		CreatedAt:   entry.CreatedAt,
		IsNew:       apiclient.IsNew(entry.CreatedAt, entry.Viewed || viewed[entry.ID], now),
	}

	// У аудиозаписей миниатюры не показываются вовсе.
	if mediaType != models.MediaTypeAudio {
		if thumb := s.api.ResolveThumbnail(entry); thumb != nil {
			item.ThumbnailURL = thumb.URL
			item.ThumbnailRequiresAuth = thumb.RequiresAuth
		}
	}
	return item
}

// viewedSet читает локальный набор просмотренных id. Сбой чтения или
// повреждённое значение дают пустой набор.
func (s *Service) viewedSet(ctx context.Context) map[string]bool {
	var ids []string
	if _, err := storage.GetJSON(ctx, s.store, storage.KeyViewedIDs, &ids); err != nil {
		s.log.Warn("failed to read viewed set", sl.Err(err))
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// sectionKind выводит тип секции из её состава: достаточно одного видео,
// чтобы секция считалась видео-секцией; чисто аудиозаписные категории
// помечаются как аудио.
func sectionKind(items []models.ContentItem) models.MediaType {
	for _, item := range items {
		if item.Type == models.MediaTypeVideo {
			return models.MediaTypeVideo
		}
	}
	return models.MediaTypeAudio
}
