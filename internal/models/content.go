// Package models содержит доменные структуры клиента: пользователь, сессия,
// элементы контента и производные секции каталога. Структуры используются
// в бизнес-логике, агрегации и при работе с локальным хранилищем.
package models

import "time"

// MediaType — явный тег варианта элемента контента.
type MediaType string

const (
	// MediaTypeVideo — видеоролик.
	MediaTypeVideo MediaType = "video"
	// MediaTypeAudio — аудиозапись.
	MediaTypeAudio MediaType = "audio"
	// MediaTypeDocument — документ с постраничными изображениями.
	MediaTypeDocument MediaType = "document"
)

// ContentItem представляет единицу контента каталога.
// Поле Type — обязательный тег варианта; DurationSec имеет смысл только
// для видео и аудио, PageCount — только для документов.
// Идентификатор уникален в пределах своей исходной коллекции:
// пространства id видео и документов независимы.
type ContentItem struct {
	ID                    string     `json:"id"`
	Type                  MediaType  `json:"type"`
	Title                 string     `json:"title"`
	Description           string     `json:"description,omitempty"`
	ThumbnailURL          string     `json:"thumbnailUrl,omitempty"`
	ThumbnailRequiresAuth bool       `json:"thumbnailRequiresAuth,omitempty"`
	DurationSec           int        `json:"duration,omitempty"`
	PageCount             int        `json:"pageCount,omitempty"`
	CategoryID            string     `json:"categoryId,omitempty"`
	CreatedAt             *time.Time `json:"createdAt,omitempty"`
	IsNew                 bool       `json:"isNew,omitempty"`
}

// CategorySection — именованная группа элементов для отображения.
// Секции не хранятся: они пересчитываются при каждой агрегации.
// Kind выводится из состава секции, а не назначается жёстко,
// поэтому плеер всегда смотрит на тип элемента, а не секции.
type CategorySection struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Kind  MediaType     `json:"kind"`
	Items []ContentItem `json:"items"`
}

// StreamDescriptor — ответ бэкенда о способе воспроизведения видео.
type StreamDescriptor struct {
	EmbedURL     string `json:"embedUrl,omitempty"`
	CDNURL       string `json:"cdnUrl,omitempty"`
	VimeoVideoID string `json:"vimeoVideoId,omitempty"`
	MediaType    string `json:"mediaType,omitempty"`
}

// Entitlement — статус подписки пользователя.
// Кэшируется локально и используется как запасной вариант,
// когда удалённая проверка недоступна.
type Entitlement struct {
	SubscriptionStatus string `json:"subscriptionStatus"`
	Active             bool   `json:"active"`
	IsWhitelisted      bool   `json:"isWhitelisted,omitempty"`
	TrialDaysRemaining *int   `json:"trialDaysRemaining,omitempty"`
}
