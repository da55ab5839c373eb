package apiclient

import (
	"strings"
	"time"
	"unicode"
)

// NewWindow — окно, в течение которого элемент считается новым.
const NewWindow = 24 * time.Hour

// IsNew сообщает, показывать ли на элементе значок "новое".
// Элемент нов, если известна дата создания, он ещё не просмотрен
// (ни по флагу сервера, ни по локальному набору) и создан менее суток назад.
func IsNew(createdAt *time.Time, viewed bool, now time.Time) bool {
	if createdAt == nil || viewed {
		return false
	}
	return now.Sub(*createdAt) < NewWindow
}

// Thumbnail — результат разрешения миниатюры.
type Thumbnail struct {
	URL          string
	RequiresAuth bool
}

// ResolveThumbnail выбирает адрес миниатюры для элемента контента.
// Приоритет: авторизованная конечная точка при наличии сохранённого пути,
// затем готовый CDN-адрес, затем адрес, построенный из ключа хранилища.
// Возвращает nil, когда миниатюры нет.
func (c *Client) ResolveThumbnail(entry ContentEntry) *Thumbnail {
	switch {
	case entry.ThumbnailPath != "":
		return &Thumbnail{
			URL:          c.baseURL + "/api/videos/" + entry.ID + "/thumbnail",
			RequiresAuth: true,
		}
	case entry.ThumbnailURL != "":
		return &Thumbnail{URL: entry.ThumbnailURL}
	case entry.StorageKey != "" && c.cdnBaseURL != "":
		return &Thumbnail{URL: c.cdnBaseURL + "/" + entry.StorageKey + ".jpg"}
	default:
		return nil
	}
}

// FormatCategoryName превращает идентификатор категории в отображаемое имя:
// "one-daf-one-daf" -> "One Daf One Daf". На строках без разделителей
// с заглавной буквы функция идемпотентна.
func FormatCategoryName(id string) string {
	segments := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, seg := range segments {
		runes := []rune(seg)
		runes[0] = unicode.ToUpper(runes[0])
		segments[i] = string(runes)
	}
	return strings.Join(segments, " ")
}
