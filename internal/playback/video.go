package playback

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/moshehoffman37-prog/kids-hotline/internal/models"
)

// VideoState — состояние видеоконтроллера.
type VideoState string

const (
	// VideoLoading — дескриптор потока ещё запрашивается.
	VideoLoading VideoState = "loading"
	// VideoPlaying — источник разрешён, терминальное состояние.
	VideoPlaying VideoState = "playing"
	// VideoError — пригодного источника нет, терминальное состояние.
	VideoError VideoState = "error"
)

// SourceKind — способ воспроизведения видео.
type SourceKind string

const (
	// SourceHLS — нативное воспроизведение HLS-потока.
	SourceHLS SourceKind = "hls"
	// SourceEmbed — сторонний embed-плеер в изолированном web view.
	SourceEmbed SourceKind = "embed"
)

// Source — разрешённый источник воспроизведения.
type Source struct {
	Kind SourceKind
	URL  string
}

// VideoAPI описывает часть клиента API, нужную видеоконтроллеру.
type VideoAPI interface {
	Stream(ctx context.Context, id string) (*models.StreamDescriptor, error)
}

// ViewMarker фиксирует факт открытия элемента (лучшими усилиями).
type ViewMarker interface {
	MarkOpened(ctx context.Context, id string)
}

// VideoController разрешает источник потока для одного видео.
// Приоритет: нативный HLS из дескриптора, затем embed-плеер,
// иначе — ошибка без повторов.
type VideoController struct {
	mu     sync.Mutex
	api    VideoAPI
	marker ViewMarker
	log    *slog.Logger

	id        string
	state     VideoState
	source    *Source
	marked    bool
	loadError error
}

// NewVideoController создаёт контроллер для видео с указанным id.
func NewVideoController(id string, api VideoAPI, marker ViewMarker, log *slog.Logger) *VideoController {
	return &VideoController{
		id:     id,
		api:    api,
		marker: marker,
		log:    log,
		state:  VideoLoading,
	}
}

// Load запрашивает дескриптор потока и разрешает источник.
// Отметка о просмотре ставится один раз за вход на экран независимо
// от исхода разрешения.
func (c *VideoController) Load(ctx context.Context) error {
	c.mu.Lock()
	if !c.marked {
		c.marked = true
		c.mu.Unlock()
		c.marker.MarkOpened(ctx, c.id)
		c.mu.Lock()
	}
	c.state = VideoLoading
	c.mu.Unlock()

	d, err := c.api.Stream(ctx, c.id)
	if err != nil {
		c.fail(err)
		return err
	}

	source := resolveSource(d)
	if source == nil {
		c.fail(ErrMediaUnavailable)
		return ErrMediaUnavailable
	}

	c.mu.Lock()
	c.source = source
	c.state = VideoPlaying
	c.mu.Unlock()
	return nil
}

func (c *VideoController) fail(err error) {
	c.mu.Lock()
	c.state = VideoError
	c.loadError = err
	c.mu.Unlock()
}

// resolveSource выбирает источник из дескриптора по приоритету.
func resolveSource(d *models.StreamDescriptor) *Source {
	if url := hlsURL(d); url != "" {
		return &Source{Kind: SourceHLS, URL: url}
	}
	if d.EmbedURL != "" {
		return &Source{Kind: SourceEmbed, URL: d.EmbedURL}
	}
	return nil
}

// hlsURL извлекает нативный HLS-адрес из дескриптора, когда он выводим.
func hlsURL(d *models.StreamDescriptor) string {
	if d.CDNURL == "" {
		return ""
	}
	if d.MediaType == "hls" || strings.Contains(d.CDNURL, ".m3u8") {
		return d.CDNURL
	}
	return ""
}

// State возвращает текущее состояние контроллера.
func (c *VideoController) State() VideoState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Source возвращает разрешённый источник или nil.
func (c *VideoController) Source() *Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// Err возвращает ошибку разрешения источника, если контроллер в VideoError.
func (c *VideoController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadError
}
