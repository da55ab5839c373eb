package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/moshehoffman37-prog/kids-hotline/internal/lib/sl"
	"github.com/moshehoffman37-prog/kids-hotline/internal/models"
	"github.com/moshehoffman37-prog/kids-hotline/internal/storage"
)

// Rates — фиксированный набор скоростей воспроизведения аудио.
var Rates = []float64{0.5, 0.75, 1.0, 1.25, 1.5, 2.0}

// AudioAPI описывает часть клиента API, нужную аудиоконтроллеру.
type AudioAPI interface {
	// Stream возвращает дескриптор потока в объединённой форме.
	Stream(ctx context.Context, id string) (*models.StreamDescriptor, error)
	// AudioStreamLegacy возвращает адрес потока в устаревшей форме.
	AudioStreamLegacy(ctx context.Context, id string) (string, error)
}

// AudioController управляет сессией воспроизведения одной аудиозаписи.
// Поток разрешается лениво при первом запросе воспроизведения; Close
// обязан выполняться на каждом пути ухода с экрана.
type AudioController struct {
	mu     sync.Mutex
	api    AudioAPI
	store  storage.Store
	opener SessionOpener
	log    *slog.Logger

	id          string
	session     MediaSession
	playing     bool
	positionSec float64
	durationSec float64
	rate        float64
	closed      bool
}

// NewAudioController создаёт контроллер для аудиозаписи с указанным id.
func NewAudioController(id string, api AudioAPI, store storage.Store, opener SessionOpener, log *slog.Logger) *AudioController {
	return &AudioController{
		id:     id,
		api:    api,
		store:  store,
		opener: opener,
		log:    log,
		rate:   1.0,
	}
}

// Toggle переключает воспроизведение и паузу. При первом вызове разрешает
// адрес потока, открывает авторизованную сессию и начинает воспроизведение.
func (c *AudioController) Toggle(ctx context.Context) error {
	const op = "playback.Toggle"
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrSessionClosed
	}

	if c.session == nil {
		url, err := c.resolveURL(ctx)
		if err != nil {
			return err
		}
		headers := map[string]string{}
		if token, ok, tokenErr := c.store.Get(ctx, storage.KeyAuthToken); tokenErr == nil && ok && token != "" {
			headers["Authorization"] = "Bearer " + token
		}
		session, err := c.opener.Open(ctx, url, headers)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		c.session = session
		if err := c.session.Play(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		c.playing = true
		return nil
	}

	if c.playing {
		if err := c.session.Pause(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		c.playing = false
		return nil
	}
	if err := c.session.Play(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.playing = true
	return nil
}

// resolveURL разрешает адрес потока: сначала объединённая форма,
// затем устаревшая аудио-форма для старых записей.
func (c *AudioController) resolveURL(ctx context.Context) (string, error) {
	d, err := c.api.Stream(ctx, c.id)
	if err == nil && d.CDNURL != "" {
		return d.CDNURL, nil
	}
	if err != nil {
		c.log.Warn("unified stream resolution failed, trying legacy shape", sl.Err(err))
	}

	url, legacyErr := c.api.AudioStreamLegacy(ctx, c.id)
	if legacyErr == nil && url != "" {
		return url, nil
	}
	return "", ErrMediaUnavailable
}

// SeekFraction перематывает на позицию, заданную долей ширины полосы
// прогресса. Доля зажимается в [0, 1], позиция — в [0, duration].
func (c *AudioController) SeekFraction(fraction float64) error {
	const op = "playback.SeekFraction"
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrSessionClosed
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	position := fraction * c.durationSec
	if c.session != nil {
		if err := c.session.SeekTo(position); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	c.positionSec = position
	return nil
}

// SetRate задаёт скорость воспроизведения из фиксированного набора Rates.
func (c *AudioController) SetRate(rate float64) error {
	const op = "playback.SetRate"
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrSessionClosed
	}
	allowed := false
	for _, r := range Rates {
		if r == rate {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%s: unsupported rate %v", op, rate)
	}
	if c.session != nil {
		if err := c.session.SetRate(rate); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	c.rate = rate
	return nil
}

// CycleRate переключает скорость на следующую в наборе и возвращает её.
func (c *AudioController) CycleRate() (float64, error) {
	c.mu.Lock()
	current := c.rate
	c.mu.Unlock()

	next := Rates[0]
	for i, r := range Rates {
		if r == current {
			next = Rates[(i+1)%len(Rates)]
			break
		}
	}
	if err := c.SetRate(next); err != nil {
		return current, err
	}
	return next, nil
}

// HandleProgress принимает периодический статус от платформенной сессии.
func (c *AudioController) HandleProgress(positionSec, durationSec float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.positionSec = positionSec
	if durationSec > 0 {
		c.durationSec = durationSec
	}
}

// HandleComplete обрабатывает окончание записи: позиция сбрасывается
// в ноль, воспроизведение ставится на паузу.
func (c *AudioController) HandleComplete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.positionSec = 0
	c.playing = false
}

// Close безусловно освобождает платформенную сессию. Повторные вызовы
// безопасны.
func (c *AudioController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		c.session.Release()
		c.session = nil
	}
	c.closed = true
	c.playing = false
}

// Playing сообщает, идёт ли воспроизведение.
func (c *AudioController) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Position возвращает текущую позицию в секундах.
func (c *AudioController) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.positionSec
}

// Duration возвращает длительность записи в секундах.
func (c *AudioController) Duration() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.durationSec
}

// Rate возвращает текущую скорость воспроизведения.
func (c *AudioController) Rate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}
