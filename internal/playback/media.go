// Package playback реализует контроллеры сессий воспроизведения:
// аудио (play/pause/seek/rate), видео (выбор источника потока) и документы
// (постраничная навигация и масштабирование). Декодирование и отрисовка —
// внешние примитивы платформы за интерфейсом MediaSession; контроллеры
// отвечают только за состояние и за дисциплину захвата/освобождения.
package playback

import (
	"context"
	"errors"
)

// ErrMediaUnavailable возвращается, когда бэкенд не дал ни одного
// пригодного адреса потока. Показ в плеере статический, без повторов.
var ErrMediaUnavailable = errors.New("media unavailable: no playable source")

// ErrSessionClosed возвращается при обращении к закрытому контроллеру.
var ErrSessionClosed = errors.New("playback session closed")

// MediaSession — дескриптор платформенной сессии декодирования.
// Захватывается при первом воспроизведении и освобождается ровно один раз
// на любом пути выхода.
type MediaSession interface {
	Play() error
	Pause() error
	// SeekTo перематывает на абсолютную позицию в секундах.
	SeekTo(positionSec float64) error
	// SetRate задаёт скорость воспроизведения.
	SetRate(rate float64) error
	// Release освобождает ресурсы декодера.
	Release()
}

// SessionOpener создаёт платформенную сессию для адреса потока.
// Заголовки передаются как есть (в том числе Authorization).
type SessionOpener interface {
	Open(ctx context.Context, url string, headers map[string]string) (MediaSession, error)
}
