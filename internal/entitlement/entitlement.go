// Package entitlement реализует проверку статуса подписки с локальным
// кэшем-фолбэком. Проверка выполняется при каждом фокусе экрана; при
// недоступности сервера используется последний закэшированный статус,
// а при его отсутствии доступ открывается (fail-open).
package entitlement

import (
	"context"
	"log/slog"

	"github.com/moshehoffman37-prog/kids-hotline/internal/lib/sl"
	"github.com/moshehoffman37-prog/kids-hotline/internal/models"
	"github.com/moshehoffman37-prog/kids-hotline/internal/storage"
)

// SubscriptionAPI описывает часть клиента API, нужную проверке подписки.
type SubscriptionAPI interface {
	Subscription(ctx context.Context) (*models.Entitlement, error)
}

// Service выполняет проверку подписки и ведёт локальный кэш статуса.
type Service struct {
	api   SubscriptionAPI
	store storage.Store
	log   *slog.Logger
}

// New создаёт сервис проверки подписки.
func New(api SubscriptionAPI, store storage.Store, log *slog.Logger) *Service {
	return &Service{api: api, store: store, log: log}
}

// Check возвращает актуальный статус подписки. Успешный удалённый ответ
// кэшируется лучшими усилиями; ошибка кэширования не влияет на результат.
func (s *Service) Check(ctx context.Context) models.Entitlement {
	ent, err := s.api.Subscription(ctx)
	if err == nil {
		if cacheErr := storage.SetJSON(ctx, s.store, storage.KeyEntitlement, ent); cacheErr != nil {
			s.log.Warn("failed to cache entitlement", sl.Err(cacheErr))
		}
		return *ent
	}
	s.log.Warn("subscription check failed, using cached status", sl.Err(err))

	var cached models.Entitlement
	found, readErr := storage.GetJSON(ctx, s.store, storage.KeyEntitlement, &cached)
	if readErr != nil {
		s.log.Warn("failed to read cached entitlement", sl.Err(readErr))
	}
	if found {
		return cached
	}

	// Нет ни сервера, ни кэша: доступ открыт.
	return models.Entitlement{SubscriptionStatus: "unknown", Active: true}
}
