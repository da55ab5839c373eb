// Package storage реализует локальное персистентное key-value хранилище
// клиента. В нём лежат токен авторизации, сериализованный пользователь,
// набор просмотренных id, кэш статуса подписки и настройка цвета акцента.
package storage

import (
	"context"
	"encoding/json"
)

// Известные ключи хранилища.
const (
	KeyAuthToken   = "auth_token"
	KeyAuthUser    = "auth_user"
	KeyAccentColor = "accent_color"
	KeyViewedIDs   = "viewed_ids"
	KeyEntitlement = "entitlement_cache"
)

// Store описывает асинхронное key-value хранилище со строковыми ключами.
type Store interface {
	// Get возвращает значение по ключу и признак его наличия.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set сохраняет значение по ключу, перезаписывая существующее.
	Set(ctx context.Context, key, value string) error
	// Remove удаляет значение по ключу. Отсутствие ключа не является ошибкой.
	Remove(ctx context.Context, key string) error
}

// GetJSON читает значение по ключу и десериализует его в result.
// Повреждённый JSON трактуется как отсутствие значения: такие сбои
// восстанавливаются молча и никогда не доходят до пользователя.
func GetJSON(ctx context.Context, s Store, key string, result any) (bool, error) {
	val, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), result); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON сериализует value и сохраняет его по ключу.
func SetJSON(ctx context.Context, s Store, key string, value any) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, string(jsonData))
}
