// Package response содержит вспомогательные типы и функции для формирования
// JSON‑ответов dev-сервера об ошибках. Контракт мобильного клиента: текст
// ошибки передаётся в поле message тела ответа.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// ErrorResponse — структура ответа с ошибкой.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Message: msg}
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Каждое нарушение превращается в человеко‑читаемый текст, объединённый
// через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too short", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return ErrorResponse{Message: strings.Join(errsMsgs, ", ")}
}
