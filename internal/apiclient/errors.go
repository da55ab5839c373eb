package apiclient

import "fmt"

// AuthExpiredError возвращается на любой ответ 401. К этому моменту клиент
// уже очистил локальные учётные данные; вызывающая сторона обязана
// отреагировать и перевести сессию в анонимное состояние.
type AuthExpiredError struct{}

func (e *AuthExpiredError) Error() string {
	return "session expired: please reset your password on the website and sign in again"
}

// RequestError возвращается на любой не-2xx (кроме 401) ответ сервера.
// Сообщение берётся из поля message тела ответа, если оно есть.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Request failed: %d", e.StatusCode)
}
